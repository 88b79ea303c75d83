// Package simplify drives the rewrite rules to fixpoints: graph-like
// normalization plus Clifford simplification strategies.
package simplify

import (
	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
	"github.com/qudit-systems/gozx/libzx/rules"
)

// IsGraphLike reports whether g is in graph-like form: every spider is Z,
// spiders are joined only by Hadamard edges, there are no self-loops or
// compound edges, every boundary vertex attaches to a spider through a
// single simple edge, and no spider touches more than one boundary.
func IsGraphLike(g *graph.Graph) bool {
	for _, v := range g.Vertices() {
		switch g.Type(v) {
		case gozx.Boundary:
			ns := g.Neighbors(v)
			if len(ns) != 1 {
				return false
			}
			if !g.EdgeObject(v, ns[0]).IsSimple() {
				return false
			}
		case gozx.Z:
			boundaries := 0
			for _, n := range g.Neighbors(v) {
				e := g.EdgeObject(v, n)
				if n == v || !e.IsReduced() {
					return false
				}
				switch g.Type(n) {
				case gozx.Boundary:
					boundaries++
				case gozx.Z:
					if !e.IsHad() {
						return false
					}
				default:
					return false
				}
			}
			if boundaries > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// ToGraphLike rewrites g into graph-like form: color-changes every X
// spider to Z, fuses along simple Z-Z wires, removes self-loops and
// compound edges, then conditions the boundary so that every boundary
// vertex reaches its spider through one simple edge and no spider holds
// two boundaries.
func ToGraphLike(g *graph.Graph) error {
	for _, v := range g.Vertices() {
		if _, err := rules.ColorChange(g, v); err != nil {
			return err
		}
	}
	if err := reduceInterior(g); err != nil {
		return err
	}
	if err := conditionBoundary(g); err != nil {
		return err
	}
	if !IsGraphLike(g) {
		return errors.New("graph-like normalization did not converge")
	}
	return nil
}

// reduceInterior runs fusion, self-loop removal, and compound-edge
// reduction to a joint fixpoint. Each pass restarts the scan after a hit
// since a firing invalidates the edge snapshot.
func reduceInterior(g *graph.Graph) error {
	for {
		fired, err := reduceOnce(g)
		if err != nil {
			return err
		}
		if !fired {
			return nil
		}
	}
}

func reduceOnce(g *graph.Graph) (bool, error) {
	for _, v := range g.Vertices() {
		if fired, err := rules.RemoveSelfLoop(g, v); err != nil || fired {
			return fired, err
		}
	}
	for _, e := range g.Edges() {
		v, w := e[0], e[1]
		if fired, err := rules.RemoveParallelEdge(g, v, w); err != nil || fired {
			return fired, err
		}
		if fired, err := rules.Fuse(g, v, w); err != nil || fired {
			return fired, err
		}
	}
	return false, nil
}

// conditionBoundary fixes up wire attachments. A spider holding several
// boundaries keeps one and each extra boundary is re-attached through a
// fresh two-spider chain whose cancelling unit Hadamard pair denotes the
// identity. A boundary reaching its spider through a Hadamard edge gets a
// helper spider so the attachment edge is simple; a bare boundary-boundary
// wire gets a full identity chain.
func conditionBoundary(g *graph.Graph) error {
	for _, v := range g.Vertices() {
		if g.Type(v) != gozx.Z {
			continue
		}
		seen := false
		for _, b := range g.Neighbors(v) {
			if g.Type(b) != gozx.Boundary {
				continue
			}
			if !seen {
				seen = true
				continue
			}
			if err := detachBoundary(g, v, b); err != nil {
				return err
			}
		}
	}

	for _, b := range g.Vertices() {
		if g.Type(b) != gozx.Boundary {
			continue
		}
		ns := g.Neighbors(b)
		if len(ns) != 1 {
			return errors.Wrapf(gozx.ErrBoundaryEdge, "boundary %d has degree %d", b, len(ns))
		}
		n := ns[0]
		e := g.EdgeObject(b, n)
		switch {
		case g.Type(n) == gozx.Boundary:
			if err := insertIdentityChain(g, b, n, e); err != nil {
				return err
			}
		case e.IsHad():
			if err := simplifyAttachment(g, b, n, e); err != nil {
				return err
			}
		}
	}
	return nil
}

// detachBoundary moves the wire (v, b) onto a fresh identity chain hanging
// off v, freeing v of the extra boundary. The chain's cancelling unit
// Hadamard pair composes to a plain wire, and the original attachment edge
// is carried over verbatim onto the chain's end.
func detachBoundary(g *graph.Graph, v, b int) error {
	e := g.EdgeObject(v, b)
	g.RemoveEdge(v, b)
	z1 := g.AddVertex(gozx.Z, g.Qubit(b), rowBetween(g, v, b))
	z2 := g.AddVertex(gozx.Z, g.Qubit(b), rowBetween(g, z1, b))
	if err := g.AddEdge(v, z1, graph.HadEdge(g.Dim(), 1)); err != nil {
		return err
	}
	if err := g.AddEdge(z1, z2, graph.HadEdge(g.Dim(), -1)); err != nil {
		return err
	}
	return g.AddEdge(z2, b, e)
}

// simplifyAttachment replaces a Hadamard wire (b, n) by a simple wire into
// a helper spider that carries the Hadamard on to n.
func simplifyAttachment(g *graph.Graph, b, n int, e graph.Edge) error {
	g.RemoveEdge(b, n)
	z := g.AddVertex(gozx.Z, g.Qubit(b), rowBetween(g, b, n))
	if err := g.AddEdge(b, z, graph.SimpleEdge(g.Dim(), 1)); err != nil {
		return err
	}
	return g.AddEdge(z, n, graph.HadEdge(g.Dim(), e.Had))
}

// insertIdentityChain splices spiders into a bare boundary-boundary wire
// so each end attaches simply. A Hadamard wire becomes a two-spider chain
// carrying the Hadamard on its interior edge; a plain wire needs a third
// spider so the interior Hadamard pair cancels.
func insertIdentityChain(g *graph.Graph, b, n int, e graph.Edge) error {
	dim := g.Dim()
	g.RemoveEdge(b, n)
	z1 := g.AddVertex(gozx.Z, g.Qubit(b), rowBetween(g, b, n))
	if e.IsHad() {
		z2 := g.AddVertex(gozx.Z, g.Qubit(b), rowBetween(g, z1, n))
		if err := g.AddEdge(b, z1, graph.SimpleEdge(dim, 1)); err != nil {
			return err
		}
		if err := g.AddEdge(z1, z2, graph.HadEdge(dim, e.Had)); err != nil {
			return err
		}
		return g.AddEdge(z2, n, graph.SimpleEdge(dim, 1))
	}
	z2 := g.AddVertex(gozx.Z, g.Qubit(b), rowBetween(g, z1, n))
	z3 := g.AddVertex(gozx.Z, g.Qubit(n), rowBetween(g, z2, n))
	if err := g.AddEdge(b, z1, graph.SimpleEdge(dim, e.Simple)); err != nil {
		return err
	}
	if err := g.AddEdge(z1, z2, graph.HadEdge(dim, 1)); err != nil {
		return err
	}
	if err := g.AddEdge(z2, z3, graph.HadEdge(dim, -1)); err != nil {
		return err
	}
	return g.AddEdge(z3, n, graph.SimpleEdge(dim, 1))
}

func rowBetween(g *graph.Graph, v, w int) float64 {
	return (g.Row(v) + g.Row(w)) / 2
}

// ToAPForm simplifies g toward affine-with-phases form: after graph-like
// normalization it eliminates strictly-Clifford spiders by local
// complementation and Pauli pairs by pivoting, restarting the scan after
// every hit until nothing fires.
func ToAPForm(g *graph.Graph) error {
	if err := ToGraphLike(g); err != nil {
		return err
	}
	return interiorFixpoint(g)
}

// CliffordSimp is the full Clifford simplification strategy: ToAPForm plus
// boundary pivoting, so Pauli spiders stuck next to the boundary are
// removed too. Boundary pivoting unfuses fresh spiders, so its rounds are
// capped by the graph's size at entry rather than trusted to converge.
func CliffordSimp(g *graph.Graph) error {
	if err := ToGraphLike(g); err != nil {
		return err
	}
	rounds := g.NumVertices() + 1
	for i := 0; i < rounds; i++ {
		if err := interiorFixpoint(g); err != nil {
			return err
		}
		fired, err := boundaryRound(g)
		if err != nil {
			return err
		}
		if !fired {
			return nil
		}
	}
	return nil
}

func interiorFixpoint(g *graph.Graph) error {
	for {
		fired, err := interiorOnce(g)
		if err != nil {
			return err
		}
		if !fired {
			return nil
		}
	}
}

func interiorOnce(g *graph.Graph) (bool, error) {
	for _, v := range g.Vertices() {
		if fired, err := rules.LocalComp(g, v); err != nil || fired {
			return fired, err
		}
	}
	for _, e := range g.Edges() {
		if fired, err := rules.Pivot(g, e[0], e[1]); err != nil || fired {
			return fired, err
		}
	}
	return false, nil
}

func boundaryRound(g *graph.Graph) (bool, error) {
	for _, e := range g.Edges() {
		v, w := e[0], e[1]
		if fired, err := rules.BoundaryPivot(g, v, w); err != nil || fired {
			return fired, err
		}
		if fired, err := rules.BoundaryPivot(g, w, v); err != nil || fired {
			return fired, err
		}
	}
	return false, nil
}
