package rules

import (
	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
)

// CheckPivot reports whether the pivot rule applies to the pair (v1, v2):
// two Z spiders with Pauli phases joined by a Hadamard edge of invertible
// weight, with no self-loops and every other neighbor a Z spider.
func CheckPivot(g *graph.Graph, v1, v2 int) bool {
	if v1 == v2 || !g.Connected(v1, v2) {
		return false
	}
	if g.Type(v1) != gozx.Z || g.Type(v2) != gozx.Z {
		return false
	}
	if !g.Phase(v1).IsPauli() || !g.Phase(v2).IsPauli() {
		return false
	}
	e := g.EdgeObject(v1, v2)
	if !e.IsHad() || !gozx.Invertible(e.Had, g.Dim()) {
		return false
	}
	// The scalar bookkeeping for the removed pair needs 1/2 mod dim.
	if !gozx.Invertible(2, g.Dim()) {
		return false
	}
	return zNeighborhood(g, v1, v2) && zNeighborhood(g, v2, v1)
}

func zNeighborhood(g *graph.Graph, v, other int) bool {
	for _, n := range g.Neighbors(v) {
		if n == v {
			return false
		}
		if n == other {
			continue
		}
		if g.Type(n) != gozx.Z {
			return false
		}
	}
	return true
}

// Pivot removes a connected pair of Pauli-phased Z spiders at once. With
// eps the Hadamard weight of the pivot edge and eps_inv its inverse, every
// pair (n, m) with n a residual neighbor of v1 and m a residual neighbor
// of v2 gains a Hadamard edge of weight -eps_inv*e_n*f_m, where e_n and
// f_m are the weights of the edges into v1 and v2. A pair landing on the
// same vertex contributes the quadratic phase term 2h instead of a
// self-loop. Each n also gains the linear phase -eps_inv*e_n*x2, each m
// the linear phase -eps_inv*f_m*x1, and the pair's joint amplitude folds
// into the global scalar.
func Pivot(g *graph.Graph, v1, v2 int) (bool, error) {
	if !CheckPivot(g, v1, v2) {
		return false, nil
	}
	dim := g.Dim()
	einv, err := gozx.Inv(g.EdgeObject(v1, v2).Had, dim)
	if err != nil {
		return false, err
	}
	p1 := g.Phase(v1)
	p2 := g.Phase(v2)

	n1s, e1 := residualNeighbors(g, v1, v2)
	n2s, e2 := residualNeighbors(g, v2, v1)

	for _, n := range n1s {
		g.AddToPhase(n, graph.NewPhase(dim, -einv*e1[n]*p2.X, 0))
	}
	for _, m := range n2s {
		g.AddToPhase(m, graph.NewPhase(dim, -einv*e2[m]*p1.X, 0))
	}
	for _, n := range n1s {
		for _, m := range n2s {
			h := gozx.Mod(-einv*e1[n]*e2[m], dim)
			if h == 0 {
				continue
			}
			if n == m {
				g.AddToPhase(n, graph.NewPhase(dim, 0, 2*h))
				continue
			}
			if err := g.AddEdge(n, m, graph.HadEdge(dim, h)); err != nil {
				return false, err
			}
		}
	}

	if err := g.Scalar().AddCliffordSpiderPair(p1, p2); err != nil {
		return false, err
	}
	g.RemoveVertex(v1)
	g.RemoveVertex(v2)
	return true, nil
}

// residualNeighbors returns v's neighbors other than skip, with a lookup
// of the Hadamard weights into v snapshotted before any mutation.
func residualNeighbors(g *graph.Graph, v, skip int) ([]int, map[int]int) {
	ns := g.Neighbors(v)
	out := make([]int, 0, len(ns))
	weight := make(map[int]int, len(ns))
	for _, n := range ns {
		if n == skip {
			continue
		}
		out = append(out, n)
		weight[n] = g.EdgeObject(v, n).Had
	}
	return out, weight
}

// CheckBoundaryPivot reports whether the boundary variant of the pivot
// applies: the pair satisfies the pivot preconditions except that v2 has
// exactly one Boundary neighbor, which the rule detaches through an
// unfusing step before pivoting.
func CheckBoundaryPivot(g *graph.Graph, v1, v2 int) bool {
	if v1 == v2 || !g.Connected(v1, v2) {
		return false
	}
	if g.Type(v1) != gozx.Z || g.Type(v2) != gozx.Z {
		return false
	}
	if !g.Phase(v1).IsPauli() || !g.Phase(v2).IsPauli() {
		return false
	}
	e := g.EdgeObject(v1, v2)
	if !e.IsHad() || !gozx.Invertible(e.Had, g.Dim()) {
		return false
	}
	if !gozx.Invertible(2, g.Dim()) {
		return false
	}
	if !zNeighborhood(g, v1, v2) {
		return false
	}
	return boundaryNeighbor(g, v2, v1) >= 0
}

// boundaryNeighbor returns v's sole Boundary neighbor, or -1 if v has a
// self-loop, no Boundary neighbor, more than one, or a non-Z residual.
func boundaryNeighbor(g *graph.Graph, v, other int) int {
	b := -1
	for _, n := range g.Neighbors(v) {
		if n == v {
			return -1
		}
		if n == other {
			continue
		}
		switch g.Type(n) {
		case gozx.Boundary:
			if b >= 0 {
				return -1
			}
			b = n
		case gozx.Z:
		default:
			return -1
		}
	}
	return b
}

// BoundaryPivot pivots a pair where v2 touches the boundary. It first
// unfuses v2: a fresh spider u takes over v2's phase and the boundary
// wire, and a helper spider z1 links u back to v2 through a cancelling
// pair of unit Hadamard edges. The core pivot then removes v1 and v2.
func BoundaryPivot(g *graph.Graph, v1, v2 int) (bool, error) {
	if !CheckBoundaryPivot(g, v1, v2) {
		return false, nil
	}
	dim := g.Dim()
	b := boundaryNeighbor(g, v2, v1)
	eb := g.EdgeObject(v2, b)
	g.RemoveEdge(v2, b)

	u := g.AddSpider(gozx.Z, g.Qubit(b), midpoint(g.Row(v2), g.Row(b)), g.Phase(v2))
	z1 := g.AddVertex(gozx.Z, g.Qubit(v2), midpoint(g.Row(v2), g.Row(u)))
	g.SetPhase(v2, g.ZeroPhase())

	if err := g.AddEdge(b, u, eb); err != nil {
		return false, err
	}
	if err := g.AddEdge(u, z1, graph.HadEdge(dim, 1)); err != nil {
		return false, err
	}
	if err := g.AddEdge(z1, v2, graph.HadEdge(dim, -1)); err != nil {
		return false, err
	}
	return Pivot(g, v1, v2)
}
