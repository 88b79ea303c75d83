// Package rules is the ZX rewrite rule library: check/apply pairs of local
// graph surgeries that preserve the diagram's denoted linear map up to the
// graph's tracked scalar.
//
// Every Check* is side-effect free. Every apply re-verifies its
// precondition and reports whether it fired; returning false leaves the
// graph untouched. Rules that walk and mutate a neighborhood in the same
// application always iterate an owned snapshot of the adjacency.
package rules

import (
	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
)

// CheckColorChange reports whether v is an X spider.
func CheckColorChange(g *graph.Graph, v int) bool {
	return g.Type(v) == gozx.X
}

// ColorChange retypes an X spider to Z and toggles the algebraic nature of
// every incident edge: simple edges become Hadamard edges of the same
// weight, Hadamard edges to X neighbors become negated simple edges, and
// Hadamard edges to Z or Boundary neighbors are expanded into an explicit
// Hadamard-Z-Hadamard path through an inserted helper spider. May grow the
// vertex count.
func ColorChange(g *graph.Graph, v int) (bool, error) {
	if !CheckColorChange(g, v) {
		return false, nil
	}
	g.SetType(v, gozx.Z)

	for _, n := range g.Neighbors(v) {
		if err := recolorEdge(g, v, n); err != nil {
			return false, err
		}
	}
	return true, nil
}

func recolorEdge(g *graph.Graph, v, n int) error {
	e := g.EdgeObject(v, n)
	if !e.IsReduced() {
		return gozx.ErrMixedEdge
	}
	nty := g.Type(n)
	switch {
	case e.IsHad() && (nty == gozx.Z || nty == gozx.Boundary):
		g.RemoveEdge(v, n)
		u := g.AddVertex(gozx.Z, midpoint(g.Qubit(v), g.Qubit(n)), midpoint(g.Row(v), g.Row(n)))
		if err := g.AddEdge(v, u, graph.HadEdge(g.Dim(), 1)); err != nil {
			return err
		}
		return g.AddEdge(u, n, graph.HadEdge(g.Dim(), e.Had))
	case e.IsHad(): // X neighbor
		g.SetEdgeObject(v, n, graph.SimpleEdge(g.Dim(), -e.Had))
	case e.IsSimple():
		g.SetEdgeObject(v, n, graph.HadEdge(g.Dim(), e.Simple))
	}
	return nil
}

func midpoint(a, b float64) float64 { return (a + b) / 2 }

// CheckFuse reports whether v1 and v2 are Z spiders joined by a simple edge.
func CheckFuse(g *graph.Graph, v1, v2 int) bool {
	return v1 != v2 && g.Connected(v1, v2) &&
		g.Type(v1) == gozx.Z && g.Type(v2) == gozx.Z &&
		g.EdgeObject(v1, v2).IsSimple()
}

// Fuse merges v2 into v1: v2's phase is added onto v1 and every other
// incident edge of v2 is re-homed onto v1 through the store's insertion
// algebra. A self-loop on v2 re-homes as a self-loop on v1; the fusing wire
// itself is consumed. v2 is deleted.
func Fuse(g *graph.Graph, v1, v2 int) (bool, error) {
	if !CheckFuse(g, v1, v2) {
		return false, nil
	}
	g.AddToPhase(v1, g.Phase(v2))
	for _, v3 := range g.Neighbors(v2) {
		switch v3 {
		case v1:
			// The fusing wire; consumed by the merge.
		case v2:
			if err := g.AddEdge(v1, v1, g.EdgeObject(v2, v2)); err != nil {
				return false, err
			}
		default:
			if err := g.AddEdge(v1, v3, g.EdgeObject(v2, v3)); err != nil {
				return false, err
			}
		}
	}
	g.RemoveVertex(v2)
	return true, nil
}

// CheckZElim reports whether the degree-2 phaseless elimination applies at
// v: v is a Z spider of degree exactly two with zero phase and no
// self-loop, and its two edges compose: Hadamard with simple in either
// order, two Hadamards with additive-inverse weights, or two simple edges
// with multiplicative-inverse weights between X/Boundary neighbors.
func CheckZElim(g *graph.Graph, v int) bool {
	if g.Type(v) != gozx.Z || !g.Phase(v).IsZero() || g.VertexDegree(v) != 2 {
		return false
	}
	nbrs := g.Neighbors(v)
	v1, v2 := nbrs[0], nbrs[1]
	if v1 == v || v2 == v {
		return false
	}
	e1 := g.EdgeObject(v1, v)
	e2 := g.EdgeObject(v, v2)

	switch {
	case e1.IsHad() && e2.IsSimple():
		return true
	case e1.IsSimple() && e2.IsHad():
		return true
	case e1.IsHad() && e2.IsHad():
		return e1.Had == gozx.Mod(-e2.Had, g.Dim())
	case e1.IsSimple() && e2.IsSimple():
		inv, err := gozx.Inv(e2.Simple, g.Dim())
		if err != nil {
			return false
		}
		return e1.Simple == inv &&
			xOrBoundary(g.Type(v1)) && xOrBoundary(g.Type(v2))
	}
	return false
}

func xOrBoundary(ty gozx.VertexType) bool {
	return ty == gozx.X || ty == gozx.Boundary
}

// ZElim removes a degree-2 phaseless Z spider, replacing its two incident
// edges by their algebraic composition between its two neighbors.
func ZElim(g *graph.Graph, v int) (bool, error) {
	if !CheckZElim(g, v) {
		return false, nil
	}
	nbrs := g.Neighbors(v)
	v1, v2 := nbrs[0], nbrs[1]
	e1 := g.EdgeObject(v1, v)
	e2 := g.EdgeObject(v, v2)

	var composed graph.Edge
	switch {
	case e1.IsHad() && e2.IsSimple():
		composed = graph.HadEdge(g.Dim(), e1.Had*e2.Simple)
	case e1.IsSimple() && e2.IsHad():
		composed = graph.HadEdge(g.Dim(), e1.Simple*e2.Had)
	default:
		// Mutually-inverse Hadamards or multipliers cancel to a plain wire.
		composed = graph.SimpleEdge(g.Dim(), 1)
	}
	if err := g.AddEdge(v1, v2, composed); err != nil {
		return false, err
	}
	g.RemoveVertex(v)
	return true, nil
}

// CheckRemoveParallelEdge reports whether v1 and v2 are Z spiders whose
// edge label has not been reduced to a single component.
func CheckRemoveParallelEdge(g *graph.Graph, v1, v2 int) bool {
	return v1 != v2 && g.Connected(v1, v2) &&
		g.Type(v1) == gozx.Z && g.Type(v2) == gozx.Z &&
		!g.EdgeObject(v1, v2).IsReduced()
}

// RemoveParallelEdge folds the Hadamard component of a compound Z-Z edge
// into v1's phase as a quadratic term, reduces the edge to a canonical
// simple wire, and fuses the pair.
func RemoveParallelEdge(g *graph.Graph, v1, v2 int) (bool, error) {
	if !CheckRemoveParallelEdge(g, v1, v2) {
		return false, nil
	}
	e := g.EdgeObject(v1, v2)
	g.AddToPhase(v1, graph.NewPhase(g.Dim(), 0, 2*e.Had))
	g.SetEdgeObject(v1, v2, graph.SimpleEdge(g.Dim(), 1))
	return Fuse(g, v1, v2)
}

// CheckRemoveSelfLoop reports whether v is a Z spider carrying a self-loop.
func CheckRemoveSelfLoop(g *graph.Graph, v int) bool {
	return g.Type(v) == gozx.Z && g.Connected(v, v)
}

// RemoveSelfLoop deletes a self-loop on a Z spider. A Hadamard loop of
// weight h contributes the quadratic phase term 2h; a simple loop denotes
// an identity factor and contributes nothing.
func RemoveSelfLoop(g *graph.Graph, v int) (bool, error) {
	if !CheckRemoveSelfLoop(g, v) {
		return false, nil
	}
	e := g.EdgeObject(v, v)
	if e.Had != 0 {
		g.AddToPhase(v, graph.NewPhase(g.Dim(), 0, 2*e.Had))
	}
	g.RemoveEdge(v, v)
	return true, nil
}
