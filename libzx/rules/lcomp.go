package rules

import (
	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
)

// CheckLocalComp reports whether local complementation applies at v: a Z
// spider with a strictly Clifford phase (zero linear part, invertible
// quadratic part), no self-loop, and only Z neighbors.
func CheckLocalComp(g *graph.Graph, v int) bool {
	if g.Type(v) != gozx.Z || !g.Phase(v).IsStrictlyClifford() {
		return false
	}
	for _, n := range g.Neighbors(v) {
		if n == v || g.Type(n) != gozx.Z {
			return false
		}
	}
	return true
}

// LocalComp removes a strictly-Clifford Z spider by complementing its
// neighborhood. With phase (a, z) and z_inv the inverse of z, each
// neighbor n reached through Hadamard weight e_n gains the phase
// (-z_inv*a*e_n, -z_inv*e_n^2), and each unordered neighbor pair (n, m)
// gains a Hadamard edge of weight -z_inv*e_n*e_m. The removed spider's
// amplitude folds into the global scalar.
func LocalComp(g *graph.Graph, v int) (bool, error) {
	if !CheckLocalComp(g, v) {
		return false, nil
	}
	dim := g.Dim()
	p := g.Phase(v)
	zinv, err := gozx.Inv(p.Y, dim)
	if err != nil {
		return false, err
	}

	ns := g.Neighbors(v)
	weight := make(map[int]int, len(ns))
	for _, n := range ns {
		weight[n] = g.EdgeObject(v, n).Had
	}

	for _, n := range ns {
		e := weight[n]
		g.AddToPhase(n, graph.NewPhase(dim, -zinv*p.X*e, -zinv*e*e))
	}
	for i, n := range ns {
		for _, m := range ns[i+1:] {
			h := gozx.Mod(-zinv*weight[n]*weight[m], dim)
			if h == 0 {
				continue
			}
			if err := g.AddEdge(n, m, graph.HadEdge(dim, h)); err != nil {
				return false, err
			}
		}
	}

	g.Scalar().AddNode(p)
	g.Scalar().AddPower(-1)
	g.RemoveVertex(v)
	return true, nil
}
