package rules_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
	"github.com/qudit-systems/gozx/libzx/rules"
)

func TestColorChangeSimpleEdges(t *testing.T) {
	g := graph.MustNew(3)
	x := g.AddVertex(gozx.X, 0, 1)
	z := g.AddVertex(gozx.Z, 0, 2)
	require.NoError(t, g.AddEdge(x, z, graph.SimpleEdge(3, 2)))

	fired, err := rules.ColorChange(g, x)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, gozx.Z, g.Type(x))
	e := g.EdgeObject(x, z)
	require.True(t, e.IsHad())
	require.Equal(t, 2, e.Had)
}

func TestColorChangeHadEdgeToXNeighbor(t *testing.T) {
	g := graph.MustNew(5)
	x1 := g.AddVertex(gozx.X, 0, 1)
	x2 := g.AddVertex(gozx.X, 0, 2)
	require.NoError(t, g.AddEdge(x1, x2, graph.HadEdge(5, 2)))

	fired, err := rules.ColorChange(g, x1)
	require.NoError(t, err)
	require.True(t, fired)

	e := g.EdgeObject(x1, x2)
	require.True(t, e.IsSimple())
	require.Equal(t, 3, e.Simple) // -2 mod 5
}

func TestColorChangeHadEdgeToZInsertsHelper(t *testing.T) {
	g := graph.MustNew(3)
	x := g.AddVertex(gozx.X, 0, 1)
	z := g.AddVertex(gozx.Z, 0, 2)
	require.NoError(t, g.AddEdge(x, z, graph.HadEdge(3, 2)))

	fired, err := rules.ColorChange(g, x)
	require.NoError(t, err)
	require.True(t, fired)
	require.Equal(t, 3, g.NumVertices())
	require.False(t, g.Connected(x, z))

	var helper int = -1
	for _, v := range g.Vertices() {
		if v != x && v != z {
			helper = v
		}
	}
	require.GreaterOrEqual(t, helper, 0)
	require.Equal(t, gozx.Z, g.Type(helper))
	require.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(x, helper))
	require.Equal(t, graph.HadEdge(3, 2), g.EdgeObject(helper, z))
}

func TestFuseMergesPhaseAndEdges(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddSpider(gozx.Z, 0, 1, graph.NewPhase(3, 1, 0))
	v2 := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 2, 1))
	w := g.AddVertex(gozx.Z, 1, 3)
	require.NoError(t, g.AddEdge(v1, v2, graph.SimpleEdge(3, 1)))
	require.NoError(t, g.AddEdge(v2, w, graph.HadEdge(3, 2)))

	fired, err := rules.Fuse(g, v1, v2)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, graph.NewPhase(3, 0, 1), g.Phase(v1))
	require.Equal(t, graph.HadEdge(3, 2), g.EdgeObject(v1, w))
}

func TestFuseRehomesSelfLoop(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddVertex(gozx.Z, 0, 1)
	v2 := g.AddVertex(gozx.Z, 0, 2)
	require.NoError(t, g.AddEdge(v1, v2, graph.SimpleEdge(3, 1)))
	require.NoError(t, g.AddEdge(v2, v2, graph.HadEdge(3, 1)))

	fired, err := rules.Fuse(g, v1, v2)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(v1, v1))
	require.True(t, g.Phase(v1).IsZero())

	fired, err = rules.RemoveSelfLoop(g, v1)
	require.NoError(t, err)
	require.True(t, fired)
	require.Equal(t, graph.NewPhase(3, 0, 2), g.Phase(v1))
}

func TestFuseRejectsHadamardWire(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddVertex(gozx.Z, 0, 1)
	v2 := g.AddVertex(gozx.Z, 0, 2)
	require.NoError(t, g.AddEdge(v1, v2, graph.HadEdge(3, 1)))

	require.False(t, rules.CheckFuse(g, v1, v2))
	fired, err := rules.Fuse(g, v1, v2)
	require.NoError(t, err)
	require.False(t, fired)
}

// Two Z spiders joined by a unit Hadamard edge: degree 1 on each side, so
// the degree-2 elimination must refuse and leave the graph untouched.
func TestZElimDegreeMismatch(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddVertex(gozx.Z, 0, 1)
	v2 := g.AddVertex(gozx.Z, 0, 2)
	require.NoError(t, g.AddEdge(v1, v2, graph.HadEdge(3, 1)))

	require.False(t, rules.CheckZElim(g, v1))
	fired, err := rules.ZElim(g, v1)
	require.NoError(t, err)
	require.False(t, fired)
	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(v1, v2))
}

// Hadamard into one side, simple out the other: the two compose to a
// single Hadamard edge carrying the product weight.
func TestZElimHadSimpleComposes(t *testing.T) {
	g := graph.MustNew(3)
	a := g.AddVertex(gozx.X, 0, 1)
	v := g.AddVertex(gozx.Z, 0, 2)
	b := g.AddVertex(gozx.X, 0, 3)
	require.NoError(t, g.AddEdge(a, v, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v, b, graph.SimpleEdge(3, 2)))

	fired, err := rules.ZElim(g, v)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, 2, g.NumVertices())
	e := g.EdgeObject(a, b)
	require.True(t, e.IsHad())
	require.Equal(t, 2, e.Had)
}

func TestZElimOppositeHadamardsCancel(t *testing.T) {
	g := graph.MustNew(5)
	a := g.AddVertex(gozx.Z, 0, 1)
	v := g.AddVertex(gozx.Z, 0, 2)
	b := g.AddVertex(gozx.Boundary, 0, 3)
	require.NoError(t, g.AddEdge(a, v, graph.HadEdge(5, 2)))
	require.NoError(t, g.AddEdge(v, b, graph.HadEdge(5, 3)))

	fired, err := rules.ZElim(g, v)
	require.NoError(t, err)
	require.True(t, fired)
	require.Equal(t, graph.SimpleEdge(5, 1), g.EdgeObject(a, b))
}

func TestZElimSimpleSimpleNeedsInverseWeights(t *testing.T) {
	g := graph.MustNew(5)
	a := g.AddVertex(gozx.X, 0, 1)
	v := g.AddVertex(gozx.Z, 0, 2)
	b := g.AddVertex(gozx.X, 0, 3)
	require.NoError(t, g.AddEdge(a, v, graph.SimpleEdge(5, 2)))
	require.NoError(t, g.AddEdge(v, b, graph.SimpleEdge(5, 2)))

	// 2*2 = 4, not 1 mod 5.
	require.False(t, rules.CheckZElim(g, v))

	g2 := graph.MustNew(5)
	a2 := g2.AddVertex(gozx.X, 0, 1)
	v2 := g2.AddVertex(gozx.Z, 0, 2)
	b2 := g2.AddVertex(gozx.X, 0, 3)
	require.NoError(t, g2.AddEdge(a2, v2, graph.SimpleEdge(5, 2)))
	require.NoError(t, g2.AddEdge(v2, b2, graph.SimpleEdge(5, 3)))

	fired, err := rules.ZElim(g2, v2)
	require.NoError(t, err)
	require.True(t, fired)
	require.Equal(t, graph.SimpleEdge(5, 1), g2.EdgeObject(a2, b2))
}

func TestZElimSimpleSimpleRejectsZNeighbor(t *testing.T) {
	g := graph.MustNew(5)
	a := g.AddVertex(gozx.Z, 0, 1)
	v := g.AddVertex(gozx.Z, 0, 2)
	b := g.AddVertex(gozx.X, 0, 3)
	require.NoError(t, g.AddEdge(a, v, graph.SimpleEdge(5, 2)))
	require.NoError(t, g.AddEdge(v, b, graph.SimpleEdge(5, 3)))

	require.False(t, rules.CheckZElim(g, v))
}

func TestRemoveParallelEdge(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddVertex(gozx.Z, 0, 1)
	v2 := g.AddVertex(gozx.Z, 0, 2)
	w := g.AddVertex(gozx.Z, 1, 3)
	require.NoError(t, g.AddEdge(v2, w, graph.HadEdge(3, 1)))
	g.SetEdgeObject(v1, v2, graph.NewEdge(3, 2, 1))

	fired, err := rules.RemoveParallelEdge(g, v1, v2)
	require.NoError(t, err)
	require.True(t, fired)

	// 2h = 4 = 1 mod 3 folded into the phase, then the pair fuses.
	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, graph.NewPhase(3, 0, 1), g.Phase(v1))
	require.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(v1, w))
}

func TestRemoveSelfLoop(t *testing.T) {
	g := graph.MustNew(5)
	v := g.AddVertex(gozx.Z, 0, 1)
	g.SetEdgeObject(v, v, graph.HadEdge(5, 2))

	fired, err := rules.RemoveSelfLoop(g, v)
	require.NoError(t, err)
	require.True(t, fired)
	require.False(t, g.Connected(v, v))
	require.Equal(t, graph.NewPhase(5, 0, 4), g.Phase(v))

	g.SetEdgeObject(v, v, graph.SimpleEdge(5, 1))
	fired, err = rules.RemoveSelfLoop(g, v)
	require.NoError(t, err)
	require.True(t, fired)
	require.False(t, g.Connected(v, v))
	require.Equal(t, graph.NewPhase(5, 0, 4), g.Phase(v))
}

func TestLocalComp(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 0, 1))
	n1 := g.AddVertex(gozx.Z, 1, 1)
	n2 := g.AddVertex(gozx.Z, 1, 3)
	require.NoError(t, g.AddEdge(v, n1, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v, n2, graph.HadEdge(3, 2)))

	require.True(t, rules.CheckLocalComp(g, v))
	fired, err := rules.LocalComp(g, v)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, 2, g.NumVertices())
	// z_inv = 1. n1 gains (0, -1) = (0, 2); n2 gains (0, -4) = (0, 2).
	require.Equal(t, graph.NewPhase(3, 0, 2), g.Phase(n1))
	require.Equal(t, graph.NewPhase(3, 0, 2), g.Phase(n2))
	// Pair edge weight -1*1*2 = -2 = 1 mod 3.
	require.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(n1, n2))
}

func TestLocalCompRejectsPauliPhase(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 1, 0))
	n := g.AddVertex(gozx.Z, 1, 1)
	require.NoError(t, g.AddEdge(v, n, graph.HadEdge(3, 1)))

	require.False(t, rules.CheckLocalComp(g, v))
}

// Composite dimensions are rejected at graph construction, so the
// invertibility gate inside the rules is exercised with a weight that has
// no inverse only through the strictly-Clifford check: a quadratic
// coefficient of 0 never counts as Clifford.
func TestLocalCompRequiresInvertibleQuadratic(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 0, 3)) // reduces to (0,0)
	n := g.AddVertex(gozx.Z, 1, 1)
	require.NoError(t, g.AddEdge(v, n, graph.HadEdge(3, 1)))

	require.False(t, rules.CheckLocalComp(g, v))
}

func TestPivot(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 1, 0))
	v2 := g.AddSpider(gozx.Z, 0, 3, graph.NewPhase(3, 2, 0))
	n := g.AddVertex(gozx.Z, 1, 1)
	m := g.AddVertex(gozx.Z, 1, 4)
	require.NoError(t, g.AddEdge(v1, v2, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v1, n, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v2, m, graph.HadEdge(3, 2)))

	require.True(t, rules.CheckPivot(g, v1, v2))
	fired, err := rules.Pivot(g, v1, v2)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, 2, g.NumVertices())
	// eps_inv = 1. n: x += -1*1*2 = 1 mod 3. m: x += -1*2*1 = 1 mod 3.
	require.Equal(t, 1, g.Phase(n).X)
	require.Equal(t, 1, g.Phase(m).X)
	// Pair edge -1*1*2 = 1 mod 3.
	require.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(n, m))
	require.False(t, g.Scalar().IsUnknown)
}

func TestPivotCommonNeighborFoldsToPhase(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddVertex(gozx.Z, 0, 2)
	v2 := g.AddVertex(gozx.Z, 0, 3)
	n := g.AddVertex(gozx.Z, 1, 1)
	require.NoError(t, g.AddEdge(v1, v2, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v1, n, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v2, n, graph.HadEdge(3, 1)))

	fired, err := rules.Pivot(g, v1, v2)
	require.NoError(t, err)
	require.True(t, fired)

	require.Equal(t, 1, g.NumVertices())
	require.False(t, g.Connected(n, n))
	// Loop weight -1*1*1 = 2 mod 3, folded as 2h = 4 = 1 mod 3.
	require.Equal(t, graph.NewPhase(3, 0, 1), g.Phase(n))
}

func TestPivotRejectsNonPauli(t *testing.T) {
	g := graph.MustNew(3)
	v1 := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 0, 1))
	v2 := g.AddVertex(gozx.Z, 0, 3)
	require.NoError(t, g.AddEdge(v1, v2, graph.HadEdge(3, 1)))

	require.False(t, rules.CheckPivot(g, v1, v2))
}

func TestBoundaryPivot(t *testing.T) {
	g := graph.MustNew(3)
	b := g.AddVertex(gozx.Boundary, 0, 0)
	v2 := g.AddSpider(gozx.Z, 0, 1, graph.NewPhase(3, 2, 0))
	v1 := g.AddSpider(gozx.Z, 0, 2, graph.NewPhase(3, 1, 0))
	n := g.AddVertex(gozx.Z, 1, 3)
	require.NoError(t, g.AddEdge(b, v2, graph.SimpleEdge(3, 1)))
	require.NoError(t, g.AddEdge(v2, v1, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v1, n, graph.HadEdge(3, 1)))
	g.SetInputs(b)

	require.False(t, rules.CheckPivot(g, v1, v2))
	require.True(t, rules.CheckBoundaryPivot(g, v1, v2))

	fired, err := rules.BoundaryPivot(g, v1, v2)
	require.NoError(t, err)
	require.True(t, fired)

	// v1 and v2 are gone; the boundary hangs off the unfused carrier.
	require.False(t, g.Connected(b, v2))
	bn := g.Neighbors(b)
	require.Len(t, bn, 1)
	u := bn[0]
	require.Equal(t, gozx.Z, g.Type(u))
	require.Equal(t, graph.NewPhase(3, 2, 0), g.Phase(u))
}
