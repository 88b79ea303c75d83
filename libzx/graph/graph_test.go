package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
)

func TestNewRejectsBadDim(t *testing.T) {
	for _, dim := range []int{0, 1, 4, 6, 9} {
		_, err := graph.New(dim)
		assert.ErrorIs(t, err, gozx.ErrBadDim, "dim=%d", dim)
	}
	g, err := graph.New(3)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Dim())
}

func TestVertexLifecycle(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddVertex(gozx.Z, 0, 0)
	w := g.AddVertex(gozx.Z, 1, 0)
	require.NoError(t, g.AddEdge(v, w, graph.SimpleEdge(3, 1)))

	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())
	assert.Equal(t, []int{w}, g.Neighbors(v))
	assert.True(t, g.Connected(v, w))

	g.RemoveVertex(w)
	assert.Equal(t, 1, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())
	assert.False(t, g.Connected(v, w))
	assert.Empty(t, g.Neighbors(v))
}

func TestRemoveVertexStripsBoundary(t *testing.T) {
	g := graph.MustNew(3)
	b := g.AddVertex(gozx.Boundary, 0, 0)
	v := g.AddVertex(gozx.Z, 0, 1)
	require.NoError(t, g.AddEdge(b, v, graph.SimpleEdge(3, 1)))
	g.SetInputs(b)

	g.RemoveVertex(b)
	assert.Empty(t, g.Inputs())
}

func TestBoundaryEdgeRules(t *testing.T) {
	g := graph.MustNew(3)
	b := g.AddVertex(gozx.Boundary, 0, 0)
	v := g.AddVertex(gozx.Z, 0, 1)

	require.NoError(t, g.AddEdge(b, v, graph.SimpleEdge(3, 1)))

	// Second edge onto a boundary is a hard error.
	err := g.AddEdge(b, v, graph.SimpleEdge(3, 1))
	assert.ErrorIs(t, err, gozx.ErrBoundaryEdge)

	// Compound edge onto a boundary is a hard error.
	b2 := g.AddVertex(gozx.Boundary, 1, 0)
	err = g.AddEdge(b2, v, graph.Edge{Had: 1, Simple: 1})
	assert.ErrorIs(t, err, gozx.ErrCompoundBoundary)
}

func TestAddEdgeZZFusesOnSimple(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddVertex(gozx.Z, 0, 0)
	w := g.AddVertex(gozx.Z, 1, 0)

	require.NoError(t, g.AddEdge(v, w, graph.HadEdge(3, 2)))
	require.NoError(t, g.AddEdge(v, w, graph.SimpleEdge(3, 1)))

	e := g.EdgeObject(v, w)
	assert.True(t, e.IsSimple())
	assert.Equal(t, 1, e.Simple)
	// The Hadamard weight 2 became the quadratic phase 2*2 = 4 = 1 (mod 3).
	assert.Equal(t, graph.NewPhase(3, 0, 1), g.Phase(v))
}

func TestAddEdgeZZHadamardsAccumulate(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddVertex(gozx.Z, 0, 0)
	w := g.AddVertex(gozx.Z, 1, 0)

	require.NoError(t, g.AddEdge(v, w, graph.HadEdge(3, 1)))
	require.NoError(t, g.AddEdge(v, w, graph.HadEdge(3, 1)))
	assert.Equal(t, graph.HadEdge(3, 2), g.EdgeObject(v, w))

	// A third unit Hadamard cancels the edge entirely.
	require.NoError(t, g.AddEdge(v, w, graph.HadEdge(3, 1)))
	assert.False(t, g.Connected(v, w))
}

func TestAddEdgeXX(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddVertex(gozx.X, 0, 0)
	w := g.AddVertex(gozx.X, 1, 0)

	require.NoError(t, g.AddEdge(v, w, graph.SimpleEdge(3, 2)))
	// Simple edges collapse to a single canonical wire between X-spiders.
	assert.Equal(t, graph.SimpleEdge(3, 1), g.EdgeObject(v, w))

	err := g.AddEdge(v, w, graph.HadEdge(3, 1))
	assert.ErrorIs(t, err, gozx.ErrMixedEdge)
}

func TestAddEdgeZX(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddVertex(gozx.Z, 0, 0)
	w := g.AddVertex(gozx.X, 1, 0)

	require.NoError(t, g.AddEdge(v, w, graph.SimpleEdge(3, 2)))
	require.NoError(t, g.AddEdge(v, w, graph.SimpleEdge(3, 2)))
	assert.Equal(t, graph.SimpleEdge(3, 1), g.EdgeObject(v, w))

	// 2 + 1 = 0 (mod 3) removes the edge.
	require.NoError(t, g.AddEdge(v, w, graph.SimpleEdge(3, 2)))
	assert.False(t, g.Connected(v, w))

	// Hadamard edges collapse to weight 1.
	require.NoError(t, g.AddEdge(v, w, graph.HadEdge(3, 2)))
	assert.Equal(t, graph.HadEdge(3, 1), g.EdgeObject(v, w))

	err := g.AddEdge(v, w, graph.SimpleEdge(3, 1))
	assert.ErrorIs(t, err, gozx.ErrMixedEdge)
}

// Edge reduction closure: any insertion path that does not error leaves the
// stored label reduced.
func TestEdgeReductionClosure(t *testing.T) {
	for _, dim := range []int{2, 3, 5} {
		for had := 0; had < dim; had++ {
			for simple := 0; simple < dim; simple++ {
				for _, ty := range []gozx.VertexType{gozx.Z, gozx.X} {
					g := graph.MustNew(dim)
					v := g.AddVertex(ty, 0, 0)
					w := g.AddVertex(ty, 1, 0)
					eo := graph.NewEdge(dim, had, simple)
					if err := g.AddEdge(v, w, eo); err != nil {
						continue
					}
					if err := g.AddEdge(v, w, eo); err != nil {
						continue
					}
					if g.Connected(v, w) {
						assert.True(t, g.EdgeObject(v, w).IsReduced(),
							"dim=%d ty=%v had=%d simple=%d", dim, ty, had, simple)
					}
				}
			}
		}
	}
}

func TestPhaseClassification(t *testing.T) {
	p := graph.NewPhase(3, 1, 0)
	assert.True(t, p.IsPauli())
	assert.False(t, p.IsPureClifford())
	assert.False(t, p.IsZero())

	q := graph.NewPhase(3, 0, 2)
	assert.True(t, q.IsPureClifford())
	assert.True(t, q.IsStrictlyClifford())

	z := graph.ZeroPhase(3)
	assert.True(t, z.IsZero())
	assert.True(t, z.IsPauli())
	assert.False(t, z.IsStrictlyClifford())

	// Composite dim: quadratic component 2 is not invertible mod 6.
	r := graph.NewPhase(6, 0, 2)
	assert.False(t, r.IsStrictlyClifford())
}

func TestPhaseArithmetic(t *testing.T) {
	a := graph.NewPhase(5, 3, 4)
	b := graph.NewPhase(5, 4, 2)
	assert.Equal(t, graph.NewPhase(5, 2, 1), a.Add(b))
	assert.Equal(t, graph.NewPhase(5, 4, 2), a.Sub(b))
	assert.Equal(t, graph.NewPhase(5, 2, 1), a.Adjoint())

	assert.Panics(t, func() { a.Add(graph.NewPhase(3, 1, 0)) })
}

func TestScalarAccumulation(t *testing.T) {
	s := graph.NewScalar(3)
	s.AddPower(2)
	assert.InDelta(t, 3.0, real(s.Value()), 1e-9)

	s2 := graph.NewScalar(3)
	require.NoError(t, s2.AddCliffordSpiderPair(
		graph.NewPhase(3, 1, 0), graph.NewPhase(3, 1, 0)))
	assert.Equal(t, 1, s2.PowerDim)

	// dim 2 has no inverse of 2: the pair accumulation must refuse.
	s3 := graph.NewScalar(2)
	err := s3.AddCliffordSpiderPair(graph.NewPhase(2, 1, 0), graph.NewPhase(2, 1, 0))
	assert.ErrorIs(t, err, gozx.ErrNotInvertible)
}

func TestGraphCopyIsIndependent(t *testing.T) {
	g := graph.MustNew(3)
	v := g.AddVertex(gozx.Z, 0, 0)
	w := g.AddVertex(gozx.Z, 1, 0)
	require.NoError(t, g.AddEdge(v, w, graph.HadEdge(3, 1)))
	g.Scalar().AddPower(1)

	cpy := g.Copy()
	cpy.RemoveVertex(w)
	cpy.Scalar().AddPower(1)

	assert.True(t, g.Connected(v, w))
	assert.Equal(t, 1, g.Scalar().PowerDim)
	assert.Equal(t, 2, cpy.Scalar().PowerDim)
}
