package circuit_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/circuit"
	"github.com/qudit-systems/gozx/libzx/graph"
)

func TestParseCircuit(t *testing.T) {
	c, err := circuit.ParseCircuit(3, "S(1); CX(0,1)^2; HAD(0); SWAP(0,2)")
	require.NoError(t, err)
	require.Equal(t, 3, c.Qudits)
	require.Len(t, c.Gates, 4)

	require.Equal(t, circuit.NewS(1, 1), c.Gates[0])
	require.Equal(t, circuit.NewCX(0, 1, 2), c.Gates[1])
	require.Equal(t, circuit.NewHAD(0, 1), c.Gates[2])
	require.Equal(t, circuit.NewSWAP(0, 2), c.Gates[3])
}

func TestParseCircuitNegativeReps(t *testing.T) {
	c, err := circuit.ParseCircuit(5, "S(0)^-1; Z(1)^-2")
	require.NoError(t, err)
	require.Equal(t, -1, c.Gates[0].Reps)
	require.Equal(t, -2, c.Gates[1].Reps)
}

func TestParseCircuitErrors(t *testing.T) {
	cases := []string{
		"FOO(0)",
		"CX(0)",
		"CX(1,1)",
		"S(0,1)",
		"S(-1)",
		"S(0);;",
	}
	for _, expr := range cases {
		_, err := circuit.ParseCircuit(3, expr)
		require.Error(t, err, expr)
	}
}

func TestGateMergeAndIdentity(t *testing.T) {
	s := circuit.NewS(1, 1).Merge(circuit.NewS(1, 1))
	require.Equal(t, 2, s.Reps)
	require.False(t, s.IsIdentity(3))

	s = s.Merge(circuit.NewS(1, 1))
	require.True(t, s.IsIdentity(3))

	require.True(t, circuit.NewHAD(0, 4).IsIdentity(3))
	require.False(t, circuit.NewHAD(0, 2).IsIdentity(3))
	require.True(t, circuit.NewSWAP(0, 1).Merge(circuit.NewSWAP(0, 1)).IsIdentity(3))
	require.True(t, circuit.NewMUL(0, 1).IsIdentity(5))
	require.False(t, circuit.NewMUL(0, 2).IsIdentity(5))
}

func TestCZSameKindIsUnordered(t *testing.T) {
	require.True(t, circuit.NewCZ(0, 1, 1).SameKind(circuit.NewCZ(1, 0, 1)))
	require.False(t, circuit.NewCX(0, 1, 1).SameKind(circuit.NewCX(1, 0, 1)))
}

func TestAdjoint(t *testing.T) {
	c := circuit.MustNew(5, 2)
	c.AddGate(circuit.NewS(0, 2))
	c.AddGate(circuit.NewCX(0, 1, 1))
	c.AddGate(circuit.NewMUL(1, 2))

	adj, err := c.Adjoint()
	require.NoError(t, err)
	require.Len(t, adj.Gates, 3)
	require.Equal(t, circuit.KindMUL, adj.Gates[0].Kind)
	require.Equal(t, 3, adj.Gates[0].MulValue) // 2^-1 mod 5
	require.Equal(t, -1, adj.Gates[1].Reps)
	require.Equal(t, -2, adj.Gates[2].Reps)
}

func TestToGraphWiring(t *testing.T) {
	c := circuit.MustNew(3, 2)
	c.AddGate(circuit.NewS(1, 1))
	c.AddGate(circuit.NewCZ(0, 1, 2))

	g, err := c.ToGraph()
	require.NoError(t, err)

	require.Equal(t, 2, g.NumInputs())
	require.Equal(t, 2, g.NumOutputs())
	// 4 boundaries + S spider + 2 CZ spiders.
	require.Equal(t, 7, g.NumVertices())

	var sSpider, czEdges int
	for _, v := range g.Vertices() {
		if g.Type(v) == gozx.Z && g.Phase(v).Y == 1 {
			sSpider++
		}
	}
	for _, e := range g.Edges() {
		eo := g.EdgeObject(e[0], e[1])
		if eo.IsHad() && eo.Had == 2 {
			czEdges++
		}
	}
	require.Equal(t, 1, sSpider)
	require.Equal(t, 1, czEdges)
	require.Equal(t, 1, g.Scalar().PowerDim)
}

func TestToGraphCXWeight(t *testing.T) {
	c := circuit.MustNew(3, 2)
	c.AddGate(circuit.NewCX(0, 1, 2))

	g, err := c.ToGraph()
	require.NoError(t, err)

	found := false
	for _, e := range g.Edges() {
		eo := g.EdgeObject(e[0], e[1])
		if g.Type(e[0]) != g.Type(e[1]) &&
			g.Type(e[0]) != gozx.Boundary && g.Type(e[1]) != gozx.Boundary {
			require.True(t, eo.IsSimple())
			require.Equal(t, 2, eo.Simple)
			found = true
		}
	}
	require.True(t, found)
}

func TestToGraphFullHadamardPeriod(t *testing.T) {
	// HAD^4 is the identity, so the wire carries no spiders at all.
	c := circuit.MustNew(3, 1)
	c.AddGate(circuit.NewHAD(0, 4))

	g, err := c.ToGraph()
	require.NoError(t, err)
	require.Equal(t, 2, g.NumVertices())
	require.Equal(t, 1, g.NumEdges())
}

func TestEncodingRoundTrip(t *testing.T) {
	c, err := circuit.ParseCircuit(5, "S(1)^2; CX(0,1); MUL(1,3); ZPhase(0,1,2)")
	require.NoError(t, err)

	data, err := c.MarshalBinary()
	require.NoError(t, err)

	var out circuit.Circuit
	require.NoError(t, out.UnmarshalBinary(data))
	require.Equal(t, c.Dim, out.Dim)
	require.Equal(t, c.Qudits, out.Qudits)
	require.Equal(t, c.Gates, out.Gates)

	require.Error(t, out.UnmarshalBinary(data[:3]))
}

func TestUnmarshalRejectsBadGateCount(t *testing.T) {
	// A header claiming far more gates than the payload could hold must
	// fail before any allocation sized from it.
	buf := binary.AppendVarint(nil, 3)
	buf = binary.AppendVarint(buf, 1)
	buf = binary.AppendVarint(buf, 1<<40)

	var c circuit.Circuit
	err := c.UnmarshalBinary(buf)
	require.ErrorContains(t, err, "bad gate count")
}

func TestAppend(t *testing.T) {
	a, err := circuit.ParseCircuit(3, "S(0)")
	require.NoError(t, err)
	b, err := circuit.ParseCircuit(3, "CX(1,2)")
	require.NoError(t, err)

	require.NoError(t, a.Append(b))
	require.Len(t, a.Gates, 2)
	require.Equal(t, 3, a.Qudits)

	other := circuit.MustNew(5, 1)
	require.ErrorIs(t, a.Append(other), gozx.ErrDimMismatch)
}

func TestSplitPhaseGates(t *testing.T) {
	c := circuit.MustNew(3, 1)
	c.AddGate(circuit.NewZPhase(0, graph.NewPhase(3, 2, 1)))
	c.AddGate(circuit.NewXPhase(0, graph.NewPhase(3, 0, 0)))
	c.AddGate(circuit.NewHAD(0, 1))

	split := c.SplitPhaseGates()
	require.Equal(t, []circuit.Gate{
		circuit.NewZ(0, 2),
		circuit.NewS(0, 1),
		circuit.NewNEG(0),
		circuit.NewHAD(0, 1),
	}, split.Gates)
}

func TestZPhaseParsePhase(t *testing.T) {
	c, err := circuit.ParseCircuit(3, "ZPhase(0,1,2)")
	require.NoError(t, err)
	require.Equal(t, graph.NewPhase(3, 1, 2), c.Gates[0].Phase)
}
