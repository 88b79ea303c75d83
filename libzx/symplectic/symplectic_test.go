package symplectic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qudit-systems/gozx/libzx/circuit"
	"github.com/qudit-systems/gozx/libzx/symplectic"
)

func matFor(t *testing.T, dim int, expr string) *symplectic.Matrix {
	t.Helper()
	c, err := circuit.ParseCircuit(dim, expr)
	require.NoError(t, err)
	m, err := symplectic.ForCircuit(c)
	require.NoError(t, err)
	return m
}

func TestGateOrders(t *testing.T) {
	id1 := symplectic.Identity(3, 1)
	require.True(t, matFor(t, 3, "HAD(0)^4").Equal(id1))
	require.True(t, matFor(t, 3, "S(0)^3").Equal(id1))
	require.True(t, matFor(t, 3, "Z(0)").Equal(id1)) // Paulis drop out

	id2 := symplectic.Identity(3, 2)
	require.True(t, matFor(t, 3, "SWAP(0,1); SWAP(0,1)").Equal(id2))
	require.True(t, matFor(t, 3, "CX(0,1); CX(0,1)^-1").Equal(id2))
	require.True(t, matFor(t, 3, "CZ(0,1); CZ(0,1)^2").Equal(id2))
}

func TestHadamardSquaredNegates(t *testing.T) {
	m := matFor(t, 5, "HAD(0)^2")
	require.Equal(t, 4, m.At(0, 0))
	require.Equal(t, 4, m.At(1, 1))
	require.Equal(t, 0, m.At(0, 1))
}

func TestMulInverse(t *testing.T) {
	m := matFor(t, 5, "MUL(0,2); MUL(0,3)")
	require.True(t, m.Equal(symplectic.Identity(5, 1)))

	c := circuit.MustNew(3, 1)
	c.AddGate(circuit.NewMUL(0, 0))
	_, err := symplectic.ForCircuit(c)
	require.Error(t, err)
}

func TestCZSymmetric(t *testing.T) {
	require.True(t, matFor(t, 3, "CZ(0,1)").Equal(matFor(t, 3, "CZ(1,0)")))
	require.False(t, matFor(t, 3, "CX(0,1)").Equal(matFor(t, 3, "CX(1,0)")))
}

func TestHadamardConjugatesCX(t *testing.T) {
	// H(t); CX^a(c,t) = CZ^-a(c,t); H(t)
	lhs := matFor(t, 3, "HAD(1); CX(0,1)^2")
	rhs := matFor(t, 3, "CZ(0,1)^-2; HAD(1)")
	require.True(t, lhs.Equal(rhs))
}

func TestSwapConjugation(t *testing.T) {
	lhs := matFor(t, 3, "SWAP(0,1); S(0)")
	rhs := matFor(t, 3, "S(1); SWAP(0,1)")
	require.True(t, lhs.Equal(rhs))
}
