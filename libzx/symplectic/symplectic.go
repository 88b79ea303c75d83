// Package symplectic represents qudit Clifford circuits as symplectic
// matrices over Z_d, ignoring global phases. Rows and columns are ordered
// (x1, z1, x2, z2, ...), so single-qudit gates act on 2x2 blocks.
package symplectic

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/circuit"
)

// Matrix is a dense square matrix with entries reduced mod Dim.
type Matrix struct {
	Dim  int
	N    int // side length, 2 * qudit count
	rows [][]int
}

// Identity returns the 2n x 2n identity over Z_dim.
func Identity(dim, qudits int) *Matrix {
	n := 2 * qudits
	m := &Matrix{Dim: dim, N: n, rows: make([][]int, n)}
	for i := range m.rows {
		m.rows[i] = make([]int, n)
		m.rows[i][i] = 1
	}
	return m
}

// At returns the entry at row r, column c.
func (m *Matrix) At(r, c int) int { return m.rows[r][c] }

// Set stores v mod Dim at row r, column c.
func (m *Matrix) Set(r, c, v int) { m.rows[r][c] = gozx.Mod(v, m.Dim) }

func (m *Matrix) String() string {
	var b strings.Builder
	for _, row := range m.rows {
		fmt.Fprintln(&b, row)
	}
	return b.String()
}

// Mul returns m * other mod Dim.
func (m *Matrix) Mul(other *Matrix) *Matrix {
	out := &Matrix{Dim: m.Dim, N: m.N, rows: make([][]int, m.N)}
	for i := 0; i < m.N; i++ {
		out.rows[i] = make([]int, m.N)
		for j := 0; j < m.N; j++ {
			acc := 0
			for k := 0; k < m.N; k++ {
				acc += m.rows[i][k] * other.rows[k][j]
			}
			out.rows[i][j] = gozx.Mod(acc, m.Dim)
		}
	}
	return out
}

// Equal reports whether the two matrices agree entrywise mod Dim.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.Dim != other.Dim || m.N != other.N {
		return false
	}
	for i := 0; i < m.N; i++ {
		for j := 0; j < m.N; j++ {
			if m.rows[i][j] != other.rows[i][j] {
				return false
			}
		}
	}
	return true
}

// embedBlock places a 2k x 2k block acting on the given qudits into a full
// identity matrix.
func embedBlock(dim, qudits int, block [][]int, mapping []int) *Matrix {
	m := Identity(dim, qudits)
	idx := make([]int, 0, 2*len(mapping))
	for _, q := range mapping {
		idx = append(idx, 2*q, 2*q+1)
	}
	for r, row := range block {
		for c, v := range row {
			m.Set(idx[r], idx[c], v)
		}
	}
	return m
}

func hadBlock(reps int) [][]int {
	switch ((reps % 4) + 4) % 4 {
	case 1:
		return [][]int{{0, -1}, {1, 0}}
	case 2:
		return [][]int{{-1, 0}, {0, -1}}
	case 3:
		return [][]int{{0, 1}, {-1, 0}}
	}
	return [][]int{{1, 0}, {0, 1}}
}

func sBlock(reps int) [][]int {
	return [][]int{{1, 0}, {reps, 1}}
}

func mulBlock(value, dim int) ([][]int, error) {
	inv, err := gozx.Inv(value, dim)
	if err != nil {
		return nil, err
	}
	return [][]int{{value, 0}, {0, inv}}, nil
}

func cxBlock(reps int) [][]int {
	return [][]int{
		{1, 0, 0, 0},
		{0, 1, 0, reps},
		{-reps, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func czBlock(reps int) [][]int {
	return [][]int{
		{1, 0, 0, 0},
		{0, 1, -reps, 0},
		{0, 0, 1, 0},
		{-reps, 0, 0, 1},
	}
}

var swapBlock = [][]int{
	{0, 0, 1, 0},
	{0, 0, 0, 1},
	{1, 0, 0, 0},
	{0, 1, 0, 0},
}

// ForGate returns the symplectic action of a single gate on a register of
// the given width. Paulis and phase gates act as the identity here since
// the representation is up to Paulis.
func ForGate(g circuit.Gate, dim, qudits int) (*Matrix, error) {
	switch g.Kind {
	case circuit.KindZ, circuit.KindX, circuit.KindZPhase, circuit.KindXPhase:
		return Identity(dim, qudits), nil
	case circuit.KindHAD:
		return embedBlock(dim, qudits, hadBlock(g.Reps), []int{g.Target}), nil
	case circuit.KindNEG:
		return embedBlock(dim, qudits, hadBlock(2), []int{g.Target}), nil
	case circuit.KindS:
		return embedBlock(dim, qudits, sBlock(g.Reps), []int{g.Target}), nil
	case circuit.KindMUL:
		block, err := mulBlock(g.MulValue, dim)
		if err != nil {
			return nil, err
		}
		return embedBlock(dim, qudits, block, []int{g.Target}), nil
	case circuit.KindCX:
		return embedBlock(dim, qudits, cxBlock(g.Reps), []int{g.Control, g.Target}), nil
	case circuit.KindCZ:
		return embedBlock(dim, qudits, czBlock(g.Reps), []int{g.Control, g.Target}), nil
	case circuit.KindSWAP:
		if g.Reps%2 == 0 {
			return Identity(dim, qudits), nil
		}
		return embedBlock(dim, qudits, swapBlock, []int{g.Control, g.Target}), nil
	}
	return nil, errors.Errorf("no symplectic form for gate %s", g)
}

// ForCircuit composes the gate actions in circuit order.
func ForCircuit(c *circuit.Circuit) (*Matrix, error) {
	m := Identity(c.Dim, c.Qudits)
	for _, g := range c.Gates {
		gm, err := ForGate(g, c.Dim, c.Qudits)
		if err != nil {
			return nil, err
		}
		m = gm.Mul(m)
	}
	return m, nil
}
