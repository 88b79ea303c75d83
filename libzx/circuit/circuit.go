package circuit

import (
	"fmt"
	"strings"

	"github.com/qudit-systems/gozx/gozx"
)

// Circuit is a flat list of gates over a fixed number of qudits of prime
// dimension. The construction methods do not validate that gate wires are
// in range; callers building circuits by hand own that contract.
type Circuit struct {
	Dim    int
	Qudits int
	Name   string
	Gates  []Gate
}

// New returns an empty circuit. The dimension must be prime.
func New(dim, qudits int) (*Circuit, error) {
	if err := gozx.CheckDim(dim); err != nil {
		return nil, err
	}
	return &Circuit{Dim: dim, Qudits: qudits}, nil
}

// MustNew is New for statically known dimensions.
func MustNew(dim, qudits int) *Circuit {
	c, err := New(dim, qudits)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Circuit) String() string {
	parts := make([]string, len(c.Gates))
	for i, g := range c.Gates {
		parts[i] = g.String()
	}
	return fmt.Sprintf("Circuit(dim=%d, qudits=%d): %s",
		c.Dim, c.Qudits, strings.Join(parts, "; "))
}

// Copy returns an independent deep copy.
func (c *Circuit) Copy() *Circuit {
	out := &Circuit{Dim: c.Dim, Qudits: c.Qudits, Name: c.Name}
	out.Gates = append([]Gate(nil), c.Gates...)
	return out
}

// AddGate appends a gate, growing the qudit count if the gate addresses a
// wire beyond it.
func (c *Circuit) AddGate(g Gate) {
	if n := g.maxTarget() + 1; n > c.Qudits {
		c.Qudits = n
	}
	c.Gates = append(c.Gates, g)
}

// Adjoint returns the inverse circuit: each gate inverted, in reverse
// order.
func (c *Circuit) Adjoint() (*Circuit, error) {
	out := &Circuit{Dim: c.Dim, Qudits: c.Qudits, Name: c.Name + "Adjoint"}
	for i := len(c.Gates) - 1; i >= 0; i-- {
		g, err := c.Gates[i].Adjoint(c.Dim)
		if err != nil {
			return nil, err
		}
		out.Gates = append(out.Gates, g)
	}
	return out, nil
}

// Append adds every gate of other to c. Both circuits must share a
// dimension; the qudit count grows to cover the wider of the two.
func (c *Circuit) Append(other *Circuit) error {
	if other.Dim != c.Dim {
		return gozx.ErrDimMismatch
	}
	for _, g := range other.Gates {
		c.AddGate(g)
	}
	if other.Qudits > c.Qudits {
		c.Qudits = other.Qudits
	}
	return nil
}

// SplitPhaseGates returns a new circuit with every generic phase gate
// split into Z and S repetitions.
func (c *Circuit) SplitPhaseGates() *Circuit {
	out := &Circuit{Dim: c.Dim, Qudits: c.Qudits, Name: c.Name}
	for _, g := range c.Gates {
		switch g.Kind {
		case KindZPhase, KindXPhase:
			out.Gates = append(out.Gates, g.SplitPhases()...)
		default:
			out.Gates = append(out.Gates, g)
		}
	}
	return out
}

// BasicGates returns a new circuit with every gate expanded into the
// generating set.
func (c *Circuit) BasicGates() *Circuit {
	out := &Circuit{Dim: c.Dim, Qudits: c.Qudits, Name: c.Name}
	for _, g := range c.Gates {
		out.Gates = append(out.Gates, g.BasicGates(c.Dim)...)
	}
	return out
}

// GateCount returns the number of gates.
func (c *Circuit) GateCount() int { return len(c.Gates) }
