package graph

import (
	"fmt"

	"github.com/qudit-systems/gozx/gozx"
)

// Edge is the label carried by a vertex pair: a simple-wire component and a
// Hadamard component, each a weight mod the graph's dimension. At most one
// Edge exists per vertex pair; parallel wires are folded into the weights.
// The zero value means "no edge".
type Edge struct {
	Had    int
	Simple int
}

// NewEdge returns an edge label with both components reduced mod dim.
func NewEdge(dim, had, simple int) Edge {
	return Edge{
		Had:    gozx.Mod(had, dim),
		Simple: gozx.Mod(simple, dim),
	}
}

// HadEdge returns a pure Hadamard edge of the given weight.
func HadEdge(dim, had int) Edge { return NewEdge(dim, had, 0) }

// SimpleEdge returns a pure simple edge of the given weight.
func SimpleEdge(dim, simple int) Edge { return NewEdge(dim, 0, simple) }

func (e Edge) String() string {
	return fmt.Sprintf("Edge(h=%d,s=%d)", e.Had, e.Simple)
}

// IsPresent reports whether any wire is present at all.
func (e Edge) IsPresent() bool { return e.Had != 0 || e.Simple != 0 }

// IsHad reports whether the edge is a pure Hadamard edge.
func (e Edge) IsHad() bool { return e.IsPresent() && e.Simple == 0 }

// IsSimple reports whether the edge is a pure simple edge.
func (e Edge) IsSimple() bool { return e.IsPresent() && e.Had == 0 }

// IsReduced reports whether at least one component is zero. Every insertion
// path through Graph.AddEdge leaves the stored label reduced; a compound
// label only exists transiently in caller hands.
func (e Edge) IsReduced() bool { return e.Had == 0 || e.Simple == 0 }

// Add returns the component-wise sum of the two labels reduced mod dim.
func (e Edge) Add(other Edge, dim int) Edge {
	return NewEdge(dim, e.Had+other.Had, e.Simple+other.Simple)
}
