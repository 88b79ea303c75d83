// Package circuit models qudit Clifford circuits as flat gate lists, with
// a text grammar for building them and a lowering into ZX diagrams.
package circuit

import (
	"fmt"
	"strings"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
)

// Kind enumerates the supported gate types.
type Kind int8

const (
	KindZPhase Kind = iota
	KindXPhase
	KindZ
	KindX
	KindS
	KindNEG
	KindHAD
	KindCZ
	KindCX
	KindSWAP
	KindMUL
)

var kindNames = map[Kind]string{
	KindZPhase: "ZPhase",
	KindXPhase: "XPhase",
	KindZ:      "Z",
	KindX:      "X",
	KindS:      "S",
	KindNEG:    "NEG",
	KindHAD:    "HAD",
	KindCZ:     "CZ",
	KindCX:     "CX",
	KindSWAP:   "SWAP",
	KindMUL:    "MUL",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HasControl reports whether k is a two-qudit gate.
func (k Kind) HasControl() bool {
	return k == KindCZ || k == KindCX || k == KindSWAP
}

// Gate is a single circuit element. Reps counts repetitions of the base
// gate; a negative Reps denotes the adjoint. MulValue is only meaningful
// for MUL gates and Phase only for ZPhase/XPhase gates.
type Gate struct {
	Kind     Kind
	Target   int
	Control  int
	Reps     int
	MulValue int
	Phase    graph.CliffordPhase

	// Index disambiguates otherwise-equal gates inside the simplifier's
	// dependency graph. Zero means unassigned.
	Index int
}

func NewZ(target, reps int) Gate   { return Gate{Kind: KindZ, Target: target, Reps: reps} }
func NewX(target, reps int) Gate   { return Gate{Kind: KindX, Target: target, Reps: reps} }
func NewS(target, reps int) Gate   { return Gate{Kind: KindS, Target: target, Reps: reps} }
func NewNEG(target int) Gate       { return Gate{Kind: KindNEG, Target: target, Reps: 1} }
func NewHAD(target, reps int) Gate { return Gate{Kind: KindHAD, Target: target, Reps: reps} }

func NewCZ(control, target, reps int) Gate {
	return Gate{Kind: KindCZ, Target: target, Control: control, Reps: reps}
}

func NewCX(control, target, reps int) Gate {
	return Gate{Kind: KindCX, Target: target, Control: control, Reps: reps}
}

func NewSWAP(control, target int) Gate {
	return Gate{Kind: KindSWAP, Target: target, Control: control, Reps: 1}
}

func NewMUL(target, value int) Gate {
	return Gate{Kind: KindMUL, Target: target, Reps: 1, MulValue: value}
}

func NewZPhase(target int, phase graph.CliffordPhase) Gate {
	return Gate{Kind: KindZPhase, Target: target, Reps: 1, Phase: phase}
}

func NewXPhase(target int, phase graph.CliffordPhase) Gate {
	return Gate{Kind: KindXPhase, Target: target, Reps: 1, Phase: phase}
}

func (g Gate) String() string {
	var b strings.Builder
	b.WriteString(g.Kind.String())
	b.WriteByte('(')
	if g.Kind.HasControl() {
		fmt.Fprintf(&b, "%d,%d", g.Control, g.Target)
	} else {
		fmt.Fprintf(&b, "%d", g.Target)
	}
	if g.Kind == KindMUL {
		fmt.Fprintf(&b, ",%d", g.MulValue)
	}
	if g.Kind == KindZPhase || g.Kind == KindXPhase {
		fmt.Fprintf(&b, ",%s", g.Phase.String())
	}
	b.WriteByte(')')
	if g.Reps != 1 {
		fmt.Fprintf(&b, "^%d", g.Reps)
	}
	return b.String()
}

// SameKind reports whether g and other are the same gate type on the same
// wires, which is what gate merging requires. For CZ the wire pair is
// unordered.
func (g Gate) SameKind(other Gate) bool {
	if g.Kind != other.Kind {
		return false
	}
	if g.Kind == KindCZ {
		return (g.Target == other.Target && g.Control == other.Control) ||
			(g.Target == other.Control && g.Control == other.Target)
	}
	if g.Kind.HasControl() {
		return g.Target == other.Target && g.Control == other.Control
	}
	return g.Target == other.Target
}

// Merge folds other's repetitions (and phase) into g. MUL gates compose
// by multiplying their values.
func (g Gate) Merge(other Gate) Gate {
	if g.Kind == KindMUL {
		g.MulValue *= other.MulValue
		return g
	}
	g.Reps += other.Reps
	if g.Kind == KindZPhase || g.Kind == KindXPhase {
		g.Phase = g.Phase.Add(other.Phase)
	}
	return g
}

// Adjoint returns the inverse gate. MUL inverts its multiplier, which
// requires the value to be a unit mod dim.
func (g Gate) Adjoint(dim int) (Gate, error) {
	if g.Kind == KindMUL {
		inv, err := gozx.Inv(g.MulValue, dim)
		if err != nil {
			return Gate{}, err
		}
		g.MulValue = inv
		return g, nil
	}
	g.Reps = -g.Reps
	if g.Kind == KindZPhase || g.Kind == KindXPhase {
		g.Phase = g.Phase.Adjoint()
	}
	return g, nil
}

// IsIdentity reports whether the gate denotes the identity for the given
// dimension.
func (g Gate) IsIdentity(dim int) bool {
	switch g.Kind {
	case KindZ, KindX, KindS, KindCZ, KindCX:
		return gozx.Mod(g.Reps, dim) == 0
	case KindHAD:
		return g.Reps%4 == 0
	case KindSWAP:
		return g.Reps%2 == 0
	case KindMUL:
		return gozx.Mod(g.MulValue, dim) == 1
	case KindNEG:
		return false
	case KindZPhase, KindXPhase:
		return g.Phase.IsZero() || gozx.Mod(g.Reps, dim) == 0
	}
	return false
}

// OnWire reports whether the gate touches qudit q.
func (g Gate) OnWire(q int) bool {
	return g.Target == q || (g.Kind.HasControl() && g.Control == q)
}

func (g Gate) maxTarget() int {
	if g.Kind.HasControl() && g.Control > g.Target {
		return g.Control
	}
	return g.Target
}

// BasicGates expands the gate into the generating set {ZPhase-likes, HAD,
// CZ, CX}. Repetitions are kept on the emitted gates rather than unrolled.
func (g Gate) BasicGates(dim int) []Gate {
	switch g.Kind {
	case KindNEG:
		return []Gate{NewHAD(g.Target, 2)}
	case KindX:
		// X = H Z H^3 up to repetition.
		return []Gate{
			NewHAD(g.Target, 1),
			NewZ(g.Target, g.Reps),
			NewHAD(g.Target, 3),
		}
	case KindSWAP:
		out := make([]Gate, 0, 3*abs(g.Reps))
		for i := 0; i < abs(g.Reps); i++ {
			out = append(out,
				NewCX(g.Control, g.Target, 1),
				NewCX(g.Target, g.Control, 1),
				NewCX(g.Control, g.Target, 1),
			)
		}
		return out
	default:
		return []Gate{g}
	}
}

// SplitPhases rewrites a generic phase gate into Z and S repetitions.
// An X-basis phase is conjugated by Hadamards; a zero X phase collapses
// to a NEG. Gates of any other kind come back unchanged.
func (g Gate) SplitPhases() []Gate {
	switch g.Kind {
	case KindZPhase:
		return splitZPhase(g.Target, g.Phase)
	case KindXPhase:
		if g.Phase.IsZero() {
			return []Gate{NewNEG(g.Target)}
		}
		out := []Gate{NewHAD(g.Target, 1)}
		out = append(out, splitZPhase(g.Target, g.Phase)...)
		return append(out, NewHAD(g.Target, 1))
	default:
		return []Gate{g}
	}
}

func splitZPhase(target int, p graph.CliffordPhase) []Gate {
	var out []Gate
	if p.X != 0 {
		out = append(out, NewZ(target, p.X))
	}
	if p.Y != 0 {
		out = append(out, NewS(target, p.Y))
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
