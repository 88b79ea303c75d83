package circuit

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
)

// The circuit expression grammar, e.g.
//
//	S(1); CX(0,1)^2; HAD(0); SWAP(0,2)
//
// Gates are separated by ";". Arguments are wire indices (and, for MUL,
// the multiplier value). A trailing "^n" sets the repetition count; a
// negative exponent denotes the adjoint.
type CircuitExpr struct {
	Gates []*GateExpr `parser:"(@@ (';' @@)*)?"`
}

type GateExpr struct {
	Name string   `parser:"@Ident"`
	Args []string `parser:"'(' (@('-'? Int) (',' @('-'? Int))*)? ')'"`
	Reps string   `parser:"('^' @('-'? Int))?"`
}

var parseCircuitExpr = participle.MustBuild[CircuitExpr]()

// ParseCircuit builds a circuit from its textual form.
func ParseCircuit(dim int, expr string) (*Circuit, error) {
	c, err := New(dim, 0)
	if err != nil {
		return nil, err
	}
	parsed, err := parseCircuitExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(gozx.ErrBadCircuitExpr, err.Error())
	}
	for _, ge := range parsed.Gates {
		g, err := buildGate(dim, ge)
		if err != nil {
			return nil, err
		}
		c.AddGate(g)
	}
	return c, nil
}

func buildGate(dim int, ge *GateExpr) (Gate, error) {
	args := make([]int, len(ge.Args))
	for i, a := range ge.Args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return Gate{}, errors.Wrapf(gozx.ErrBadCircuitExpr, "argument %q", a)
		}
		args[i] = n
	}
	reps := 1
	if ge.Reps != "" {
		n, err := strconv.Atoi(ge.Reps)
		if err != nil {
			return Gate{}, errors.Wrapf(gozx.ErrBadCircuitExpr, "repetition %q", ge.Reps)
		}
		reps = n
	}

	one := func(k Kind) (Gate, error) {
		if len(args) != 1 || args[0] < 0 {
			return Gate{}, errors.Wrapf(gozx.ErrBadCircuitExpr, "%s takes one wire", ge.Name)
		}
		return Gate{Kind: k, Target: args[0], Reps: reps}, nil
	}
	two := func(k Kind) (Gate, error) {
		if len(args) != 2 || args[0] < 0 || args[1] < 0 || args[0] == args[1] {
			return Gate{}, errors.Wrapf(gozx.ErrBadCircuitExpr, "%s takes two distinct wires", ge.Name)
		}
		return Gate{Kind: k, Control: args[0], Target: args[1], Reps: reps}, nil
	}

	switch ge.Name {
	case "Z":
		return one(KindZ)
	case "X":
		return one(KindX)
	case "S":
		return one(KindS)
	case "NEG":
		return one(KindNEG)
	case "H", "HAD":
		return one(KindHAD)
	case "CZ":
		return two(KindCZ)
	case "CX", "CNOT":
		return two(KindCX)
	case "SWAP":
		return two(KindSWAP)
	case "MUL":
		if len(args) != 2 || args[0] < 0 {
			return Gate{}, errors.Wrap(gozx.ErrBadCircuitExpr, "MUL takes a wire and a value")
		}
		return Gate{Kind: KindMUL, Target: args[0], MulValue: gozx.Mod(args[1], dim), Reps: reps}, nil
	case "ZPhase":
		if len(args) != 3 || args[0] < 0 {
			return Gate{}, errors.Wrap(gozx.ErrBadCircuitExpr, "ZPhase takes a wire and two phase components")
		}
		return NewZPhase(args[0], phaseFor(dim, args[1], args[2])), nil
	case "XPhase":
		if len(args) != 3 || args[0] < 0 {
			return Gate{}, errors.Wrap(gozx.ErrBadCircuitExpr, "XPhase takes a wire and two phase components")
		}
		return NewXPhase(args[0], phaseFor(dim, args[1], args[2])), nil
	}
	return Gate{}, errors.Wrapf(gozx.ErrBadCircuitExpr, "unknown gate %q", ge.Name)
}
