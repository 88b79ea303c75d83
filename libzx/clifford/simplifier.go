package clifford

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/circuit"
	"github.com/qudit-systems/gozx/libzx/symplectic"
)

// Simplifier normalises a Clifford circuit by pushing gates toward the
// end through small atomic rewrites. Every applied step snapshots the
// circuit, so the whole trail can be replayed or handed to a checker.
type Simplifier struct {
	dag  *DAG
	base *circuit.Circuit

	// CircuitList holds the circuit after each applied step; entry 0 is
	// the input circuit. StepsDone names the step that produced each of
	// the later entries.
	CircuitList []*circuit.Circuit
	StepsDone   []string

	// CheckSemantics verifies after every step that the symplectic
	// action is unchanged, failing the step with ErrSemantics otherwise.
	CheckSemantics bool
}

// NewSimplifier builds the dependency DAG of c and records it as the
// starting point. The input circuit is not modified.
func NewSimplifier(c *circuit.Circuit) *Simplifier {
	base := c.Copy()
	return &Simplifier{
		dag:         NewDAG(base),
		base:        base,
		CircuitList: []*circuit.Circuit{base.Copy()},
	}
}

// Circuit returns the current (most recently rewritten) circuit.
func (s *Simplifier) Circuit() *circuit.Circuit {
	return s.CircuitList[len(s.CircuitList)-1]
}

func (s *Simplifier) dim() int { return s.base.Dim }

func (s *Simplifier) updateCircuit(step string) error {
	c := s.base.Copy()
	c.Gates = s.dag.TopoGates()
	s.CircuitList = append(s.CircuitList, c)
	s.StepsDone = append(s.StepsDone, step)
	klog.V(2).Infof("%s: %s", step, c)
	if s.CheckSemantics {
		prev := s.CircuitList[len(s.CircuitList)-2]
		m1, err := symplectic.ForCircuit(prev)
		if err != nil {
			return err
		}
		m2, err := symplectic.ForCircuit(c)
		if err != nil {
			return err
		}
		if !m1.Equal(m2) {
			return errors.Wrapf(gozx.ErrSemantics, "after step %q", step)
		}
	}
	return nil
}

func hadPeriod(reps int) int {
	return ((reps % 4) + 4) % 4
}

func otherWire(g circuit.Gate, q int) int {
	if g.Target == q {
		return g.Control
	}
	return g.Target
}

// singleChild returns the sole child of id, or -1 when id does not have
// exactly one child.
func (s *Simplifier) singleChild(id int) int {
	if ch := s.dag.children(id); len(ch) == 1 {
		return ch[0]
	}
	return -1
}

// CombineGates repeatedly merges a gate into an adjacent gate of the
// same kind on the same wires until no such pair is left.
func (s *Simplifier) CombineGates() (bool, error) {
	applied := false
	for {
		merged := false
		for _, id := range s.dag.topoIDs() {
			c := s.singleChild(id)
			if c < 0 {
				continue
			}
			g := s.dag.gate(id)
			if !g.SameKind(s.dag.gate(c)) {
				continue
			}
			s.dag.setGate(id, g.Merge(s.dag.gate(c)))
			if err := s.dag.merge(id, c); err != nil {
				return false, err
			}
			merged = true
			applied = true
			break
		}
		if !merged {
			break
		}
	}
	if !applied {
		return false, nil
	}
	return true, s.updateCircuit("combine gates")
}

// RemoveIdentityGate removes one gate whose action is the identity.
func (s *Simplifier) RemoveIdentityGate() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		if !s.dag.gate(id).IsIdentity(s.dim()) {
			continue
		}
		p := s.dag.parents(id)[0]
		if err := s.dag.merge(p, id); err != nil {
			return false, err
		}
		return true, s.updateCircuit("remove identity")
	}
	return false, nil
}

// PushPauli moves one Z or X gate a step toward the end of the circuit.
func (s *Simplifier) PushPauli() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindZ && g.Kind != circuit.KindX {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		switch cg.Kind {
		case circuit.KindZ, circuit.KindX:
			// Gates are maximally merged, so this is the other Pauli.
			// Normalise Z before X.
			if g.Kind == circuit.KindX && cg.Kind == circuit.KindZ {
				s.dag.swapGates(id, c)
				return true, s.updateCircuit("push Pauli")
			}
		case circuit.KindHAD:
			r := hadPeriod(cg.Reps)
			if r == 0 {
				continue
			}
			cg.Reps = r
			s.dag.setGate(c, cg)
			switch {
			case r == 2:
				g.Reps = -g.Reps
			case g.Kind == circuit.KindZ:
				reps := g.Reps
				if r == 3 {
					reps = -reps
				}
				g = circuit.NewX(g.Target, reps)
			default:
				reps := -g.Reps
				if r == 3 {
					reps = -reps
				}
				g = circuit.NewZ(g.Target, reps)
			}
			s.dag.setGate(id, g)
			s.dag.swapGates(id, c)
			return true, s.updateCircuit("push Pauli")
		case circuit.KindS:
			if g.Kind == circuit.KindZ {
				s.dag.swapGates(id, c)
				return true, s.updateCircuit("push Pauli")
			}
			newZ := circuit.NewZ(g.Target, g.Reps*cg.Reps)
			s.dag.swapGates(id, c)
			nid := s.dag.newNode(newZ)
			if err := s.dag.insertBetweenChild(id, nid, c); err != nil {
				return false, err
			}
			return true, s.updateCircuit("push Pauli")
		case circuit.KindCZ, circuit.KindCX, circuit.KindSWAP:
			if err := s.pushPauliThroughPair(id, c, g, cg); err != nil {
				return false, err
			}
			return true, s.updateCircuit("push Pauli")
		}
	}
	return false, nil
}

func (s *Simplifier) pushPauliThroughPair(id, c int, pauli, two circuit.Gate) error {
	s.dag.setGate(id, two)
	if err := s.dag.merge(id, c); err != nil {
		return err
	}
	q := pauli.Target
	switch two.Kind {
	case circuit.KindSWAP:
		pauli.Target = otherWire(two, q)
		_, err := s.dag.insertSingleQuditGateAfter(id, pauli)
		return err
	case circuit.KindCZ:
		if _, err := s.dag.insertSingleQuditGateAfter(id, pauli); err != nil {
			return err
		}
		if pauli.Kind == circuit.KindX {
			newZ := circuit.NewZ(otherWire(two, q), pauli.Reps*two.Reps)
			if _, err := s.dag.insertSingleQuditGateAfter(id, newZ); err != nil {
				return err
			}
		}
		return nil
	default: // CX
		onControl := two.Control == q
		if (onControl && pauli.Kind == circuit.KindZ) ||
			(!onControl && pauli.Kind == circuit.KindX) {
			_, err := s.dag.insertSingleQuditGateAfter(id, pauli)
			return err
		}
		// A Z on the target or an X on the control spawns a partner
		// Pauli on the other wire.
		reps := pauli.Reps * two.Reps
		var partner circuit.Gate
		if pauli.Kind == circuit.KindX {
			partner = circuit.NewX(otherWire(two, q), reps)
		} else {
			partner = circuit.NewZ(otherWire(two, q), -reps)
		}
		if _, err := s.dag.insertSingleQuditGateAfter(id, pauli); err != nil {
			return err
		}
		_, err := s.dag.insertSingleQuditGateAfter(id, partner)
		return err
	}
}

// PushDoubleHadamard moves one H^2 gate a step toward the end. It does
// not push past Paulis, which keeps the overall strategy terminating.
func (s *Simplifier) PushDoubleHadamard() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindHAD || g.Reps%2 != 0 {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		switch cg.Kind {
		case circuit.KindHAD:
			g.Reps = hadPeriod(g.Reps + cg.Reps)
			s.dag.setGate(id, g)
			if err := s.dag.merge(id, c); err != nil {
				return false, err
			}
			return true, s.updateCircuit("push double Hadamard")
		case circuit.KindCZ, circuit.KindCX:
			// Conjugating by H^2 on one wire inverts the coupling.
			cg.Reps = -cg.Reps
			s.dag.setGate(id, cg)
			if err := s.dag.merge(id, c); err != nil {
				return false, err
			}
			if _, err := s.dag.insertSingleQuditGateAfter(id, g); err != nil {
				return false, err
			}
			return true, s.updateCircuit("push double Hadamard")
		case circuit.KindSWAP:
			q := g.Target
			s.dag.setGate(id, cg)
			if err := s.dag.merge(id, c); err != nil {
				return false, err
			}
			g.Target = otherWire(cg, q)
			if _, err := s.dag.insertSingleQuditGateAfter(id, g); err != nil {
				return false, err
			}
			return true, s.updateCircuit("push double Hadamard")
		case circuit.KindS:
			// H^2;S = S;H^2;Z^{-r}, which keeps the Paulis after the H^2.
			newZ := circuit.NewZ(g.Target, -cg.Reps)
			s.dag.swapGates(id, c)
			if _, err := s.dag.insertSingleQuditGateAfter(c, newZ); err != nil {
				return false, err
			}
			return true, s.updateCircuit("push double Hadamard")
		}
	}
	return false, nil
}

// PushSWAP moves one SWAP gate a step toward the end, through CZ and CX
// gates on its wire pair and through single-qudit H and S gates. Paulis
// are left alone to avoid looping with PushPauli.
func (s *Simplifier) PushSWAP() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindSWAP {
			continue
		}
		ch := s.dag.children(id)
		switch len(ch) {
		case 1:
			cg := s.dag.gate(ch[0])
			if (cg.Kind == circuit.KindCZ || cg.Kind == circuit.KindCX) &&
				sameWirePair(cg, g) {
				if cg.Kind == circuit.KindCX {
					cg.Target, cg.Control = cg.Control, cg.Target
				}
				s.dag.setGate(id, cg)
				s.dag.setGate(ch[0], g)
				return true, s.updateCircuit("push SWAP")
			}
			if ok, err := s.retargetThroughSWAP(id, ch[0], g); ok || err != nil {
				return ok, err
			}
		case 2:
			c1 := ch[0]
			if !pushableThroughSWAP(s.dag.gate(c1)) {
				c1 = ch[1]
			}
			if ok, err := s.retargetThroughSWAP(id, c1, g); ok || err != nil {
				return ok, err
			}
		}
	}
	return false, nil
}

func pushableThroughSWAP(g circuit.Gate) bool {
	switch g.Kind {
	case circuit.KindCZ, circuit.KindCX, circuit.KindHAD, circuit.KindS:
		return true
	}
	return false
}

// retargetThroughSWAP moves a single-qudit S or odd-H child to the other
// side of the SWAP at id, changing its wire.
func (s *Simplifier) retargetThroughSWAP(id, c int, swap circuit.Gate) (bool, error) {
	cg := s.dag.gate(c)
	if cg.Kind != circuit.KindS &&
		!(cg.Kind == circuit.KindHAD && cg.Reps%2 != 0) {
		return false, nil
	}
	if !swap.OnWire(cg.Target) {
		return false, nil
	}
	moved := cg
	moved.Target = otherWire(swap, cg.Target)
	if _, err := s.dag.insertSingleQuditGateBefore(id, moved); err != nil {
		return false, err
	}
	if err := s.dag.merge(id, c); err != nil {
		return false, err
	}
	return true, s.updateCircuit("push SWAP")
}

// PushSGate commutes one S gate through a CZ or through a CX control.
func (s *Simplifier) PushSGate() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindS {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindCZ &&
			!(cg.Kind == circuit.KindCX && cg.Control == g.Target) {
			continue
		}
		s.dag.setGate(id, cg)
		if err := s.dag.merge(id, c); err != nil {
			return false, err
		}
		if _, err := s.dag.insertSingleQuditGateAfter(id, g); err != nil {
			return false, err
		}
		return true, s.updateCircuit("push S gate")
	}
	return false, nil
}

// PushSPastCX commutes one S gate through a CX target:
//
//	S^a(t);CX^b(c,t) = CX^b(c,t);CZ^{-ab}(c,t);S^a(t);S^{ab^2}(c);Z^{ab(b+1)/2}(c)
//
// where the final Z is only needed when b differs from 1.
func (s *Simplifier) PushSPastCX() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindS {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindCX || cg.Target != g.Target {
			continue
		}
		a, b := g.Reps, cg.Reps
		s.dag.setGate(id, cg)
		if err := s.dag.merge(id, c); err != nil {
			return false, err
		}
		nn, err := s.dag.insertTwoQuditGateAfter(id, circuit.NewCZ(cg.Control, cg.Target, -a*b))
		if err != nil {
			return false, err
		}
		if _, err := s.dag.insertSingleQuditGateAfter(nn, g); err != nil {
			return false, err
		}
		nnn, err := s.dag.insertSingleQuditGateAfter(nn, circuit.NewS(cg.Control, a*b*b))
		if err != nil {
			return false, err
		}
		if b != 1 {
			z := circuit.NewZ(cg.Control, a*b*(b+1)/2)
			if _, err := s.dag.insertSingleQuditGateAfter(nnn, z); err != nil {
				return false, err
			}
		}
		return true, s.updateCircuit("push S past CX")
	}
	return false, nil
}

// PushHGate trades one odd H through a two-qudit gate, turning a CX on
// its target into a CZ and vice versa:
//
//	H(t);CX^a   = CZ^{-a};H(t)      H^3(t);CX^a = CZ^a;H^3(t)
//	H(t);CZ^a   = CX^a;H(t)         H^3(t);CZ^a = CX^{-a};H^3(t)
func (s *Simplifier) PushHGate() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindHAD || g.Reps%2 == 0 {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindCZ &&
			!(cg.Kind == circuit.KindCX && cg.Target == g.Target) {
			continue
		}
		target := g.Target
		control := otherWire(cg, target)
		firstPower := hadPeriod(g.Reps) == 1
		var traded circuit.Gate
		if cg.Kind == circuit.KindCZ {
			reps := cg.Reps
			if !firstPower {
				reps = -reps
			}
			traded = circuit.NewCX(control, target, reps)
		} else {
			reps := -cg.Reps
			if !firstPower {
				reps = -reps
			}
			traded = circuit.NewCZ(control, target, reps)
		}
		s.dag.setGate(id, traded)
		if err := s.dag.merge(id, c); err != nil {
			return false, err
		}
		if _, err := s.dag.insertSingleQuditGateAfter(id, g); err != nil {
			return false, err
		}
		return true, s.updateCircuit("push H gate")
	}
	return false, nil
}

// PushCZPastCX commutes a CZ through a CX on the same wire pair:
//
//	CZ^a(c,t);CX^b(c,t) = CX^b(c,t);CZ^a(c,t);S^{-2ab}(c);Z^{-ab}(c)
func (s *Simplifier) PushCZPastCX() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindCZ {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindCX || !sameWirePair(cg, g) {
			continue
		}
		s.dag.swapGates(id, c)
		newS := circuit.NewS(cg.Control, -2*g.Reps*cg.Reps)
		newZ := circuit.NewZ(cg.Control, -g.Reps*cg.Reps)
		if _, err := s.dag.insertSingleQuditGateAfter(c, newZ); err != nil {
			return false, err
		}
		if _, err := s.dag.insertSingleQuditGateAfter(c, newS); err != nil {
			return false, err
		}
		return true, s.updateCircuit("push CZ past CX")
	}
	return false, nil
}

// EulerDecomp rewrites one H;S;H chain into S^-1;H;S^-1;H^2;X. The H^2
// factor keeps the symplectic action exact; the trailing X restores the
// Pauli frame.
func (s *Simplifier) EulerDecomp() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindHAD || hadPeriod(g.Reps) != 1 {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindS || gozx.Mod(cg.Reps, s.dim()) != 1 {
			continue
		}
		gc := s.singleChild(c)
		if gc < 0 {
			continue
		}
		gg := s.dag.gate(gc)
		if gg.Kind != circuit.KindHAD || hadPeriod(gg.Reps) != 1 {
			continue
		}
		t := cg.Target
		s.dag.setGate(id, circuit.NewS(t, -1))
		s.dag.setGate(c, circuit.NewHAD(t, 1))
		s.dag.setGate(gc, circuit.NewX(t, 1))
		nid := s.dag.newNode(circuit.NewS(t, -1))
		if err := s.dag.insertBetweenChild(c, nid, gc); err != nil {
			return false, err
		}
		h2 := s.dag.newNode(circuit.NewHAD(t, 2))
		if err := s.dag.insertBetweenChild(nid, h2, gc); err != nil {
			return false, err
		}
		return true, s.updateCircuit("Euler decompose H;S;H")
	}
	return false, nil
}

// EulerDecomp2 rewrites one S^-1;H;S^-1 chain into H;S;H;H^2;X^-1, but
// only when an H precedes it, which avoids looping with EulerDecomp.
func (s *Simplifier) EulerDecomp2() (bool, error) {
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindS || gozx.Mod(g.Reps+1, s.dim()) != 0 {
			continue
		}
		parents := s.dag.parents(id)
		if len(parents) == 0 {
			continue
		}
		p := s.dag.nodes[parents[0]]
		if !p.hasGate || p.gate.Kind != circuit.KindHAD {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindHAD || hadPeriod(cg.Reps) != 1 {
			continue
		}
		gc := s.singleChild(c)
		if gc < 0 {
			continue
		}
		gg := s.dag.gate(gc)
		if gg.Kind != circuit.KindS || gozx.Mod(gg.Reps+1, s.dim()) != 0 {
			continue
		}
		t := g.Target
		s.dag.setGate(id, circuit.NewHAD(t, 1))
		s.dag.setGate(c, circuit.NewS(t, 1))
		s.dag.setGate(gc, circuit.NewX(t, -1))
		nid := s.dag.newNode(circuit.NewHAD(t, 1))
		if err := s.dag.insertBetweenChild(c, nid, gc); err != nil {
			return false, err
		}
		h2 := s.dag.newNode(circuit.NewHAD(t, 2))
		if err := s.dag.insertBetweenChild(nid, h2, gc); err != nil {
			return false, err
		}
		return true, s.updateCircuit("Euler decompose S^-1;H;S^-1")
	}
	return false, nil
}

// TransformCXToSWAP turns a CX^a(c,t);CX^b(t,c) pair with ab+1 = 0 into
// a reversed CX, a SWAP, and single-qudit multipliers.
func (s *Simplifier) TransformCXToSWAP() (bool, error) {
	dim := s.dim()
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindCX {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindCX ||
			cg.Target != g.Control || cg.Control != g.Target {
			continue
		}
		a := g.Reps
		if gozx.Mod(a*cg.Reps+1, dim) != 0 {
			continue
		}
		reversed := cg
		reversed.Reps = -reversed.Reps
		s.dag.setGate(id, reversed)
		s.dag.setGate(c, circuit.NewSWAP(g.Control, g.Target))
		switch {
		case gozx.Mod(a, dim) == 1:
			// Mult_{-a} on the target degenerates to a negation.
			if _, err := s.dag.insertSingleQuditGateAfter(c, circuit.NewHAD(g.Target, 2)); err != nil {
				return false, err
			}
		case gozx.Mod(a+1, dim) == 0:
			if _, err := s.dag.insertSingleQuditGateAfter(c, circuit.NewHAD(g.Control, 2)); err != nil {
				return false, err
			}
		default:
			ainv, err := gozx.Inv(a, dim)
			if err != nil {
				return false, err
			}
			mul1 := circuit.NewMUL(g.Target, gozx.Mod(-a, dim))
			mul2 := circuit.NewMUL(g.Control, gozx.Mod(ainv, dim))
			if _, err := s.dag.insertSingleQuditGateAfter(c, mul1); err != nil {
				return false, err
			}
			if _, err := s.dag.insertSingleQuditGateAfter(c, mul2); err != nil {
				return false, err
			}
		}
		return true, s.updateCircuit("transform CX pair to SWAP")
	}
	return false, nil
}

// TogglePairOfCXGates reverses a CX^a(c,t);CX^b(t,c) pair with
// c = ab+1 invertible:
//
//	CX^a(c,t);CX^b(t,c) = CX^{b/c}(t,c);CX^{ac}(c,t);Mult_{1/c}(t);Mult_c(c)
//
// Only applied when another CX follows the pair, so that iterating with
// CombineGates cannot loop.
func (s *Simplifier) TogglePairOfCXGates() (bool, error) {
	dim := s.dim()
	for _, id := range s.dag.topoIDs() {
		g := s.dag.gate(id)
		if g.Kind != circuit.KindCX {
			continue
		}
		c := s.singleChild(id)
		if c < 0 {
			continue
		}
		cg := s.dag.gate(c)
		if cg.Kind != circuit.KindCX ||
			cg.Target != g.Control || cg.Control != g.Target {
			continue
		}
		cVal := gozx.Mod(g.Reps*cg.Reps+1, dim)
		if cVal == 0 {
			continue
		}
		next := s.singleChild(c)
		if next < 0 || s.dag.gate(next).Kind != circuit.KindCX {
			continue
		}
		cinv, err := gozx.Inv(cVal, dim)
		if err != nil {
			return false, err
		}
		s.dag.setGate(id, circuit.NewCX(g.Target, g.Control, gozx.Mod(cg.Reps*cinv, dim)))
		s.dag.setGate(c, circuit.NewCX(g.Control, g.Target, gozx.Mod(g.Reps*cVal, dim)))
		if gozx.Mod(cVal+1, dim) == 0 {
			if _, err := s.dag.insertSingleQuditGateAfter(c, circuit.NewHAD(g.Target, 2)); err != nil {
				return false, err
			}
			if _, err := s.dag.insertSingleQuditGateAfter(c, circuit.NewHAD(g.Control, 2)); err != nil {
				return false, err
			}
		} else {
			if _, err := s.dag.insertSingleQuditGateAfter(c, circuit.NewMUL(g.Target, cinv)); err != nil {
				return false, err
			}
			if _, err := s.dag.insertSingleQuditGateAfter(c, circuit.NewMUL(g.Control, cVal)); err != nil {
				return false, err
			}
		}
		return true, s.updateCircuit("toggle CX pair")
	}
	return false, nil
}

// SimpleOptimize runs the gate-combining, identity-removal, and
// push-to-the-right strategies to a fixpoint. It reports whether any
// step was applied.
func (s *Simplifier) SimpleOptimize() (bool, error) {
	loops := 0
	for {
		loops++
		combined, err := s.CombineGates()
		if err != nil {
			return false, err
		}
		removed, err := s.RemoveIdentityGate()
		if err != nil {
			return false, err
		}
		if combined || removed {
			continue
		}
		applied := false
		for _, rule := range []func() (bool, error){
			s.PushPauli,
			s.PushDoubleHadamard,
			s.PushSWAP,
			s.PushSGate,
			s.PushSPastCX,
			s.PushCZPastCX,
		} {
			ok, err := rule()
			if err != nil {
				return false, err
			}
			if ok {
				applied = true
				break
			}
		}
		if !applied {
			break
		}
	}
	return loops != 1, nil
}

// SingleQuditOptimize interleaves SimpleOptimize with the Euler
// decomposition rewrites until neither makes progress.
func (s *Simplifier) SingleQuditOptimize() (bool, error) {
	applied := false
	for {
		ok, err := s.SimpleOptimize()
		if err != nil {
			return false, err
		}
		applied = applied || ok
		ok, err = s.EulerDecomp()
		if err != nil {
			return false, err
		}
		if ok {
			applied = true
			continue
		}
		ok, err = s.EulerDecomp2()
		if err != nil {
			return false, err
		}
		if ok {
			applied = true
			continue
		}
		return applied, nil
	}
}

// Optimize runs the full strategy: the simple passes plus the Euler,
// H-trading, and CX-pair rewrites, iterated until nothing fires.
func (s *Simplifier) Optimize() (bool, error) {
	applied := false
	for {
		ok, err := s.SingleQuditOptimize()
		if err != nil {
			return false, err
		}
		applied = applied || ok
		progressed := false
		for _, rule := range []func() (bool, error){
			s.PushHGate,
			s.TransformCXToSWAP,
			s.TogglePairOfCXGates,
		} {
			ok, err := rule()
			if err != nil {
				return false, err
			}
			if ok {
				progressed = true
				break
			}
		}
		if !progressed {
			return applied, nil
		}
		applied = true
	}
}
