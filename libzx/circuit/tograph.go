package circuit

import (
	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/graph"
)

func phaseFor(dim, x, y int) graph.CliffordPhase {
	return graph.NewPhase(dim, x, y)
}

// targetMapper tracks, per wire, the graph row where the next vertex goes
// and the previous vertex the next one must attach to.
type targetMapper struct {
	rows   map[int]float64
	prevVs map[int]int
}

func newTargetMapper() *targetMapper {
	return &targetMapper{
		rows:   make(map[int]float64),
		prevVs: make(map[int]int),
	}
}

func (m *targetMapper) nextRow(q int) float64      { return m.rows[q] }
func (m *targetMapper) setNextRow(q int, r float64) { m.rows[q] = r }
func (m *targetMapper) advance(q int)              { m.rows[q]++ }
func (m *targetMapper) prevVertex(q int) int       { return m.prevVs[q] }
func (m *targetMapper) setPrevVertex(q, v int)     { m.prevVs[q] = v }

func (m *targetMapper) maxRow() float64 {
	r := 0.0
	for _, v := range m.rows {
		if v > r {
			r = v
		}
	}
	return r
}

// addNode appends a spider on wire q, wired to the wire's previous vertex
// by e, and makes it the new wire head.
func (m *targetMapper) addNode(g *graph.Graph, ty gozx.VertexType, q int, r float64, p graph.CliffordPhase, e graph.Edge) (int, error) {
	v := g.AddSpider(ty, float64(q), r, p)
	if err := g.AddEdge(m.prevVertex(q), v, e); err != nil {
		return 0, err
	}
	m.setPrevVertex(q, v)
	return v, nil
}

// ToGraph lowers the circuit into a ZX diagram: one boundary per wire at
// each end, spiders in circuit order in between. Gate repetitions land as
// phase or edge weights rather than unrolled copies.
func (c *Circuit) ToGraph() (*graph.Graph, error) {
	g, err := graph.New(c.Dim)
	if err != nil {
		return nil, err
	}
	m := newTargetMapper()

	inputs := make([]int, c.Qudits)
	for q := 0; q < c.Qudits; q++ {
		v := g.AddVertex(gozx.Boundary, float64(q), 0)
		inputs[q] = v
		m.setPrevVertex(q, v)
		m.setNextRow(q, 1)
	}

	for _, gate := range c.Gates {
		if err := gateToGraph(g, m, gate); err != nil {
			return nil, err
		}
	}

	r := m.maxRow()
	outputs := make([]int, c.Qudits)
	for q := 0; q < c.Qudits; q++ {
		v := g.AddVertex(gozx.Boundary, float64(q), r)
		outputs[q] = v
		if err := g.AddEdge(m.prevVertex(q), v, graph.SimpleEdge(c.Dim, 1)); err != nil {
			return nil, err
		}
	}

	g.SetInputs(inputs...)
	g.SetOutputs(outputs...)
	return g, nil
}

func gateToGraph(g *graph.Graph, m *targetMapper, gate Gate) error {
	dim := g.Dim()
	simple := graph.SimpleEdge(dim, 1)
	q := gate.Target

	switch gate.Kind {
	case KindZ:
		_, err := m.addNode(g, gozx.Z, q, m.nextRow(q), phaseFor(dim, gate.Reps, 0), simple)
		m.advance(q)
		return err
	case KindS:
		_, err := m.addNode(g, gozx.Z, q, m.nextRow(q), phaseFor(dim, 0, gate.Reps), simple)
		m.advance(q)
		return err
	case KindZPhase:
		_, err := m.addNode(g, gozx.Z, q, m.nextRow(q), scalePhase(gate.Phase, gate.Reps, dim), simple)
		m.advance(q)
		return err
	case KindX:
		_, err := m.addNode(g, gozx.X, q, m.nextRow(q), phaseFor(dim, gate.Reps, 0), simple)
		m.advance(q)
		return err
	case KindXPhase:
		_, err := m.addNode(g, gozx.X, q, m.nextRow(q), scalePhase(gate.Phase, gate.Reps, dim), simple)
		m.advance(q)
		return err
	case KindNEG:
		_, err := m.addNode(g, gozx.X, q, m.nextRow(q), g.ZeroPhase(), simple)
		m.advance(q)
		return err
	case KindHAD:
		// Each unit of the repetition count mod 4 is one Hadamard wire
		// segment; a full period is a plain wire.
		n := gate.Reps % 4
		if n < 0 {
			n += 4
		}
		var err error
		for i := 0; i < n; i++ {
			_, err = m.addNode(g, gozx.Z, q, m.nextRow(q), g.ZeroPhase(), graph.HadEdge(dim, 1))
			if err != nil {
				return err
			}
			m.advance(q)
		}
		return nil
	case KindCZ:
		r := maxf(m.nextRow(q), m.nextRow(gate.Control))
		t, err := m.addNode(g, gozx.Z, q, r, g.ZeroPhase(), simple)
		if err != nil {
			return err
		}
		c, err := m.addNode(g, gozx.Z, gate.Control, r, g.ZeroPhase(), simple)
		if err != nil {
			return err
		}
		if err := g.AddEdge(t, c, graph.HadEdge(dim, gate.Reps)); err != nil {
			return err
		}
		m.setNextRow(q, r+1)
		m.setNextRow(gate.Control, r+1)
		g.Scalar().AddPower(1)
		return nil
	case KindCX:
		r := maxf(m.nextRow(q), m.nextRow(gate.Control))
		c, err := m.addNode(g, gozx.Z, gate.Control, r, g.ZeroPhase(), simple)
		if err != nil {
			return err
		}
		t, err := m.addNode(g, gozx.X, q, r, g.ZeroPhase(), simple)
		if err != nil {
			return err
		}
		if err := g.AddEdge(t, c, graph.SimpleEdge(dim, gate.Reps)); err != nil {
			return err
		}
		m.setNextRow(q, r+1)
		m.setNextRow(gate.Control, r+1)
		g.Scalar().AddPower(1)
		return nil
	case KindSWAP:
		for _, cx := range gate.BasicGates(dim) {
			if err := gateToGraph(g, m, cx); err != nil {
				return err
			}
		}
		return nil
	case KindMUL:
		// The multiplier is a weighted plain wire between an X and a Z
		// spider.
		r := m.nextRow(q)
		if _, err := m.addNode(g, gozx.X, q, r, g.ZeroPhase(), simple); err != nil {
			return err
		}
		m.advance(q)
		_, err := m.addNode(g, gozx.Z, q, m.nextRow(q), g.ZeroPhase(), graph.SimpleEdge(dim, gate.MulValue))
		m.advance(q)
		return err
	}
	return gozx.ErrBadGateTarget
}

func scalePhase(p graph.CliffordPhase, reps, dim int) graph.CliffordPhase {
	return graph.NewPhase(dim, p.X*reps, p.Y*reps)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
