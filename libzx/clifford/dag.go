// Package clifford simplifies qudit Clifford circuits by normalising them:
// gates are pushed to the end of the circuit through a library of small
// atomic rewrites over a gate dependency DAG. Every step is recorded so
// the full rewrite trail can be replayed or checked.
package clifford

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
	"github.com/qudit-systems/gozx/libzx/circuit"
)

// DAG is the gate dependency graph of a circuit, held in an arena indexed
// by node id. Node 0 is the synthetic root with no gate; an edge p -> c
// means gate c happens after gate p on a shared wire. Removed nodes stay
// in the arena marked dead, so ids remain stable across rewrites.
type DAG struct {
	dim    int
	qudits int
	nodes  []dagNode
	nextIx int
}

type dagNode struct {
	gate     circuit.Gate
	hasGate  bool
	dead     bool
	parents  []int
	children []int
}

const rootID = 0

// NewDAG builds the dependency graph of c.
func NewDAG(c *circuit.Circuit) *DAG {
	d := &DAG{
		dim:    c.Dim,
		qudits: c.Qudits,
		nodes:  []dagNode{{}},
		nextIx: 1,
	}
	latest := make(map[int]int)
	for q := 0; q < c.Qudits; q++ {
		latest[q] = -1
	}
	for _, g := range c.Gates {
		id := d.newNode(g)
		if g.Kind.HasControl() {
			p1, p2 := latest[g.Target], latest[g.Control]
			switch {
			case p1 >= 0 && p2 >= 0 && p1 == p2:
				d.addChild(p1, id)
			case p1 >= 0 && p2 >= 0:
				// Only attach to the later of the two when one already
				// depends on the other.
				if d.isAncestor(p2, p1) {
					d.addChild(p1, id)
				} else if d.isAncestor(p1, p2) {
					d.addChild(p2, id)
				} else {
					d.addChild(p1, id)
					d.addChild(p2, id)
				}
			case p1 >= 0:
				d.addChild(p1, id)
			case p2 >= 0:
				d.addChild(p2, id)
			default:
				d.addChild(rootID, id)
			}
			latest[g.Target] = id
			latest[g.Control] = id
		} else {
			if latest[g.Target] < 0 {
				d.addChild(rootID, id)
			} else {
				d.addChild(latest[g.Target], id)
			}
			latest[g.Target] = id
		}
	}
	return d
}

func (d *DAG) newNode(g circuit.Gate) int {
	g.Index = d.nextIx
	d.nextIx++
	d.nodes = append(d.nodes, dagNode{gate: g, hasGate: true})
	return len(d.nodes) - 1
}

func (d *DAG) gate(id int) circuit.Gate       { return d.nodes[id].gate }
func (d *DAG) setGate(id int, g circuit.Gate) { d.nodes[id].gate = g }
func (d *DAG) children(id int) []int          { return d.nodes[id].children }
func (d *DAG) parents(id int) []int           { return d.nodes[id].parents }

func (d *DAG) swapGates(a, b int) {
	d.nodes[a].gate, d.nodes[b].gate = d.nodes[b].gate, d.nodes[a].gate
}

func (d *DAG) addChild(p, c int) {
	d.nodes[p].children = append(d.nodes[p].children, c)
	d.nodes[c].parents = append(d.nodes[c].parents, p)
}

func (d *DAG) removeChild(p, c int) error {
	if !removeID(&d.nodes[p].children, c) {
		return errors.Wrapf(gozx.ErrMissingChild, "node %d is not a child of %d", c, p)
	}
	removeID(&d.nodes[c].parents, p)
	return nil
}

func removeID(ids *[]int, id int) bool {
	for i, v := range *ids {
		if v == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// isAncestor reports whether a is an ancestor of b, by walking down from
// a. A node is not its own ancestor.
func (d *DAG) isAncestor(a, b int) bool {
	if a == b {
		return false
	}
	seen := make(map[int]bool)
	stack := append([]int(nil), d.nodes[a].children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == b {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, d.nodes[n].children...)
	}
	return false
}

// merge removes child c, splicing c's children under p. Used both for
// deleting a gate and for absorbing a merged gate's dependencies. A
// child joined to c on a wire that p's gate does not act on is rehomed
// onto c's nearest surviving ancestor on that wire instead, so that
// every edge keeps joining gates that share a wire.
func (d *DAG) merge(p, c int) error {
	if !contains(d.nodes[p].children, c) {
		return errors.Wrapf(gozx.ErrNotConnected, "cannot merge %d into non-parent %d", c, p)
	}
	removeID(&d.nodes[p].children, c)
	kids := d.nodes[c].children
	d.nodes[c].children = nil
	for _, gc := range kids {
		removeID(&d.nodes[gc].parents, c)
	}
	for _, gc := range kids {
		d.rehome(p, c, gc)
	}
	removeID(&d.nodes[c].parents, p)

	// A two-qudit child can have further parents. Those still sharing a
	// wire with p's gate become parents of p, and any existing parent of
	// p that is a strict ancestor of one of them is now redundant as a
	// direct parent. The rest are only detached; their ordering is
	// restored through the rehomed children.
	if rest := append([]int(nil), d.nodes[c].parents...); len(rest) > 0 {
		for _, np := range rest {
			removeID(&d.nodes[np].children, c)
		}
		var adopt []int
		for _, np := range rest {
			if d.nodes[np].hasGate &&
				(!d.nodes[p].hasGate || !sharesWire(d.nodes[p].gate, d.nodes[np].gate)) {
				continue
			}
			adopt = append(adopt, np)
		}
		var drop []int
		for _, pp := range d.nodes[p].parents {
			for _, np := range adopt {
				if d.isAncestor(pp, np) {
					drop = append(drop, pp)
					break
				}
			}
		}
		for _, pp := range drop {
			if err := d.removeChild(pp, p); err != nil {
				return err
			}
		}
		for _, np := range adopt {
			if !contains(d.nodes[p].parents, np) && !d.isAncestor(p, np) {
				d.addChild(np, p)
			}
		}
	}
	d.nodes[c].parents = nil
	d.nodes[c].children = nil
	d.nodes[c].dead = true
	return nil
}

// rehome reattaches gc, a child of the node c being merged away. For a
// connecting wire that p's gate acts on, gc goes straight under p; for
// any other connecting wire it goes under c's nearest ancestor on that
// wire, so a removed two-qudit gate does not leave its children hanging
// off a parent on the wrong wire.
func (d *DAG) rehome(p, c, gc int) {
	gg := d.nodes[gc].gate
	attached := false
	for _, w := range gateWires(d.nodes[c].gate) {
		if !gg.OnWire(w) {
			continue
		}
		host := p
		if !d.nodes[p].hasGate || !d.nodes[p].gate.OnWire(w) {
			host = d.findFirstAncestorOnWire(c, w)
		}
		if host == p {
			if !contains(d.nodes[p].children, gc) {
				d.addChild(p, gc)
			}
		} else if !contains(d.nodes[host].children, gc) && !d.isAncestor(host, gc) {
			d.addChild(host, gc)
		}
		attached = true
	}
	if !attached && !contains(d.nodes[p].children, gc) {
		d.addChild(p, gc)
	}
}

func gateWires(g circuit.Gate) []int {
	if g.Kind.HasControl() {
		return []int{g.Target, g.Control}
	}
	return []int{g.Target}
}

func sharesWire(a, b circuit.Gate) bool {
	for _, w := range gateWires(a) {
		if b.OnWire(w) {
			return true
		}
	}
	return false
}

// findFirstDescendantOnWire returns the earliest descendant of id whose
// gate touches wire q, or -1.
func (d *DAG) findFirstDescendantOnWire(id, q int) int {
	var candidates []int
	for _, c := range d.nodes[id].children {
		if !d.nodes[c].hasGate {
			continue
		}
		if d.gate(c).OnWire(q) {
			return c
		}
		if cand := d.findFirstDescendantOnWire(c, q); cand >= 0 {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if d.isAncestor(cand, best) {
			best = cand
		}
	}
	return best
}

// findFirstAncestorOnWire returns the latest ancestor of id whose gate
// touches wire q, or the root.
func (d *DAG) findFirstAncestorOnWire(id, q int) int {
	var candidates []int
	for _, p := range d.nodes[id].parents {
		if !d.nodes[p].hasGate {
			candidates = append(candidates, p)
			continue
		}
		if d.gate(p).OnWire(q) {
			return p
		}
		candidates = append(candidates, d.findFirstAncestorOnWire(p, q))
	}
	if len(candidates) == 0 {
		return id
	}
	best := candidates[0]
	for _, cand := range candidates[1:] {
		if d.isAncestor(best, cand) {
			best = cand
		}
	}
	return best
}

// insertBetweenChild wires a fresh node holding g between id and child.
// A negative child means "no specific child": the new node is attached
// below id and picks up the first descendants on its wires.
func (d *DAG) insertBetweenChild(id, newID, child int) error {
	if child < 0 {
		g := d.gate(newID)
		descT := d.findFirstDescendantOnWire(id, g.Target)
		descC := -1
		if g.Kind.HasControl() {
			descC = d.findFirstDescendantOnWire(id, g.Control)
		}
		d.addChild(id, newID)
		if descT >= 0 {
			d.addChild(newID, descT)
		}
		if descC >= 0 && descC != descT {
			d.addChild(newID, descC)
		}
		return nil
	}
	if err := d.removeChild(id, child); err != nil {
		return err
	}
	d.addChild(id, newID)
	d.addChild(newID, child)
	return nil
}

// insertSingleQuditGateAfter inserts g directly after node id and returns
// the new node.
func (d *DAG) insertSingleQuditGateAfter(id int, g circuit.Gate) (int, error) {
	if !d.nodes[id].hasGate {
		return d.insertAfterRoot(g)
	}
	cur := d.gate(id)
	if !cur.OnWire(g.Target) {
		return -1, errors.Wrapf(gozx.ErrBadGateTarget,
			"cannot insert %s after %s", g, cur)
	}
	newID := d.newNode(g)
	inserted := false
	for _, c := range d.nodes[id].children {
		if d.nodes[c].hasGate && d.gate(c).OnWire(g.Target) {
			if err := d.insertBetweenChild(id, newID, c); err != nil {
				return -1, err
			}
			inserted = true
			break
		}
	}
	if !inserted {
		if err := d.insertBetweenChild(id, newID, -1); err != nil {
			return -1, err
		}
	}
	if cur.Kind.HasControl() {
		// Two-qudit children on this wire now depend on the new gate.
		for _, c := range append([]int(nil), d.nodes[id].children...) {
			if c == newID || !d.nodes[c].hasGate {
				continue
			}
			cg := d.gate(c)
			if cg.Kind.HasControl() && cg.OnWire(g.Target) {
				if err := d.removeChild(id, c); err != nil {
					return -1, err
				}
				d.addChild(newID, c)
			}
		}
	}
	return newID, nil
}

func (d *DAG) insertAfterRoot(g circuit.Gate) (int, error) {
	newID := d.newNode(g)
	desc := d.findFirstDescendantOnWire(rootID, g.Target)
	d.addChild(rootID, newID)
	if desc >= 0 {
		d.addChild(newID, desc)
	}
	return newID, nil
}

// insertSingleQuditGateBefore inserts g on its wire just before node id.
func (d *DAG) insertSingleQuditGateBefore(id int, g circuit.Gate) (int, error) {
	anc := d.findFirstAncestorOnWire(id, g.Target)
	return d.insertSingleQuditGateAfter(anc, g)
}

// insertTwoQuditGateAfter inserts a two-qudit gate on the same wire pair
// directly after node id, taking over all of id's children.
func (d *DAG) insertTwoQuditGateAfter(id int, g circuit.Gate) (int, error) {
	cur := d.gate(id)
	if !cur.Kind.HasControl() || !g.Kind.HasControl() {
		return -1, errors.Wrapf(gozx.ErrBadGateTarget,
			"two-qudit insert needs two-qudit gates: %s after %s", g, cur)
	}
	if !sameWirePair(cur, g) {
		return -1, errors.Wrapf(gozx.ErrBadGateTarget,
			"wire mismatch inserting %s after %s", g, cur)
	}
	newID := d.newNode(g)
	d.addChild(id, newID)
	for _, c := range append([]int(nil), d.nodes[id].children...) {
		if c == newID {
			continue
		}
		if err := d.removeChild(id, c); err != nil {
			return -1, err
		}
		d.addChild(newID, c)
	}
	return newID, nil
}

func sameWirePair(a, b circuit.Gate) bool {
	return (a.Target == b.Target && a.Control == b.Control) ||
		(a.Target == b.Control && a.Control == b.Target)
}

// TopoGates re-linearizes the DAG into a gate list.
func (d *DAG) TopoGates() []circuit.Gate {
	ids := d.topoIDs()
	out := make([]circuit.Gate, len(ids))
	for i, id := range ids {
		out[i] = d.gate(id)
	}
	return out
}

// topoIDs orders the live nodes topologically: repeatedly emit the
// lowest-id live node whose parents have all been emitted, so ties break
// in insertion order.
func (d *DAG) topoIDs() []int {
	emitted := make([]bool, len(d.nodes))
	emitted[rootID] = true
	remaining := 0
	for id := 1; id < len(d.nodes); id++ {
		if !d.nodes[id].dead {
			remaining++
		} else {
			emitted[id] = true
		}
	}
	out := make([]int, 0, remaining)
	for remaining > 0 {
		next := -1
		for id := 1; id < len(d.nodes); id++ {
			if emitted[id] {
				continue
			}
			ready := true
			for _, p := range d.nodes[id].parents {
				if !emitted[p] {
					ready = false
					break
				}
			}
			if ready {
				next = id
				break
			}
		}
		if next < 0 {
			// A cycle would be a rewrite bug; emit nothing further.
			break
		}
		emitted[next] = true
		out = append(out, next)
		remaining--
	}
	return out
}

// liveNodes returns the ids of all live gate nodes in arena order.
func (d *DAG) liveNodes() []int {
	out := make([]int, 0, len(d.nodes))
	for id := 1; id < len(d.nodes); id++ {
		if !d.nodes[id].dead {
			out = append(out, id)
		}
	}
	return out
}

func (d *DAG) String() string {
	var b strings.Builder
	for _, id := range d.liveNodes() {
		fmt.Fprintf(&b, "%d: %s -> %v\n", id, d.gate(id), d.nodes[id].children)
	}
	return b.String()
}
