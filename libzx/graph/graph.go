// Package graph implements the qudit ZX-diagram data model: spiders with
// generalized Clifford phases, dual-component edge labels, layout metadata,
// and the global scalar that rewrite rules accumulate into.
//
// The store is an adjacency map with in-place mutation and no locking; a
// single owner goroutine is assumed. The crux is AddEdge, which folds a new
// label into whatever label the vertex pair already carries, fusing phases
// where the spider colors demand it.
package graph

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/qudit-systems/gozx/gozx"
)

// Graph owns the vertex set, the edge map, the ordered boundary sequences,
// and one Scalar.
type Graph struct {
	dim     int
	adj     map[int]map[int]Edge
	ty      map[int]gozx.VertexType
	phase   map[int]CliffordPhase
	qindex  map[int]float64
	rindex  map[int]float64
	inputs  []int
	outputs []int
	vindex  int
	scalar  *Scalar
}

// New returns an empty diagram over the given prime qudit dimension.
func New(dim int) (*Graph, error) {
	if err := gozx.CheckDim(dim); err != nil {
		return nil, err
	}
	return &Graph{
		dim:    dim,
		adj:    make(map[int]map[int]Edge),
		ty:     make(map[int]gozx.VertexType),
		phase:  make(map[int]CliffordPhase),
		qindex: make(map[int]float64),
		rindex: make(map[int]float64),
		scalar: NewScalar(dim),
	}, nil
}

// MustNew is New for callers with a known-good dimension, such as tests.
func MustNew(dim int) *Graph {
	g, err := New(dim)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph(%d vertices, %d edges, dimension %d)",
		g.NumVertices(), g.NumEdges(), g.dim)
}

// Dim returns the qudit dimension of the diagram.
func (g *Graph) Dim() int { return g.dim }

// Scalar returns the diagram's global scalar accumulator.
func (g *Graph) Scalar() *Scalar { return g.scalar }

// ZeroPhase returns the identity phase in this graph's dimension.
func (g *Graph) ZeroPhase() CliffordPhase { return ZeroPhase(g.dim) }

// Copy returns a structural clone of the graph without relabeling.
func (g *Graph) Copy() *Graph {
	cpy := &Graph{
		dim:    g.dim,
		adj:    make(map[int]map[int]Edge, len(g.adj)),
		ty:     make(map[int]gozx.VertexType, len(g.ty)),
		phase:  make(map[int]CliffordPhase, len(g.phase)),
		qindex: make(map[int]float64, len(g.qindex)),
		rindex: make(map[int]float64, len(g.rindex)),
		vindex: g.vindex,
		scalar: g.scalar.Copy(),
	}
	for v, nbrs := range g.adj {
		m := make(map[int]Edge, len(nbrs))
		for w, e := range nbrs {
			m[w] = e
		}
		cpy.adj[v] = m
	}
	for v, t := range g.ty {
		cpy.ty[v] = t
	}
	for v, p := range g.phase {
		cpy.phase[v] = p
	}
	for v, q := range g.qindex {
		cpy.qindex[v] = q
	}
	for v, r := range g.rindex {
		cpy.rindex[v] = r
	}
	cpy.inputs = append([]int(nil), g.inputs...)
	cpy.outputs = append([]int(nil), g.outputs...)
	return cpy
}

// AddVertex creates a vertex with a zero phase and returns its handle.
func (g *Graph) AddVertex(ty gozx.VertexType, qubit, row float64) int {
	v := g.vindex
	g.vindex++
	g.adj[v] = make(map[int]Edge)
	g.ty[v] = ty
	g.phase[v] = ZeroPhase(g.dim)
	g.qindex[v] = qubit
	g.rindex[v] = row
	return v
}

// AddSpider creates a vertex carrying the given phase.
func (g *Graph) AddSpider(ty gozx.VertexType, qubit, row float64, phase CliffordPhase) int {
	v := g.AddVertex(ty, qubit, row)
	g.phase[v] = phase
	return v
}

// RemoveVertex deletes a vertex, severs all incident edges, and strips it
// from the boundary sequences.
func (g *Graph) RemoveVertex(v int) {
	for w := range g.adj[v] {
		if w != v {
			delete(g.adj[w], v)
		}
	}
	delete(g.adj, v)
	delete(g.ty, v)
	delete(g.phase, v)
	delete(g.qindex, v)
	delete(g.rindex, v)
	g.inputs = removeHandle(g.inputs, v)
	g.outputs = removeHandle(g.outputs, v)
}

func removeHandle(vs []int, v int) []int {
	out := vs[:0]
	for _, u := range vs {
		if u != v {
			out = append(out, u)
		}
	}
	return out
}

// Vertices returns all vertex handles in ascending order.
func (g *Graph) Vertices() []int {
	vs := make([]int, 0, len(g.adj))
	for v := range g.adj {
		vs = append(vs, v)
	}
	sort.Ints(vs)
	return vs
}

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.adj) }

// Edges returns the unordered vertex pairs carrying an edge, each with
// v <= w, in ascending order.
func (g *Graph) Edges() [][2]int {
	var es [][2]int
	for v, nbrs := range g.adj {
		for w := range nbrs {
			if w >= v {
				es = append(es, [2]int{v, w})
			}
		}
	}
	sort.Slice(es, func(i, j int) bool {
		if es[i][0] != es[j][0] {
			return es[i][0] < es[j][0]
		}
		return es[i][1] < es[j][1]
	})
	return es
}

// NumEdges returns the edge count (self-loops count once).
func (g *Graph) NumEdges() int {
	n := 0
	for v, nbrs := range g.adj {
		for w := range nbrs {
			if w >= v {
				n++
			}
		}
	}
	return n
}

// Neighbors returns an owned, sorted snapshot of v's adjacency. Rules that
// mutate edges while walking a neighborhood must iterate this snapshot, not
// the live map.
func (g *Graph) Neighbors(v int) []int {
	nbrs := make([]int, 0, len(g.adj[v]))
	for w := range g.adj[v] {
		nbrs = append(nbrs, w)
	}
	sort.Ints(nbrs)
	return nbrs
}

// VertexDegree returns the number of distinct neighbors of v (a self-loop
// counts once).
func (g *Graph) VertexDegree(v int) int { return len(g.adj[v]) }

// Connected reports whether an edge is present between v and w.
func (g *Graph) Connected(v, w int) bool {
	_, ok := g.adj[v][w]
	return ok
}

// EdgeObject returns the label on (v, w), or the absent label.
func (g *Graph) EdgeObject(v, w int) Edge { return g.adj[v][w] }

// SetEdgeObject overwrites the label on (v, w) without any fusion algebra.
// The pair must already carry an edge; use AddEdge to create one.
func (g *Graph) SetEdgeObject(v, w int, e Edge) {
	g.adj[v][w] = e
	g.adj[w][v] = e
}

// RemoveEdge deletes the edge between v and w.
func (g *Graph) RemoveEdge(v, w int) {
	delete(g.adj[v], w)
	delete(g.adj[w], v)
}

func (g *Graph) storeEdge(v, w int, e Edge) {
	g.adj[v][w] = e
	g.adj[w][v] = e
}

// AddEdge folds the label eo into whatever label the pair (v, w) already
// carries, per the color combination of the endpoints:
//
//   - Boundary endpoints admit exactly one reduced edge, ever.
//   - Z-Z: any simple component fuses the spiders' wires; the Hadamard
//     components become a quadratic phase on v and the edge collapses to a
//     canonical simple edge; pure Hadamard components add mod dim.
//   - X-X: Hadamard components add mod dim; simple components collapse to a
//     single canonical wire; mixing the two kinds is unsupported.
//   - Z-X: simple components add mod dim; Hadamard components collapse to a
//     single canonical Hadamard; mixing the two kinds is unsupported.
//
// An unsupported composition returns a hard error: it signals a
// precondition violation in the caller's rewrite logic, not a recoverable
// state.
func (g *Graph) AddEdge(v, w int, eo Edge) error {
	t1, t2 := g.ty[v], g.ty[w]
	old := g.adj[v][w]
	eo = NewEdge(g.dim, eo.Had, eo.Simple)

	if t1 == gozx.Boundary || t2 == gozx.Boundary {
		if old.IsPresent() {
			return errors.Wrapf(gozx.ErrBoundaryEdge, "edge (%d,%d)", v, w)
		}
		if !eo.IsReduced() {
			return errors.Wrapf(gozx.ErrCompoundBoundary, "edge (%d,%d)", v, w)
		}
		g.storeEdge(v, w, eo)
		return nil
	}

	if t1 == gozx.Z && t2 == gozx.Z {
		if eo.Simple != 0 || old.Simple != 0 {
			// Some amount of simple wire is present, so the spiders fuse
			// along it and the Hadamard components become phase.
			h := gozx.Mod(old.Had+eo.Had, g.dim)
			g.AddToPhase(v, NewPhase(g.dim, 0, 2*h))
			g.storeEdge(v, w, SimpleEdge(g.dim, 1))
			return nil
		}
		h := gozx.Mod(old.Had+eo.Had, g.dim)
		if h == 0 {
			if old.IsPresent() {
				g.RemoveEdge(v, w)
			}
			return nil
		}
		g.storeEdge(v, w, HadEdge(g.dim, h))
		return nil
	}

	if t1 == gozx.X && t2 == gozx.X {
		if !eo.IsReduced() {
			return errors.Wrapf(gozx.ErrMixedEdge, "compound label between X-spiders %d and %d", v, w)
		}
		if eo.IsHad() {
			if old.IsSimple() {
				return errors.Wrapf(gozx.ErrMixedEdge, "Hadamard onto simple between X-spiders %d and %d", v, w)
			}
			h := gozx.Mod(old.Had+eo.Had, g.dim)
			if h == 0 {
				if old.IsPresent() {
					g.RemoveEdge(v, w)
				}
				return nil
			}
			g.storeEdge(v, w, HadEdge(g.dim, h))
			return nil
		}
		if old.IsHad() {
			return errors.Wrapf(gozx.ErrMixedEdge, "simple onto Hadamard between X-spiders %d and %d", v, w)
		}
		// Simple wires between X-spiders collapse to a single wire.
		g.storeEdge(v, w, SimpleEdge(g.dim, 1))
		return nil
	}

	// One Z, one X: simple edges go mod dim, Hadamard edges collapse to 1.
	if !eo.IsReduced() {
		return errors.Wrapf(gozx.ErrMixedEdge, "compound label between Z- and X-spider %d and %d", v, w)
	}
	if eo.IsSimple() {
		if old.IsHad() {
			return errors.Wrapf(gozx.ErrMixedEdge, "simple onto Hadamard between Z- and X-spider %d and %d", v, w)
		}
		s := gozx.Mod(old.Simple+eo.Simple, g.dim)
		if s == 0 {
			if old.IsPresent() {
				g.RemoveEdge(v, w)
			}
			return nil
		}
		g.storeEdge(v, w, SimpleEdge(g.dim, s))
		return nil
	}
	if old.IsSimple() {
		return errors.Wrapf(gozx.ErrMixedEdge, "Hadamard onto simple between Z- and X-spider %d and %d", v, w)
	}
	g.storeEdge(v, w, HadEdge(g.dim, 1))
	return nil
}

// Type returns the vertex type of v.
func (g *Graph) Type(v int) gozx.VertexType { return g.ty[v] }

// SetType retypes v.
func (g *Graph) SetType(v int, ty gozx.VertexType) { g.ty[v] = ty }

// Phase returns v's phase.
func (g *Graph) Phase(v int) CliffordPhase {
	if p, ok := g.phase[v]; ok {
		return p
	}
	return ZeroPhase(g.dim)
}

// SetPhase overwrites v's phase.
func (g *Graph) SetPhase(v int, p CliffordPhase) { g.phase[v] = p }

// AddToPhase adds p onto v's phase.
func (g *Graph) AddToPhase(v int, p CliffordPhase) {
	g.phase[v] = g.Phase(v).Add(p)
}

// Qubit returns v's qubit layout coordinate.
func (g *Graph) Qubit(v int) float64 { return g.qindex[v] }

// SetQubit sets v's qubit layout coordinate.
func (g *Graph) SetQubit(v int, q float64) { g.qindex[v] = q }

// Row returns v's row layout coordinate.
func (g *Graph) Row(v int) float64 { return g.rindex[v] }

// SetRow sets v's row layout coordinate.
func (g *Graph) SetRow(v int, r float64) { g.rindex[v] = r }

// Inputs returns the ordered input boundary vertices.
func (g *Graph) Inputs() []int { return g.inputs }

// SetInputs replaces the ordered input boundary vertices.
func (g *Graph) SetInputs(vs ...int) { g.inputs = vs }

// Outputs returns the ordered output boundary vertices.
func (g *Graph) Outputs() []int { return g.outputs }

// SetOutputs replaces the ordered output boundary vertices.
func (g *Graph) SetOutputs(vs ...int) { g.outputs = vs }

// NumInputs returns the input count.
func (g *Graph) NumInputs() int { return len(g.inputs) }

// NumOutputs returns the output count.
func (g *Graph) NumOutputs() int { return len(g.outputs) }

// Depth returns the highest row coordinate in use, or -1 when none.
func (g *Graph) Depth() float64 {
	max := -1.0
	for _, r := range g.rindex {
		if r > max {
			max = r
		}
	}
	return max
}

// QubitCount returns one past the highest qubit coordinate in use.
func (g *Graph) QubitCount() int {
	max := -1.0
	for _, q := range g.qindex {
		if q > max {
			max = q
		}
	}
	return int(max) + 1
}
