// Package gozx declares the shared vocabulary of the qudit ZX rewriting
// library: vertex types, sentinel errors, and checked arithmetic over the
// prime qudit dimension that every diagram and circuit is parameterized by.
package gozx

// VertexType classifies a vertex in a ZX-diagram.
type VertexType int8

const (
	// Boundary marks a degree-1 input/output wire attachment point.
	Boundary VertexType = iota

	// Z is a green spider.
	Z

	// X is a red spider.
	X
)

func (ty VertexType) String() string {
	switch ty {
	case Boundary:
		return "B"
	case Z:
		return "Z"
	case X:
		return "X"
	}
	return "?"
}

// IsZX returns true for the two spider types.
func (ty VertexType) IsZX() bool {
	return ty == Z || ty == X
}

// Toggle swaps the Z and X vertex types, leaving Boundary unchanged.
func (ty VertexType) Toggle() VertexType {
	switch ty {
	case Z:
		return X
	case X:
		return Z
	}
	return ty
}

// MinDim is the smallest supported qudit dimension.
const MinDim = 2
