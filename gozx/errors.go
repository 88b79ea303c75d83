package gozx

import "errors"

// Errors
var (
	ErrBadDim           = errors.New("qudit dimension must be a prime >= 2")
	ErrDimMismatch      = errors.New("operands have mismatched qudit dimensions")
	ErrNotInvertible    = errors.New("value is not invertible modulo the dimension")
	ErrMissingVertex    = errors.New("missing vertex ID")
	ErrBoundaryEdge     = errors.New("boundary vertex already has an edge")
	ErrCompoundBoundary = errors.New("compound edge not allowed on a boundary vertex")
	ErrMixedEdge        = errors.New("unsupported mixed edge composition for this vertex pair")
	ErrBadGateTarget    = errors.New("gate target does not line up with this node")
	ErrMissingChild     = errors.New("child not found in children list")
	ErrNotConnected     = errors.New("nodes are not connected")
	ErrBadCircuitExpr   = errors.New("bad circuit expression")
	ErrSemantics        = errors.New("rewrite step changed the circuit semantics")
	ErrBadCatalogParam  = errors.New("invalid catalog parameter")
)
