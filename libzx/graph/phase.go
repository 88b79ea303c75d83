package graph

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/qudit-systems/gozx/gozx"
)

// CliffordPhase is a generalized spider phase over a prime qudit dimension,
// decomposed into a linear (Pauli) component X and a quadratic (Clifford)
// component Y, both taken mod Dim. The zero value is only meaningful after
// NewPhase; phases always travel with their dimension.
type CliffordPhase struct {
	Dim int
	X   int
	Y   int
}

// NewPhase returns the phase (x, y) reduced mod dim.
func NewPhase(dim, x, y int) CliffordPhase {
	return CliffordPhase{
		Dim: dim,
		X:   gozx.Mod(x, dim),
		Y:   gozx.Mod(y, dim),
	}
}

// ZeroPhase returns the identity phase for the given dimension.
func ZeroPhase(dim int) CliffordPhase {
	return CliffordPhase{Dim: dim}
}

func (p CliffordPhase) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p CliffordPhase) checkDim(other CliffordPhase) {
	if p.Dim != other.Dim {
		panic(gozx.ErrDimMismatch)
	}
}

// Add returns the component-wise sum mod Dim. Panics if the operands carry
// different dimensions; that is a caller bug, never a recoverable state.
func (p CliffordPhase) Add(other CliffordPhase) CliffordPhase {
	p.checkDim(other)
	return NewPhase(p.Dim, p.X+other.X, p.Y+other.Y)
}

// Sub returns the component-wise difference mod Dim.
func (p CliffordPhase) Sub(other CliffordPhase) CliffordPhase {
	p.checkDim(other)
	return NewPhase(p.Dim, p.X-other.X, p.Y-other.Y)
}

// Adjoint returns the negated phase.
func (p CliffordPhase) Adjoint() CliffordPhase {
	return NewPhase(p.Dim, -p.X, -p.Y)
}

// IsPauli reports whether the quadratic component vanishes.
func (p CliffordPhase) IsPauli() bool { return p.Y == 0 }

// IsPureClifford reports whether the linear component vanishes.
func (p CliffordPhase) IsPureClifford() bool { return p.X == 0 }

// IsStrictlyClifford reports whether the quadratic component is nonzero and
// invertible mod Dim. Local complementation divides by Y, so this is its
// applicability guard.
func (p CliffordPhase) IsStrictlyClifford() bool {
	return p.Y != 0 && gozx.Invertible(p.Y, p.Dim)
}

// IsZero reports whether this is the identity phase.
func (p CliffordPhase) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Value returns the Gauss sum the phase denotes when the spider carrying it
// collapses to a scalar: sum_k omega^((x*k + y*k^2)/2) with omega the
// primitive Dim-th root of unity.
func (p CliffordPhase) Value() complex128 {
	ret := complex(0, 0)
	for k := 0; k < p.Dim; k++ {
		arg := math.Pi * float64(p.X*k+p.Y*k*k) / float64(p.Dim)
		ret += cmplx.Exp(complex(0, arg))
	}
	return ret
}
