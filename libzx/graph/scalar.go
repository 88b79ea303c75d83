package graph

import (
	"fmt"
	"math"
	"math/big"
	"math/cmplx"

	"github.com/qudit-systems/gozx/gozx"
)

// Scalar accumulates the global multiplicative factor of a diagram as
// rewrite rules remove vertices and merge spiders. The tracked value is
// sqrt(dim)^PowerDim * exp(i*pi*Phase) * FloatFactor, so that the diagram's
// denoted linear map times the scalar stays invariant across rewrites.
// It is only ever accumulated, never read destructively.
type Scalar struct {
	dim         int
	PowerDim    int      // power of sqrt(dim)
	Phase       *big.Rat // multiple of pi, kept in [0, 2)
	FloatFactor complex128
	IsZero      bool
	IsUnknown   bool
}

// NewScalar returns the identity scalar for the given dimension.
func NewScalar(dim int) *Scalar {
	return &Scalar{
		dim:         dim,
		Phase:       new(big.Rat),
		FloatFactor: 1,
	}
}

// Copy returns an independent copy.
func (s *Scalar) Copy() *Scalar {
	cpy := *s
	cpy.Phase = new(big.Rat).Set(s.Phase)
	return &cpy
}

func (s *Scalar) String() string {
	if s.IsUnknown {
		return "Scalar(UNKNOWN)"
	}
	v := s.Value()
	return fmt.Sprintf("Scalar(%.2f%+.2fi = exp(%s i pi) sqrt(%d)^%d)",
		real(v), imag(v), s.Phase.RatString(), s.dim, s.PowerDim)
}

// Value returns the scalar as a complex number.
func (s *Scalar) Value() complex128 {
	if s.IsZero {
		return 0
	}
	phase, _ := new(big.Rat).Mul(s.Phase, big.NewRat(1, 1)).Float64()
	val := cmplx.Exp(complex(0, math.Pi*phase))
	val *= complex(math.Pow(math.Sqrt(float64(s.dim)), float64(s.PowerDim)), 0)
	return val * s.FloatFactor
}

// SetUnknown marks the scalar as unrecoverable.
func (s *Scalar) SetUnknown() { s.IsUnknown = true }

// AddPower multiplies the scalar by sqrt(dim)^n.
func (s *Scalar) AddPower(n int) { s.PowerDim += n }

// AddPhase multiplies the scalar by exp(i*pi*phase).
func (s *Scalar) AddPhase(phase *big.Rat) {
	s.Phase.Add(s.Phase, phase)
	ratMod2(s.Phase)
}

// AddNode folds a solitary spider with the given phase into the scalar.
func (s *Scalar) AddNode(p CliffordPhase) { s.AddFloat(p.Value()) }

// AddFloat multiplies the scalar by an arbitrary complex factor.
func (s *Scalar) AddFloat(f complex128) {
	if f == 0 {
		s.IsZero = true
	}
	s.FloatFactor *= f
}

// Mul multiplies another scalar into this one.
func (s *Scalar) Mul(other *Scalar) {
	s.PowerDim += other.PowerDim
	s.AddPhase(other.Phase)
	s.FloatFactor *= other.FloatFactor
	if other.IsZero {
		s.IsZero = true
	}
	if other.IsUnknown {
		s.IsUnknown = true
	}
}

// AddCliffordSpiderPair folds in the scalar from a connected spider pair
// (p1)-H-(p2), where p1 must be Pauli. The exponent arithmetic divides by
// powers of 2, so the dimension must be an odd prime; for dim 2 the inverse
// does not exist and ErrNotInvertible is returned with the scalar untouched.
func (s *Scalar) AddCliffordSpiderPair(p1, p2 CliffordPhase) error {
	if !p1.IsPauli() {
		panic("scalar: spider-pair phase p1 must be Pauli")
	}
	inv2sq, err := gozx.Pow(2, -2, s.dim)
	if err != nil {
		return err
	}
	inv2cb, err := gozx.Pow(2, -3, s.dim)
	if err != nil {
		return err
	}
	s.AddPower(1)
	omegaPow := gozx.Mod(inv2sq*p1.X*p2.X+inv2cb*p1.X*p1.X*p2.Y, s.dim)
	s.AddPhase(big.NewRat(int64(2*omegaPow), int64(s.dim)))
	return nil
}

// ratMod2 reduces r into [0, 2) in place.
func ratMod2(r *big.Rat) {
	two := big.NewRat(2, 1)
	for r.Cmp(two) >= 0 {
		r.Sub(r, two)
	}
	for r.Sign() < 0 {
		r.Add(r, two)
	}
}
