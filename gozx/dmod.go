package gozx

// Mod reduces a into the canonical range [0, dim).
func Mod(a, dim int) int {
	a %= dim
	if a < 0 {
		a += dim
	}
	return a
}

// CheckDim validates a qudit dimension. Every rewrite that divides by an
// edge weight or phase component relies on dim being prime, so composite
// dimensions are rejected up front rather than failing deep inside a rule.
func CheckDim(dim int) error {
	if dim < MinDim || !isPrime(dim) {
		return ErrBadDim
	}
	return nil
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// Inv returns the multiplicative inverse of a modulo dim, or
// ErrNotInvertible when gcd(a, dim) != 1.
func Inv(a, dim int) (int, error) {
	a = Mod(a, dim)
	if a == 0 {
		return 0, ErrNotInvertible
	}

	// Extended Euclid on (a, dim).
	r0, r1 := a, dim
	s0, s1 := 1, 0
	for r1 != 0 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		s0, s1 = s1, s0-q*s1
	}
	if r0 != 1 {
		return 0, ErrNotInvertible
	}
	return Mod(s0, dim), nil
}

// Invertible reports whether a has a multiplicative inverse modulo dim.
func Invertible(a, dim int) bool {
	_, err := Inv(a, dim)
	return err == nil
}

// Pow returns base^exp mod dim. A negative exponent inverts base first and
// returns ErrNotInvertible when that is impossible.
func Pow(base, exp, dim int) (int, error) {
	if exp < 0 {
		inv, err := Inv(base, dim)
		if err != nil {
			return 0, err
		}
		base, exp = inv, -exp
	}
	base = Mod(base, dim)
	out := 1 % dim
	for exp > 0 {
		if exp&1 == 1 {
			out = Mod(out*base, dim)
		}
		base = Mod(base*base, dim)
		exp >>= 1
	}
	return out, nil
}
