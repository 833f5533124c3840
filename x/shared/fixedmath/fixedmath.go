// Package fixedmath provides integer and fixed-point numeric approximations
// used by the settlement core. All routines operate on cosmossdk.io/math
// types and run a bounded number of iterations; no floating point is used.
//
// Error bounds (verified by the property tests in this package):
//
//   - Sqrt: relative error <= 1e-9 for inputs in [1e-12, 1e12]; monotone
//     non-decreasing in its argument.
//   - Ln: absolute error <= 1e-9 for inputs in [1e-6, 1e6]; monotone
//     strictly increasing; Ln(1) == 0 exactly.
//   - SqrtInt: exact floor square root.
package fixedmath

import (
	"math/big"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
)

const codespace = "fixedmath"

var (
	// ErrNegativeInput is returned when a root of a negative number is requested.
	ErrNegativeInput = errorsmod.Register(codespace, 2, "cannot take root of negative number")

	// ErrNonPositiveInput is returned when a logarithm of a non-positive number is requested.
	ErrNonPositiveInput = errorsmod.Register(codespace, 3, "logarithm requires positive input")
)

const (
	// maxSqrtIterations caps Newton's method. Convergence is quadratic, so
	// the tolerance is reached long before the cap for any representable input.
	maxSqrtIterations = 100

	// lnSeriesTerms bounds the atanh series for Ln. With the argument
	// reduced to [1, 2) the series variable z satisfies |z| <= 1/3, and the
	// tail after n terms is below z^(2n+1), i.e. < 1e-12 at 13 terms. 24
	// terms leaves ample margin.
	lnSeriesTerms = 24
)

var (
	two = sdkmath.LegacyNewDec(2)

	// sqrtTolerance terminates Newton iteration once successive estimates
	// agree to 1e-15.
	sqrtTolerance = sdkmath.LegacyNewDecWithPrec(1, 15)

	// ln2 to 18 decimal places, matching LegacyDec precision.
	ln2 = sdkmath.LegacyMustNewDecFromStr("0.693147180559945309")
)

// Sqrt computes the square root of d using Newton's method.
func Sqrt(d sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	if d.IsNegative() {
		return sdkmath.LegacyDec{}, ErrNegativeInput.Wrapf("input: %s", d)
	}
	if d.IsZero() {
		return sdkmath.LegacyZeroDec(), nil
	}

	// Initial guess: the input for d >= 1, one otherwise. Newton converges
	// from above for any positive starting point >= sqrt(d).
	z := d
	if d.LT(sdkmath.LegacyOneDec()) {
		z = sdkmath.LegacyOneDec()
	}

	for i := 0; i < maxSqrtIterations; i++ {
		prev := z
		z = z.Add(d.Quo(z)).Quo(two)
		if z.Sub(prev).Abs().LTE(sqrtTolerance) {
			break
		}
	}
	return z, nil
}

// SqrtInt computes the exact floor square root of a non-negative integer.
func SqrtInt(i sdkmath.Int) (sdkmath.Int, error) {
	if i.IsNegative() {
		return sdkmath.Int{}, ErrNegativeInput.Wrapf("input: %s", i)
	}
	return sdkmath.NewIntFromBigInt(new(big.Int).Sqrt(i.BigInt())), nil
}

// Ln computes the natural logarithm of d.
//
// The argument is reduced to m in [1, 2) with d = m * 2^k, then
// ln(m) = 2*atanh((m-1)/(m+1)) is evaluated as a bounded power series and
// recombined as ln(d) = ln(m) + k*ln(2).
func Ln(d sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	if d.IsNil() || !d.IsPositive() {
		return sdkmath.LegacyDec{}, ErrNonPositiveInput.Wrapf("input: %s", d)
	}

	m := d
	k := int64(0)
	for m.GTE(two) {
		m = m.Quo(two)
		k++
	}
	for m.LT(sdkmath.LegacyOneDec()) {
		m = m.Mul(two)
		k--
	}

	// atanh series: ln(m) = 2 * sum_{n=0..} z^(2n+1) / (2n+1), z = (m-1)/(m+1).
	z := m.Sub(sdkmath.LegacyOneDec()).Quo(m.Add(sdkmath.LegacyOneDec()))
	zSquared := z.Mul(z)

	term := z
	sum := sdkmath.LegacyZeroDec()
	for n := 0; n < lnSeriesTerms; n++ {
		sum = sum.Add(term.QuoInt64(int64(2*n + 1)))
		term = term.Mul(zSquared)
		if term.IsZero() {
			break
		}
	}

	result := sum.Mul(two)
	if k != 0 {
		result = result.Add(ln2.MulInt64(k))
	}
	return result, nil
}
