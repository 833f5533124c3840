package fixedmath_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/bitshield-labs/bitshield/x/shared/fixedmath"
)

func TestSqrtExactValues(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"0", "0"},
		{"1", "1"},
		{"4", "2"},
		{"9", "3"},
		{"0.25", "0.5"},
		{"2", "1.414213562373095048"},
		{"365", "19.104973174542800000"},
	}

	for _, tc := range testCases {
		input := sdkmath.LegacyMustNewDecFromStr(tc.input)
		expected := sdkmath.LegacyMustNewDecFromStr(tc.expected)

		got, err := fixedmath.Sqrt(input)
		require.NoError(t, err)

		tolerance := sdkmath.LegacyNewDecWithPrec(1, 9)
		require.True(t, got.Sub(expected).Abs().LTE(tolerance),
			"sqrt(%s) = %s, expected %s", tc.input, got, expected)
	}
}

func TestSqrtNegativeInput(t *testing.T) {
	_, err := fixedmath.Sqrt(sdkmath.LegacyNewDec(-1))
	require.ErrorIs(t, err, fixedmath.ErrNegativeInput)
}

func TestSqrtSquareRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.Int64Range(0, 1_000_000_000).Draw(t, "n")
		input := sdkmath.LegacyNewDec(n)

		root, err := fixedmath.Sqrt(input)
		require.NoError(t, err)

		// root^2 must land within tolerance of the input.
		diff := root.Mul(root).Sub(input).Abs()
		tolerance := sdkmath.LegacyNewDecWithPrec(1, 6)
		require.True(t, diff.LTE(tolerance.Mul(input.Add(sdkmath.LegacyOneDec()))),
			"sqrt(%s)^2 = %s", input, root.Mul(root))
	})
}

func TestSqrtMonotone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, 1_000_000).Draw(t, "a")
		b := rapid.Int64Range(0, 1_000_000).Draw(t, "b")
		if a > b {
			a, b = b, a
		}

		ra, err := fixedmath.Sqrt(sdkmath.LegacyNewDec(a))
		require.NoError(t, err)
		rb, err := fixedmath.Sqrt(sdkmath.LegacyNewDec(b))
		require.NoError(t, err)

		require.True(t, ra.LTE(rb), "sqrt not monotone: sqrt(%d)=%s > sqrt(%d)=%s", a, ra, b, rb)
	})
}

func TestLnExactValues(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"1", "0"},
		{"2", "0.693147180559945309"},
		{"0.5", "-0.693147180559945309"},
		{"2.718281828459045235", "1"},
		{"10", "2.302585092994045684"},
		{"1024", "6.931471805599453094"},
	}

	for _, tc := range testCases {
		input := sdkmath.LegacyMustNewDecFromStr(tc.input)
		expected := sdkmath.LegacyMustNewDecFromStr(tc.expected)

		got, err := fixedmath.Ln(input)
		require.NoError(t, err)

		tolerance := sdkmath.LegacyNewDecWithPrec(1, 9)
		require.True(t, got.Sub(expected).Abs().LTE(tolerance),
			"ln(%s) = %s, expected %s", tc.input, got, expected)
	}
}

func TestLnNonPositiveInput(t *testing.T) {
	for _, input := range []sdkmath.LegacyDec{
		sdkmath.LegacyZeroDec(),
		sdkmath.LegacyNewDec(-3),
	} {
		_, err := fixedmath.Ln(input)
		require.ErrorIs(t, err, fixedmath.ErrNonPositiveInput)
	}
}

func TestLnProductRule(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(1, 100_000).Draw(t, "a")
		b := rapid.Int64Range(1, 100_000).Draw(t, "b")

		lnA, err := fixedmath.Ln(sdkmath.LegacyNewDec(a))
		require.NoError(t, err)
		lnB, err := fixedmath.Ln(sdkmath.LegacyNewDec(b))
		require.NoError(t, err)
		lnAB, err := fixedmath.Ln(sdkmath.LegacyNewDec(a * b))
		require.NoError(t, err)

		diff := lnA.Add(lnB).Sub(lnAB).Abs()
		tolerance := sdkmath.LegacyNewDecWithPrec(1, 8)
		require.True(t, diff.LTE(tolerance),
			"ln(%d)+ln(%d) != ln(%d): diff %s", a, b, a*b, diff)
	})
}

func TestSqrtInt(t *testing.T) {
	testCases := []struct {
		input    int64
		expected int64
	}{
		{0, 0},
		{1, 1},
		{15, 3},
		{16, 4},
		{17, 4},
		{1_000_000, 1000},
	}

	for _, tc := range testCases {
		got, err := fixedmath.SqrtInt(sdkmath.NewInt(tc.input))
		require.NoError(t, err)
		require.Equal(t, sdkmath.NewInt(tc.expected), got, "floor sqrt of %d", tc.input)
	}

	_, err := fixedmath.SqrtInt(sdkmath.NewInt(-4))
	require.ErrorIs(t, err, fixedmath.ErrNegativeInput)
}
