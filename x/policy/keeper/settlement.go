package keeper

import (
	sdkmath "cosmossdk.io/math"

	"github.com/bitshield-labs/bitshield/x/policy/types"
)

// CalculateSettlement returns the payout in collateral base units for a
// policy settled at the given spot price, clamped at zero:
//
//	PUT:  max(0, strike - spot) * amount / strike
//	CALL: max(0, spot - strike) * amount / strike
//
// The fraction is computed in 18-decimal fixed point and truncated to an
// integer amount, so payouts never round up past the intrinsic value.
func CalculateSettlement(policyType types.PolicyType, strike, spot sdkmath.LegacyDec, amount sdkmath.Int) (sdkmath.Int, error) {
	if strike.IsNil() || !strike.IsPositive() {
		return sdkmath.Int{}, types.ErrInvalidParameters.Wrap("strike must be positive")
	}
	if spot.IsNil() || spot.IsNegative() {
		return sdkmath.Int{}, types.ErrInvalidParameters.Wrap("spot cannot be negative")
	}
	if amount.IsNil() || !amount.IsPositive() {
		return sdkmath.Int{}, types.ErrInvalidParameters.Wrap("amount must be positive")
	}

	var intrinsic sdkmath.LegacyDec
	switch policyType {
	case types.PolicyTypePut:
		intrinsic = strike.Sub(spot)
	case types.PolicyTypeCall:
		intrinsic = spot.Sub(strike)
	default:
		return sdkmath.Int{}, types.ErrInvalidParameters.Wrapf("unknown policy type %q", policyType)
	}

	if !intrinsic.IsPositive() {
		return sdkmath.ZeroInt(), nil
	}

	return intrinsic.MulInt(amount).Quo(strike).TruncateInt(), nil
}

// requiredCollateral returns the collateral a new policy must lock. A PUT's
// worst case (spot at zero) pays out the full protected amount. A CALL's
// payout is unbounded in theory; the pool caps its exposure at
// CallCollateralFraction of the protected amount, rounded up.
func requiredCollateral(policyType types.PolicyType, protectedAmount sdkmath.Int, callFraction sdkmath.LegacyDec) sdkmath.Int {
	if policyType == types.PolicyTypeCall {
		return callFraction.MulInt(protectedAmount).Ceil().TruncateInt()
	}
	return protectedAmount
}
