package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Default parameter values
var (
	// DefaultCallCollateralFraction caps CALL collateral at half the
	// protected amount; upside moves are bounded in practice where downside
	// is bounded by zero.
	DefaultCallCollateralFraction = sdkmath.LegacyNewDecWithPrec(50, 2) // 0.50

	// DefaultMaxPriceAgeSeconds rejects oracle prices older than one hour.
	DefaultMaxPriceAgeSeconds = int64(3600)

	// DefaultPriceAsset is the oracle asset symbol settlements price against.
	DefaultPriceAsset = "BTC"

	// DefaultCollateralDenom is the denom policies lock and settle in.
	DefaultCollateralDenom = "usats"
)

// Params defines the parameters for the policy module.
type Params struct {
	CallCollateralFraction sdkmath.LegacyDec `json:"call_collateral_fraction"`
	MaxPriceAgeSeconds     int64             `json:"max_price_age_seconds"`
	PriceAsset             string            `json:"price_asset"`
	CollateralDenom        string            `json:"collateral_denom"`
}

// DefaultParams returns the default policy parameters.
func DefaultParams() Params {
	return Params{
		CallCollateralFraction: DefaultCallCollateralFraction,
		MaxPriceAgeSeconds:     DefaultMaxPriceAgeSeconds,
		PriceAsset:             DefaultPriceAsset,
		CollateralDenom:        DefaultCollateralDenom,
	}
}

// Validate checks the parameter set.
func (p Params) Validate() error {
	if p.CallCollateralFraction.IsNil() || !p.CallCollateralFraction.IsPositive() || p.CallCollateralFraction.GT(sdkmath.LegacyOneDec()) {
		return fmt.Errorf("call collateral fraction must be in (0, 1], got %s", p.CallCollateralFraction)
	}
	if p.MaxPriceAgeSeconds <= 0 {
		return fmt.Errorf("max price age must be positive, got %d", p.MaxPriceAgeSeconds)
	}
	if p.PriceAsset == "" {
		return fmt.Errorf("price asset cannot be empty")
	}
	if err := sdk.ValidateDenom(p.CollateralDenom); err != nil {
		return fmt.Errorf("invalid collateral denom: %w", err)
	}
	return nil
}
