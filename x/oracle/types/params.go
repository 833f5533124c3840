package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Params defines the oracle module parameters.
type Params struct {
	// MinProviders is the minimum number of distinct contributing providers
	// required for an aggregation to succeed.
	MinProviders uint32 `json:"min_providers"`

	// FreshnessWindowBlocks bounds how old (in blocks) a submission may be
	// and still feed an aggregation.
	FreshnessWindowBlocks int64 `json:"freshness_window_blocks"`

	// MaxDeviation caps relative movement between consecutive stored prices.
	// 0.10 means a new price may differ from the previous one by at most 10%.
	MaxDeviation math.LegacyDec `json:"max_deviation"`

	// MadMultiplier is the modified z-score cutoff: submissions whose
	// deviation from the median exceeds MadMultiplier * MAD are discarded.
	MadMultiplier math.LegacyDec `json:"mad_multiplier"`

	// MaxVolatilityWindowDays is the ring buffer capacity for daily closes.
	MaxVolatilityWindowDays uint32 `json:"max_volatility_window_days"`

	// TwapLookbackBlocks bounds snapshot retention for TWAP reads.
	TwapLookbackBlocks int64 `json:"twap_lookback_blocks"`

	// AuthorizedSubmitter, when set, enables single-submitter mode: the given
	// principal may write prices directly via SetPrice, bypassing consensus
	// but not validation. Empty disables the mode.
	AuthorizedSubmitter string `json:"authorized_submitter,omitempty"`
}

// DefaultParams returns default oracle parameters.
func DefaultParams() Params {
	return Params{
		MinProviders:            3,
		FreshnessWindowBlocks:   100,
		MaxDeviation:            math.LegacyMustNewDecFromStr("0.10"),
		MadMultiplier:           math.LegacyMustNewDecFromStr("3.5"),
		MaxVolatilityWindowDays: 360,
		TwapLookbackBlocks:      1000,
		AuthorizedSubmitter:     "",
	}
}

// Validate validates the parameter set.
func (p Params) Validate() error {
	if p.MinProviders == 0 {
		return fmt.Errorf("min providers must be at least 1")
	}
	if p.FreshnessWindowBlocks <= 0 {
		return fmt.Errorf("freshness window must be positive: %d", p.FreshnessWindowBlocks)
	}
	if p.MaxDeviation.IsNil() || !p.MaxDeviation.IsPositive() || p.MaxDeviation.GTE(math.LegacyOneDec()) {
		return fmt.Errorf("max deviation must be in (0, 1): %s", p.MaxDeviation)
	}
	if p.MadMultiplier.IsNil() || !p.MadMultiplier.IsPositive() {
		return fmt.Errorf("mad multiplier must be positive: %s", p.MadMultiplier)
	}
	if p.MaxVolatilityWindowDays == 0 {
		return fmt.Errorf("volatility window capacity must be positive")
	}
	if p.TwapLookbackBlocks <= 0 {
		return fmt.Errorf("twap lookback must be positive: %d", p.TwapLookbackBlocks)
	}
	return nil
}
