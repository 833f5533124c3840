package types

import (
	"fmt"
	"time"

	"cosmossdk.io/math"
)

// ProviderStatus is the lifecycle status of a registered price provider.
// Providers are never deleted, only disabled.
type ProviderStatus string

const (
	ProviderStatusActive   ProviderStatus = "active"
	ProviderStatusDisabled ProviderStatus = "disabled"
)

// Provider is a registered price source. Weight feeds the weighted-median
// consensus; reliability tracks how often the provider's submissions survive
// outlier filtering.
type Provider struct {
	Address          string         `json:"address"`
	Weight           math.Int       `json:"weight"`
	ReliabilityScore math.LegacyDec `json:"reliability_score"`
	Status           ProviderStatus `json:"status"`
	SubmissionCount  uint64         `json:"submission_count"`
}

// NewProvider creates an active provider with a neutral reliability score.
func NewProvider(address string, weight math.Int) Provider {
	return Provider{
		Address:          address,
		Weight:           weight,
		ReliabilityScore: math.LegacyOneDec(),
		Status:           ProviderStatusActive,
		SubmissionCount:  0,
	}
}

// Validate validates provider fields.
func (p Provider) Validate() error {
	if p.Address == "" {
		return fmt.Errorf("provider address cannot be empty")
	}
	if p.Weight.IsNil() || !p.Weight.IsPositive() {
		return fmt.Errorf("provider weight must be positive: %s", p.Weight)
	}
	if p.Status != ProviderStatusActive && p.Status != ProviderStatusDisabled {
		return fmt.Errorf("unknown provider status: %q", p.Status)
	}
	return nil
}

// IsActive reports whether the provider may submit prices.
func (p Provider) IsActive() bool {
	return p.Status == ProviderStatusActive
}

// PriceSubmission is one provider's reported price for an asset. A submission
// is consumed by at most one aggregation; Used marks consumption.
type PriceSubmission struct {
	Provider    string         `json:"provider"`
	Asset       string         `json:"asset"`
	Price       math.LegacyDec `json:"price"`
	Timestamp   int64          `json:"timestamp"`
	BlockHeight int64          `json:"block_height"`
	Used        bool           `json:"used"`
}

// Validate validates the price submission.
func (s PriceSubmission) Validate() error {
	if s.Provider == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	if s.Asset == "" {
		return fmt.Errorf("asset cannot be empty")
	}
	if s.Price.IsNil() || !s.Price.IsPositive() {
		return fmt.Errorf("price must be positive: %s", s.Price)
	}
	if s.Timestamp <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}
	return nil
}

// AggregatedPrice is the one agreed price per asset, overwritten atomically
// on each successful aggregation or direct submission.
type AggregatedPrice struct {
	Asset        string         `json:"asset"`
	Price        math.LegacyDec `json:"price"`
	Timestamp    int64          `json:"timestamp"`
	BlockHeight  int64          `json:"block_height"`
	NumProviders uint32         `json:"num_providers"`
}

// Validate validates the aggregated price.
func (p AggregatedPrice) Validate() error {
	if p.Asset == "" {
		return fmt.Errorf("asset cannot be empty")
	}
	if p.Price.IsNil() || !p.Price.IsPositive() {
		return fmt.Errorf("price must be positive: %s", p.Price)
	}
	if p.Timestamp <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}
	return nil
}

// Age returns how old the price is relative to now.
func (p AggregatedPrice) Age(now time.Time) time.Duration {
	return now.Sub(time.Unix(p.Timestamp, 0))
}

// PriceSnapshot is a historical aggregated price retained for TWAP reads.
type PriceSnapshot struct {
	Asset       string         `json:"asset"`
	Price       math.LegacyDec `json:"price"`
	BlockHeight int64          `json:"block_height"`
	BlockTime   int64          `json:"block_time"`
}

// DailyClose is one entry of the volatility window ring buffer.
type DailyClose struct {
	Date  string         `json:"date"` // YYYY-MM-DD
	Close math.LegacyDec `json:"close"`
}

// Validate validates a daily close entry.
func (c DailyClose) Validate() error {
	if _, err := time.Parse(time.DateOnly, c.Date); err != nil {
		return fmt.Errorf("invalid close date %q: %w", c.Date, err)
	}
	if c.Close.IsNil() || !c.Close.IsPositive() {
		return fmt.Errorf("close price must be positive: %s", c.Close)
	}
	return nil
}

// VolatilityResult is the output of the volatility engine. When IsFallback is
// set the value is the simplified range-based estimate and callers should
// discount confidence accordingly.
type VolatilityResult struct {
	Asset          string         `json:"asset"`
	Annualized     math.LegacyDec `json:"annualized"`
	WindowDays     uint32         `json:"window_days"`
	SampleCount    uint32         `json:"sample_count"`
	IsFallback     bool           `json:"is_fallback"`
	ComputedAtUnix int64          `json:"computed_at"`
}
