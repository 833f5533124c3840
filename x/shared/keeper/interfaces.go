// Package keeper provides shared keeper interfaces for cross-module communication.
// Versioned interfaces allow stable API contracts between modules: consumers
// depend on these instead of concrete keepers.
package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// =============================================================================
// Oracle Keeper Interfaces (Versioned)
// =============================================================================

// PriceQuote holds the aggregated price data returned by oracle reads.
type PriceQuote struct {
	Asset     string
	Price     sdkmath.LegacyDec
	Timestamp int64
	Height    int64
}

// OracleKeeperV1 defines the minimal oracle keeper interface for cross-module use.
// Version 1.0 - Initial release.
type OracleKeeperV1 interface {
	// GetLatestPrice returns the current aggregated price for an asset,
	// rejecting data older than maxAgeSeconds relative to block time.
	GetLatestPrice(ctx context.Context, asset string, maxAgeSeconds int64) (PriceQuote, error)
}

// OracleKeeperV1Extended extends V1 with manipulation-resistant reads.
type OracleKeeperV1Extended interface {
	OracleKeeperV1

	// CalculateTWAP returns the time-weighted average price over the
	// given lookback window in blocks.
	CalculateTWAP(ctx context.Context, asset string, lookbackBlocks int64) (sdkmath.LegacyDec, error)
}

// =============================================================================
// Vault Keeper Interfaces (Versioned)
// =============================================================================

// VaultKeeperV1 defines the vault operations the policy registry depends on.
// Every call is gated on the caller holding the backend role in the vault's
// role table; the policy keeper passes its module address as caller.
type VaultKeeperV1 interface {
	// LockCollateral reserves amount of denom against policyID.
	LockCollateral(ctx context.Context, caller sdk.AccAddress, denom string, amount sdkmath.Int, policyID uint64) error

	// ReleaseCollateral frees a previous lock for policyID.
	ReleaseCollateral(ctx context.Context, caller sdk.AccAddress, denom string, amount sdkmath.Int, policyID uint64) error

	// SettlePayment pays amount of denom to recipient and unwinds the
	// corresponding lock for policyID.
	SettlePayment(ctx context.Context, caller sdk.AccAddress, denom string, amount sdkmath.Int, recipient sdk.AccAddress, policyID uint64) error
}
