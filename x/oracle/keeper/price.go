package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
	sharedkeeper "github.com/bitshield-labs/bitshield/x/shared/keeper"
)

// validatePriceUpdate enforces the shared write-path checks: the timestamp
// must not regress behind the stored value, and the price must stay within
// the configured deviation band of the previous price. The bootstrap price
// (no stored value) is exempt from the deviation check. Both the consensus
// path and single-submitter mode go through here.
func (k Keeper) validatePriceUpdate(ctx context.Context, asset string, price sdkmath.LegacyDec, timestamp int64, params types.Params) error {
	if price.IsNil() || !price.IsPositive() {
		return types.ErrInvalidPrice.Wrapf("price must be positive: %s", price)
	}

	prev, found := k.GetAggregatedPrice(ctx, asset)
	if !found {
		return nil
	}

	if timestamp < prev.Timestamp {
		return types.ErrTimestampRegression.Wrapf("new %d < stored %d", timestamp, prev.Timestamp)
	}

	deviation := price.Sub(prev.Price).Abs().Quo(prev.Price)
	if deviation.GT(params.MaxDeviation) {
		k.metrics.PriceRejections.WithLabelValues(asset, "deviation").Inc()
		return types.ErrPriceOutOfBounds.Wrapf("deviation %s exceeds max %s (previous %s, new %s)",
			deviation, params.MaxDeviation, prev.Price, price)
	}
	return nil
}

// setAggregatedPrice persists the agreed price and records a TWAP snapshot.
// Callers must have run validatePriceUpdate first.
func (k Keeper) setAggregatedPrice(ctx context.Context, price types.AggregatedPrice) error {
	bz, err := json.Marshal(price)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetPriceKey(price.Asset), bz)

	if err := k.setSnapshot(ctx, types.PriceSnapshot{
		Asset:       price.Asset,
		Price:       price.Price,
		BlockHeight: price.BlockHeight,
		BlockTime:   price.Timestamp,
	}); err != nil {
		return err
	}

	if f, err := price.Price.Float64(); err == nil {
		k.metrics.AggregatedPrice.WithLabelValues(price.Asset).Set(f)
	}
	return nil
}

// GetAggregatedPrice retrieves the stored price for an asset without any
// staleness judgement.
func (k Keeper) GetAggregatedPrice(ctx context.Context, asset string) (types.AggregatedPrice, bool) {
	bz := k.getStore(ctx).Get(GetPriceKey(asset))
	if bz == nil {
		return types.AggregatedPrice{}, false
	}

	var price types.AggregatedPrice
	if err := json.Unmarshal(bz, &price); err != nil {
		return types.AggregatedPrice{}, false
	}
	return price, true
}

// GetAllPrices returns the stored price for every asset.
func (k Keeper) GetAllPrices(ctx context.Context) []types.AggregatedPrice {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), PriceKeyPrefix)
	defer iterator.Close()

	prices := []types.AggregatedPrice{}
	for ; iterator.Valid(); iterator.Next() {
		var price types.AggregatedPrice
		if err := json.Unmarshal(iterator.Value(), &price); err != nil {
			continue
		}
		prices = append(prices, price)
	}
	return prices
}

// GetLatestPrice returns the current price for an asset, rejecting data older
// than maxAgeSeconds relative to block time. The caller chooses the staleness
// threshold; the oracle never silently serves old data.
func (k Keeper) GetLatestPrice(ctx context.Context, asset string, maxAgeSeconds int64) (sharedkeeper.PriceQuote, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	price, found := k.GetAggregatedPrice(ctx, asset)
	if !found {
		return sharedkeeper.PriceQuote{}, types.ErrNoPriceData.Wrap(asset)
	}

	age := sdkCtx.BlockTime().Unix() - price.Timestamp
	if maxAgeSeconds > 0 && age > maxAgeSeconds {
		return sharedkeeper.PriceQuote{}, types.ErrStalePrice.Wrapf("asset %s: age %ds exceeds max %ds", asset, age, maxAgeSeconds)
	}

	return sharedkeeper.PriceQuote{
		Asset:     price.Asset,
		Price:     price.Price,
		Timestamp: price.Timestamp,
		Height:    price.BlockHeight,
	}, nil
}

// SetPrice writes a price in single-submitter mode: the protocol trusts one
// off-chain aggregator instead of running consensus on-chain. Only the
// configured authorized submitter may call it; the deviation and timestamp
// checks are identical to the consensus path.
func (k Keeper) SetPrice(ctx context.Context, submitter, asset string, price sdkmath.LegacyDec, timestamp int64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	if params.AuthorizedSubmitter == "" {
		return types.ErrUnauthorized.Wrap("single-submitter mode is disabled")
	}
	if submitter != params.AuthorizedSubmitter {
		return types.ErrUnauthorized.Wrapf("%s is not the authorized submitter", submitter)
	}
	if asset == "" {
		return types.ErrInvalidAsset.Wrap("asset cannot be empty")
	}
	if timestamp <= 0 {
		return types.ErrInvalidPrice.Wrap("timestamp must be positive")
	}

	if err := k.validatePriceUpdate(ctx, asset, price, timestamp, params); err != nil {
		return err
	}

	updated := types.AggregatedPrice{
		Asset:        asset,
		Price:        price,
		Timestamp:    timestamp,
		BlockHeight:  sdkCtx.BlockHeight(),
		NumProviders: 1,
	}
	if err := k.setAggregatedPrice(ctx, updated); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePriceUpdated,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyTimestamp, fmt.Sprintf("%d", timestamp)),
			sdk.NewAttribute(types.AttributeKeySubmitter, submitter),
		),
	)
	return nil
}
