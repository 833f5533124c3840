package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// SubmitPrice records a provider's price submission for an asset. The
// submission does not touch the aggregated price; it waits for the next
// AggregateAssetPrice call. A provider may hold one unconsumed submission per
// asset within the freshness window.
func (k Keeper) SubmitPrice(ctx context.Context, providerAddr, asset string, price math.LegacyDec, timestamp int64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	provider, found := k.GetProvider(ctx, providerAddr)
	if !found {
		return types.ErrProviderNotFound.Wrap(providerAddr)
	}
	if !provider.IsActive() {
		return types.ErrProviderNotActive.Wrap(providerAddr)
	}

	submission := types.PriceSubmission{
		Provider:    providerAddr,
		Asset:       asset,
		Price:       price,
		Timestamp:   timestamp,
		BlockHeight: sdkCtx.BlockHeight(),
		Used:        false,
	}
	if err := submission.Validate(); err != nil {
		return types.ErrInvalidPrice.Wrap(err.Error())
	}

	params := k.GetParams(ctx)
	if prev, ok := k.GetSubmission(ctx, asset, providerAddr); ok {
		fresh := sdkCtx.BlockHeight()-prev.BlockHeight <= params.FreshnessWindowBlocks
		if !prev.Used && fresh {
			return types.ErrDuplicateSubmission.Wrapf("provider %s already submitted for %s at height %d", providerAddr, asset, prev.BlockHeight)
		}
	}

	if err := k.setSubmission(ctx, submission); err != nil {
		return err
	}

	provider.SubmissionCount++
	if err := k.SetProvider(ctx, provider); err != nil {
		return err
	}

	k.metrics.PriceSubmissions.WithLabelValues(asset, providerAddr).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePriceSubmitted,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyProvider, providerAddr),
			sdk.NewAttribute(types.AttributeKeyPrice, price.String()),
			sdk.NewAttribute(types.AttributeKeyTimestamp, fmt.Sprintf("%d", timestamp)),
		),
	)
	return nil
}

func (k Keeper) setSubmission(ctx context.Context, submission types.PriceSubmission) error {
	bz, err := json.Marshal(submission)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetSubmissionKey(submission.Asset, submission.Provider), bz)
	return nil
}

// GetSubmission retrieves a provider's submission for an asset.
func (k Keeper) GetSubmission(ctx context.Context, asset, providerAddr string) (types.PriceSubmission, bool) {
	bz := k.getStore(ctx).Get(GetSubmissionKey(asset, providerAddr))
	if bz == nil {
		return types.PriceSubmission{}, false
	}

	var submission types.PriceSubmission
	if err := json.Unmarshal(bz, &submission); err != nil {
		return types.PriceSubmission{}, false
	}
	return submission, true
}

// GetSubmissionsByAsset returns all stored submissions for an asset,
// consumed or not.
func (k Keeper) GetSubmissionsByAsset(ctx context.Context, asset string) []types.PriceSubmission {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), GetSubmissionKeyPrefixForAsset(asset))
	defer iterator.Close()

	submissions := []types.PriceSubmission{}
	for ; iterator.Valid(); iterator.Next() {
		var submission types.PriceSubmission
		if err := json.Unmarshal(iterator.Value(), &submission); err != nil {
			continue
		}
		submissions = append(submissions, submission)
	}
	return submissions
}

// collectFreshSubmissions returns unconsumed submissions within the freshness
// window, newest first being irrelevant here: order is store order (by
// provider address) and the caller sorts as needed.
func (k Keeper) collectFreshSubmissions(ctx context.Context, asset string, freshnessWindowBlocks int64) []types.PriceSubmission {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	minHeight := sdkCtx.BlockHeight() - freshnessWindowBlocks

	fresh := []types.PriceSubmission{}
	for _, s := range k.GetSubmissionsByAsset(ctx, asset) {
		if s.Used || s.BlockHeight < minHeight {
			continue
		}
		fresh = append(fresh, s)
	}
	return fresh
}

// markSubmissionsUsed marks the given submissions as consumed so that each
// contributes to at most one aggregation.
func (k Keeper) markSubmissionsUsed(ctx context.Context, submissions []types.PriceSubmission) error {
	for _, s := range submissions {
		s.Used = true
		if err := k.setSubmission(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
