package keeper

import (
	"context"
	"fmt"
	"sort"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// weightedSubmission pairs a submission with its provider's weight for the
// consensus computation.
type weightedSubmission struct {
	submission types.PriceSubmission
	weight     sdkmath.Int
}

// filteredSubmissions is the result of the MAD outlier stage.
type filteredSubmissions struct {
	valid    []weightedSubmission
	outliers []weightedSubmission
	median   sdkmath.LegacyDec
	mad      sdkmath.LegacyDec
}

// AggregateAssetPrice turns the pending submissions for an asset into one
// agreed price. Backend-only. The pipeline:
//
//  1. collect unconsumed submissions within the freshness window;
//  2. require at least MinProviders distinct providers;
//  3. discard outliers beyond MadMultiplier x MAD from the unweighted median;
//  4. weighted median of the survivors by provider weight;
//  5. deviation-bound and timestamp checks against the previous price.
//
// Submissions are marked consumed only when the new price is actually
// written; a rejected aggregation leaves every submission reusable.
func (k Keeper) AggregateAssetPrice(ctx context.Context, caller, asset string) (types.AggregatedPrice, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if !k.isBackend(ctx, caller) {
		return types.AggregatedPrice{}, types.ErrUnauthorized.Wrapf("%s cannot aggregate", caller)
	}
	if asset == "" {
		return types.AggregatedPrice{}, types.ErrInvalidAsset.Wrap("asset cannot be empty")
	}

	params := k.GetParams(ctx)
	fresh := k.collectFreshSubmissions(ctx, asset, params.FreshnessWindowBlocks)
	if uint32(len(fresh)) < params.MinProviders {
		return types.AggregatedPrice{}, types.ErrInsufficientProviders.Wrapf(
			"asset %s: %d fresh submissions, need %d", asset, len(fresh), params.MinProviders)
	}

	weighted := make([]weightedSubmission, 0, len(fresh))
	for _, s := range fresh {
		provider, found := k.GetProvider(ctx, s.Provider)
		if !found || !provider.IsActive() {
			continue
		}
		weighted = append(weighted, weightedSubmission{submission: s, weight: provider.Weight})
	}
	if uint32(len(weighted)) < params.MinProviders {
		return types.AggregatedPrice{}, types.ErrInsufficientProviders.Wrapf(
			"asset %s: %d submissions from active providers, need %d", asset, len(weighted), params.MinProviders)
	}

	filtered := filterOutliers(weighted, params.MadMultiplier)
	if uint32(len(filtered.valid)) < params.MinProviders {
		return types.AggregatedPrice{}, types.ErrNoValidSubmissions.Wrapf(
			"asset %s: only %d submissions survived outlier filtering, need %d",
			asset, len(filtered.valid), params.MinProviders)
	}

	for _, o := range filtered.outliers {
		k.metrics.OutliersDetected.WithLabelValues(asset).Inc()
		sdkCtx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeOutlierDetected,
				sdk.NewAttribute(types.AttributeKeyAsset, asset),
				sdk.NewAttribute(types.AttributeKeyProvider, o.submission.Provider),
				sdk.NewAttribute(types.AttributeKeyPrice, o.submission.Price.String()),
				sdk.NewAttribute(types.AttributeKeyMedian, filtered.median.String()),
				sdk.NewAttribute(types.AttributeKeyMAD, filtered.mad.String()),
			),
		)
	}

	consensusPrice := weightedMedian(filtered.valid)
	consensusTime := medianTimestamp(filtered.valid)

	if err := k.validatePriceUpdate(ctx, asset, consensusPrice, consensusTime, params); err != nil {
		return types.AggregatedPrice{}, err
	}

	aggregated := types.AggregatedPrice{
		Asset:        asset,
		Price:        consensusPrice,
		Timestamp:    consensusTime,
		BlockHeight:  sdkCtx.BlockHeight(),
		NumProviders: uint32(len(filtered.valid)),
	}
	if err := k.setAggregatedPrice(ctx, aggregated); err != nil {
		return types.AggregatedPrice{}, err
	}

	// Consumption and reliability updates happen only on the success path.
	consumed := make([]types.PriceSubmission, 0, len(weighted))
	for _, ws := range weighted {
		consumed = append(consumed, ws.submission)
	}
	if err := k.markSubmissionsUsed(ctx, consumed); err != nil {
		return types.AggregatedPrice{}, err
	}
	for _, ws := range filtered.valid {
		k.adjustReliability(ctx, ws.submission.Provider, true)
	}
	for _, ws := range filtered.outliers {
		k.adjustReliability(ctx, ws.submission.Provider, false)
	}

	if err := k.pruneOldSnapshots(ctx, asset, sdkCtx.BlockHeight()-params.TwapLookbackBlocks); err != nil {
		return types.AggregatedPrice{}, err
	}

	k.metrics.PriceAggregations.WithLabelValues(asset).Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePriceAggregated,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyPrice, consensusPrice.String()),
			sdk.NewAttribute(types.AttributeKeyTimestamp, fmt.Sprintf("%d", consensusTime)),
			sdk.NewAttribute(types.AttributeKeyNumProviders, fmt.Sprintf("%d", len(filtered.valid))),
			sdk.NewAttribute(types.AttributeKeyNumOutliers, fmt.Sprintf("%d", len(filtered.outliers))),
			sdk.NewAttribute(types.AttributeKeyMedian, filtered.median.String()),
			sdk.NewAttribute(types.AttributeKeyMAD, filtered.mad.String()),
		),
	)

	return aggregated, nil
}

// filterOutliers drops submissions whose absolute deviation from the
// unweighted median exceeds madMultiplier times the median absolute
// deviation. With a zero MAD (all survivors identical) any differing price is
// an outlier.
func filterOutliers(submissions []weightedSubmission, madMultiplier sdkmath.LegacyDec) filteredSubmissions {
	prices := make([]sdkmath.LegacyDec, len(submissions))
	for i, ws := range submissions {
		prices[i] = ws.submission.Price
	}

	median := calculateMedian(prices)
	mad := calculateMAD(prices, median)
	cutoff := mad.Mul(madMultiplier)

	result := filteredSubmissions{median: median, mad: mad}
	for _, ws := range submissions {
		deviation := ws.submission.Price.Sub(median).Abs()
		isOutlier := false
		if mad.IsZero() {
			isOutlier = !ws.submission.Price.Equal(median)
		} else {
			isOutlier = deviation.GT(cutoff)
		}

		if isOutlier {
			result.outliers = append(result.outliers, ws)
		} else {
			result.valid = append(result.valid, ws)
		}
	}
	return result
}

// calculateMedian returns the unweighted median of prices.
func calculateMedian(prices []sdkmath.LegacyDec) sdkmath.LegacyDec {
	if len(prices) == 0 {
		return sdkmath.LegacyZeroDec()
	}

	sorted := make([]sdkmath.LegacyDec, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LT(sorted[j])
	})

	n := len(sorted)
	if n%2 == 0 {
		return sorted[n/2-1].Add(sorted[n/2]).Quo(sdkmath.LegacyNewDec(2))
	}
	return sorted[n/2]
}

// calculateMAD returns the median absolute deviation around the given median.
func calculateMAD(prices []sdkmath.LegacyDec, median sdkmath.LegacyDec) sdkmath.LegacyDec {
	if len(prices) == 0 {
		return sdkmath.LegacyZeroDec()
	}

	deviations := make([]sdkmath.LegacyDec, len(prices))
	for i, price := range prices {
		deviations[i] = price.Sub(median).Abs()
	}
	return calculateMedian(deviations)
}

// weightedMedian returns the price at which cumulative provider weight first
// reaches half of the total weight, with submissions sorted by price. A
// single provider holding the majority of weight therefore pins the result to
// its own price, and the magnitude of any outlier is irrelevant.
func weightedMedian(submissions []weightedSubmission) sdkmath.LegacyDec {
	sorted := make([]weightedSubmission, len(submissions))
	copy(sorted, submissions)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].submission.Price.LT(sorted[j].submission.Price)
	})

	totalWeight := sdkmath.ZeroInt()
	for _, ws := range sorted {
		totalWeight = totalWeight.Add(ws.weight)
	}

	// halfWeight = ceil(total / 2): the crossing point is the first entry at
	// which cumulative weight reaches at least half the total.
	halfWeight := totalWeight.AddRaw(1).QuoRaw(2)
	cumulative := sdkmath.ZeroInt()
	for _, ws := range sorted {
		cumulative = cumulative.Add(ws.weight)
		if cumulative.GTE(halfWeight) {
			return ws.submission.Price
		}
	}
	return sorted[len(sorted)-1].submission.Price
}

// medianTimestamp returns the median of the contributing submissions'
// reported timestamps, which becomes the aggregate's timestamp.
func medianTimestamp(submissions []weightedSubmission) int64 {
	timestamps := make([]int64, len(submissions))
	for i, ws := range submissions {
		timestamps[i] = ws.submission.Timestamp
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	n := len(timestamps)
	if n%2 == 0 {
		return (timestamps[n/2-1] + timestamps[n/2]) / 2
	}
	return timestamps[n/2]
}
