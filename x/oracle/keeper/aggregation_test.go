package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/bitshield-labs/bitshield/testutil/keeper"
	"github.com/bitshield-labs/bitshield/x/oracle/keeper"
	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

const testAsset = "BTC"

func registerProviders(t *testing.T, k *keeper.Keeper, ctx sdk.Context, weights ...int64) []string {
	t.Helper()
	addrs := make([]string, len(weights))
	for i, w := range weights {
		addrs[i] = sdk.AccAddress([]byte{byte(i + 1), 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
			0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x01, 0x02, 0x03, 0x04}).String()
		require.NoError(t, k.RegisterProvider(ctx, keepertest.Authority, addrs[i], sdkmath.NewInt(w)))
	}
	return addrs
}

func TestAggregateEqualWeights(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	addrs := registerProviders(t, k, ctx, 1, 1, 1)
	for i, price := range []int64{100_000, 100_100, 99_900} {
		require.NoError(t, k.SubmitPrice(ctx, addrs[i], testAsset, sdkmath.LegacyNewDec(price), 1000+int64(i)))
	}

	aggregated, err := k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.NoError(t, err)
	require.Equal(t, sdkmath.LegacyNewDec(100_000), aggregated.Price)
	require.Equal(t, uint32(3), aggregated.NumProviders)

	stored, found := k.GetAggregatedPrice(ctx, testAsset)
	require.True(t, found)
	require.Equal(t, aggregated.Price, stored.Price)
}

func TestAggregateWeightedMedianFollowsWeight(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	// A provider holding the majority of weight pins the result regardless of
	// the other submissions.
	addrs := registerProviders(t, k, ctx, 1, 1, 8)
	require.NoError(t, k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(90), 1000))
	require.NoError(t, k.SubmitPrice(ctx, addrs[1], testAsset, sdkmath.LegacyNewDec(100), 1000))
	require.NoError(t, k.SubmitPrice(ctx, addrs[2], testAsset, sdkmath.LegacyNewDec(110), 1000))

	aggregated, err := k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.NoError(t, err)
	require.Equal(t, sdkmath.LegacyNewDec(110), aggregated.Price)
}

func TestAggregateInsufficientProviders(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	addrs := registerProviders(t, k, ctx, 1, 1)
	for i, addr := range addrs {
		require.NoError(t, k.SubmitPrice(ctx, addr, testAsset, sdkmath.LegacyNewDec(100_000), 1000+int64(i)))
	}

	_, err := k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.ErrorIs(t, err, types.ErrInsufficientProviders)

	// A failed aggregation leaves the submissions unconsumed.
	for _, addr := range addrs {
		submission, found := k.GetSubmission(ctx, testAsset, addr)
		require.True(t, found)
		require.False(t, submission.Used)
	}
}

func TestAggregateFiltersOutliers(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	addrs := registerProviders(t, k, ctx, 1, 1, 1, 1)
	require.NoError(t, k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(100_000), 1000))
	require.NoError(t, k.SubmitPrice(ctx, addrs[1], testAsset, sdkmath.LegacyNewDec(100_050), 1000))
	require.NoError(t, k.SubmitPrice(ctx, addrs[2], testAsset, sdkmath.LegacyNewDec(99_950), 1000))
	require.NoError(t, k.SubmitPrice(ctx, addrs[3], testAsset, sdkmath.LegacyNewDec(150_000), 1000))

	aggregated, err := k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.NoError(t, err)
	require.Equal(t, uint32(3), aggregated.NumProviders)
	require.True(t, aggregated.Price.LT(sdkmath.LegacyNewDec(101_000)),
		"outlier leaked into consensus: %s", aggregated.Price)

	// The outlier's reliability drops, the survivors' rises.
	outlier, found := k.GetProvider(ctx, addrs[3])
	require.True(t, found)
	require.True(t, outlier.ReliabilityScore.LT(sdkmath.LegacyOneDec()))

	survivor, found := k.GetProvider(ctx, addrs[0])
	require.True(t, found)
	require.True(t, survivor.ReliabilityScore.GT(sdkmath.LegacyOneDec()))

	// The outlier's submission was still consumed.
	submission, found := k.GetSubmission(ctx, testAsset, addrs[3])
	require.True(t, found)
	require.True(t, submission.Used)
}

func TestAggregateDeviationBound(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	addrs := registerProviders(t, k, ctx, 1, 1, 1)
	for i, addr := range addrs {
		require.NoError(t, k.SubmitPrice(ctx, addr, testAsset, sdkmath.LegacyNewDec(100_000), 1000+int64(i)))
	}
	_, err := k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.NoError(t, err)

	// A consensus more than MaxDeviation away from the stored price is
	// rejected and the submissions stay reusable.
	ctx = ctx.WithBlockHeight(150)
	for _, addr := range addrs {
		require.NoError(t, k.SubmitPrice(ctx, addr, testAsset, sdkmath.LegacyNewDec(120_000), 2000))
	}
	_, err = k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.ErrorIs(t, err, types.ErrPriceOutOfBounds)

	stored, found := k.GetAggregatedPrice(ctx, testAsset)
	require.True(t, found)
	require.Equal(t, sdkmath.LegacyNewDec(100_000), stored.Price)

	for _, addr := range addrs {
		submission, ok := k.GetSubmission(ctx, testAsset, addr)
		require.True(t, ok)
		require.False(t, submission.Used)
	}
}

func TestAggregateIgnoresStaleSubmissions(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	addrs := registerProviders(t, k, ctx, 1, 1, 1)
	require.NoError(t, k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(100_000), 1000))

	// The other two submit far later; the first submission falls out of the
	// freshness window.
	ctx = ctx.WithBlockHeight(100 + types.DefaultParams().FreshnessWindowBlocks + 1)
	require.NoError(t, k.SubmitPrice(ctx, addrs[1], testAsset, sdkmath.LegacyNewDec(100_000), 2000))
	require.NoError(t, k.SubmitPrice(ctx, addrs[2], testAsset, sdkmath.LegacyNewDec(100_000), 2000))

	_, err := k.AggregateAssetPrice(ctx, keepertest.Authority, testAsset)
	require.ErrorIs(t, err, types.ErrInsufficientProviders)
}

func TestAggregateUnauthorized(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	_, err := k.AggregateAssetPrice(ctx, "not-backend", testAsset)
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestSubmitPriceRequiresActiveProvider(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	err := k.SubmitPrice(ctx, "ghost", testAsset, sdkmath.LegacyNewDec(100_000), 1000)
	require.ErrorIs(t, err, types.ErrProviderNotFound)

	addrs := registerProviders(t, k, ctx, 1)
	require.NoError(t, k.DisableProvider(ctx, keepertest.Authority, addrs[0]))

	err = k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(100_000), 1000)
	require.ErrorIs(t, err, types.ErrProviderNotActive)
}

func TestSubmitPriceDuplicate(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)
	ctx = ctx.WithBlockHeight(100)

	addrs := registerProviders(t, k, ctx, 1)
	require.NoError(t, k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(100_000), 1000))

	err := k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(100_500), 1001)
	require.ErrorIs(t, err, types.ErrDuplicateSubmission)

	// Once the old submission ages out of the window a new one is accepted.
	ctx = ctx.WithBlockHeight(100 + types.DefaultParams().FreshnessWindowBlocks + 1)
	require.NoError(t, k.SubmitPrice(ctx, addrs[0], testAsset, sdkmath.LegacyNewDec(100_500), 1001))
}
