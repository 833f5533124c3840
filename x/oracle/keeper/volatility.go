package keeper

import (
	"context"
	"encoding/json"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
	"github.com/bitshield-labs/bitshield/x/shared/fixedmath"
)

// annualizationFactor is sqrt(365): daily log-return volatility scales to
// annual by the square root of the number of trading days (crypto trades
// every day).
var annualizationFactor = func() sdkmath.LegacyDec {
	root, err := fixedmath.Sqrt(sdkmath.LegacyNewDec(365))
	if err != nil {
		panic(err)
	}
	return root
}()

// closeWindowMeta tracks the ring buffer head for an asset's daily closes.
// Entries live at sequence numbers [NextSeq-count, NextSeq); count is capped
// at the configured window capacity.
type closeWindowMeta struct {
	NextSeq uint64 `json:"next_seq"`
}

// RecordDailyClose appends a daily close to the asset's volatility window,
// evicting the oldest entry once the window is at capacity. Backend-only.
// Dates must be strictly increasing.
func (k Keeper) RecordDailyClose(ctx context.Context, caller, asset, date string, closePrice sdkmath.LegacyDec) error {
	if !k.isBackend(ctx, caller) {
		return types.ErrUnauthorized.Wrapf("%s cannot record closes", caller)
	}
	if asset == "" {
		return types.ErrInvalidAsset.Wrap("asset cannot be empty")
	}

	entry := types.DailyClose{Date: date, Close: closePrice}
	if err := entry.Validate(); err != nil {
		return types.ErrInvalidDate.Wrap(err.Error())
	}

	store := k.getStore(ctx)
	meta := k.getCloseMeta(ctx, asset)
	capacity := uint64(k.GetParams(ctx).MaxVolatilityWindowDays)

	if meta.NextSeq > 0 {
		if last, ok := k.getCloseEntry(ctx, asset, meta.NextSeq-1); ok && last.Date >= date {
			return types.ErrInvalidDate.Wrapf("close date %s is not after last recorded %s", date, last.Date)
		}
	}

	bz, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	store.Set(GetCloseEntryKey(asset, meta.NextSeq), bz)

	// Ring buffer semantics: evict the entry that fell out of the window.
	if meta.NextSeq >= capacity {
		store.Delete(GetCloseEntryKey(asset, meta.NextSeq-capacity))
	}

	meta.NextSeq++
	if err := k.setCloseMeta(ctx, asset, meta); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeDailyCloseRecorded,
			sdk.NewAttribute(types.AttributeKeyAsset, asset),
			sdk.NewAttribute(types.AttributeKeyDate, date),
			sdk.NewAttribute(types.AttributeKeyClose, closePrice.String()),
		),
	)
	return nil
}

func (k Keeper) getCloseMeta(ctx context.Context, asset string) closeWindowMeta {
	bz := k.getStore(ctx).Get(GetCloseMetaKey(asset))
	if bz == nil {
		return closeWindowMeta{}
	}

	var meta closeWindowMeta
	if err := json.Unmarshal(bz, &meta); err != nil {
		return closeWindowMeta{}
	}
	return meta
}

func (k Keeper) setCloseMeta(ctx context.Context, asset string, meta closeWindowMeta) error {
	bz, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetCloseMetaKey(asset), bz)
	return nil
}

func (k Keeper) getCloseEntry(ctx context.Context, asset string, seq uint64) (types.DailyClose, bool) {
	bz := k.getStore(ctx).Get(GetCloseEntryKey(asset, seq))
	if bz == nil {
		return types.DailyClose{}, false
	}

	var entry types.DailyClose
	if err := json.Unmarshal(bz, &entry); err != nil {
		return types.DailyClose{}, false
	}
	return entry, true
}

// GetDailyCloses returns the asset's retained closes in chronological order.
func (k Keeper) GetDailyCloses(ctx context.Context, asset string) []types.DailyClose {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), GetCloseEntryKeyPrefixForAsset(asset))
	defer iterator.Close()

	closes := []types.DailyClose{}
	for ; iterator.Valid(); iterator.Next() {
		var entry types.DailyClose
		if err := json.Unmarshal(iterator.Value(), &entry); err != nil {
			continue
		}
		closes = append(closes, entry)
	}
	return closes
}

// ComputeVolatility derives annualized volatility from the asset's daily
// closes. The primary path is the sample standard deviation of daily log
// returns over windowDays returns (requiring windowDays+1 closes), scaled by
// sqrt(365). With insufficient history but at least two closes, a simplified
// range-based estimate (high-low)/lastClose over the available window is
// returned with IsFallback set.
//
// All arithmetic is fixed-point; ln and sqrt come from x/shared/fixedmath,
// whose error bounds (<= 1e-9) are negligible against the returned
// magnitudes.
func (k Keeper) ComputeVolatility(ctx context.Context, asset string, windowDays uint32) (types.VolatilityResult, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	params := k.GetParams(ctx)

	if windowDays == 0 || windowDays > params.MaxVolatilityWindowDays {
		return types.VolatilityResult{}, types.ErrInvalidWindow.Wrapf(
			"window %d days outside (0, %d]", windowDays, params.MaxVolatilityWindowDays)
	}

	closes := k.GetDailyCloses(ctx, asset)
	if len(closes) < 2 {
		return types.VolatilityResult{}, types.ErrInsufficientHistory.Wrapf(
			"asset %s: %d closes recorded, need at least 2", asset, len(closes))
	}

	needed := int(windowDays) + 1
	if len(closes) < needed {
		return k.fallbackVolatility(sdkCtx, asset, closes, windowDays)
	}

	window := closes[len(closes)-needed:]
	returns := make([]sdkmath.LegacyDec, 0, windowDays)
	for i := 1; i < len(window); i++ {
		ratio := window[i].Close.Quo(window[i-1].Close)
		logReturn, err := fixedmath.Ln(ratio)
		if err != nil {
			return types.VolatilityResult{}, err
		}
		returns = append(returns, logReturn)
	}

	stdDev, err := sampleStdDev(returns)
	if err != nil {
		return types.VolatilityResult{}, err
	}

	return types.VolatilityResult{
		Asset:          asset,
		Annualized:     stdDev.Mul(annualizationFactor),
		WindowDays:     windowDays,
		SampleCount:    uint32(len(returns)),
		IsFallback:     false,
		ComputedAtUnix: sdkCtx.BlockTime().Unix(),
	}, nil
}

// fallbackVolatility is the simplified range-based estimate used when there
// is not enough history for log returns: (high - low) / lastClose over the
// available window. Callers see IsFallback and should discount confidence.
func (k Keeper) fallbackVolatility(sdkCtx sdk.Context, asset string, closes []types.DailyClose, windowDays uint32) (types.VolatilityResult, error) {
	high := closes[0].Close
	low := closes[0].Close
	for _, c := range closes[1:] {
		if c.Close.GT(high) {
			high = c.Close
		}
		if c.Close.LT(low) {
			low = c.Close
		}
	}

	last := closes[len(closes)-1].Close
	return types.VolatilityResult{
		Asset:          asset,
		Annualized:     high.Sub(low).Quo(last),
		WindowDays:     windowDays,
		SampleCount:    uint32(len(closes)),
		IsFallback:     true,
		ComputedAtUnix: sdkCtx.BlockTime().Unix(),
	}, nil
}

// sampleStdDev computes the sample standard deviation (n-1 divisor) of the
// given values.
func sampleStdDev(values []sdkmath.LegacyDec) (sdkmath.LegacyDec, error) {
	n := int64(len(values))
	if n < 2 {
		return sdkmath.LegacyDec{}, types.ErrInsufficientHistory.Wrap("need at least 2 returns for stddev")
	}

	mean := sdkmath.LegacyZeroDec()
	for _, v := range values {
		mean = mean.Add(v)
	}
	mean = mean.QuoInt64(n)

	variance := sdkmath.LegacyZeroDec()
	for _, v := range values {
		diff := v.Sub(mean)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.QuoInt64(n - 1)

	return fixedmath.Sqrt(variance)
}
