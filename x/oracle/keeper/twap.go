package keeper

import (
	"context"
	"encoding/json"
	"sort"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// setSnapshot records a historical price point for TWAP reads. One snapshot
// per block height; a later write in the same block overwrites.
func (k Keeper) setSnapshot(ctx context.Context, snapshot types.PriceSnapshot) error {
	bz, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetSnapshotKey(snapshot.Asset, snapshot.BlockHeight), bz)
	return nil
}

// IterateSnapshots iterates an asset's snapshots in ascending height order.
func (k Keeper) IterateSnapshots(ctx context.Context, asset string, cb func(snapshot types.PriceSnapshot) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), GetSnapshotKeyPrefixForAsset(asset))
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var snapshot types.PriceSnapshot
		if err := json.Unmarshal(iterator.Value(), &snapshot); err != nil {
			continue
		}
		if cb(snapshot) {
			break
		}
	}
}

// pruneOldSnapshots removes snapshots below minHeight, bounding retention to
// the TWAP lookback window.
func (k Keeper) pruneOldSnapshots(ctx context.Context, asset string, minHeight int64) error {
	store := k.getStore(ctx)

	toDelete := [][]byte{}
	iterator := storetypes.KVStorePrefixIterator(store, GetSnapshotKeyPrefixForAsset(asset))
	for ; iterator.Valid(); iterator.Next() {
		var snapshot types.PriceSnapshot
		if err := json.Unmarshal(iterator.Value(), &snapshot); err != nil {
			continue
		}
		if snapshot.BlockHeight < minHeight {
			key := make([]byte, len(iterator.Key()))
			copy(key, iterator.Key())
			toDelete = append(toDelete, key)
		}
	}
	iterator.Close()

	for _, key := range toDelete {
		store.Delete(key)
	}
	return nil
}

// CalculateTWAP computes the time-weighted average price over the snapshots
// within lookbackBlocks of the current height. Each snapshot's price is
// weighted by the time until the next snapshot; the last snapshot extends to
// the current block time.
func (k Keeper) CalculateTWAP(ctx context.Context, asset string, lookbackBlocks int64) (sdkmath.LegacyDec, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if lookbackBlocks <= 0 {
		lookbackBlocks = k.GetParams(ctx).TwapLookbackBlocks
	}
	minHeight := sdkCtx.BlockHeight() - lookbackBlocks

	snapshots := []types.PriceSnapshot{}
	k.IterateSnapshots(ctx, asset, func(s types.PriceSnapshot) bool {
		if s.BlockHeight >= minHeight {
			snapshots = append(snapshots, s)
		}
		return false
	})
	if len(snapshots) == 0 {
		return sdkmath.LegacyDec{}, types.ErrNoPriceData.Wrapf("no snapshots for %s within %d blocks", asset, lookbackBlocks)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].BlockHeight < snapshots[j].BlockHeight
	})

	totalWeightedPrice := sdkmath.LegacyZeroDec()
	totalTime := int64(0)

	for i := 0; i < len(snapshots)-1; i++ {
		timeDelta := snapshots[i+1].BlockTime - snapshots[i].BlockTime
		if timeDelta <= 0 {
			continue
		}
		totalWeightedPrice = totalWeightedPrice.Add(snapshots[i].Price.MulInt64(timeDelta))
		totalTime += timeDelta
	}

	last := snapshots[len(snapshots)-1]
	lastDelta := sdkCtx.BlockTime().Unix() - last.BlockTime
	if lastDelta > 0 {
		totalWeightedPrice = totalWeightedPrice.Add(last.Price.MulInt64(lastDelta))
		totalTime += lastDelta
	}

	// Degenerate case: all snapshots share one timestamp. Fall back to the
	// plain average.
	if totalTime == 0 {
		sum := sdkmath.LegacyZeroDec()
		for _, s := range snapshots {
			sum = sum.Add(s.Price)
		}
		return sum.QuoInt64(int64(len(snapshots))), nil
	}

	return totalWeightedPrice.QuoInt64(totalTime), nil
}
