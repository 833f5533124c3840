package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// reliabilityStep is the per-aggregation nudge applied to a provider's
// reliability score: up when a submission survives filtering, down when it is
// discarded as an outlier. Scores are clamped to [0, 2].
var (
	reliabilityStep = math.LegacyMustNewDecFromStr("0.01")
	reliabilityMax  = math.LegacyMustNewDecFromStr("2.0")
)

// RegisterProvider registers a new price provider. Admin-only. Providers are
// never deleted afterwards, only disabled.
func (k Keeper) RegisterProvider(ctx context.Context, caller, addr string, weight math.Int) error {
	if !k.isAdmin(ctx, caller) {
		return types.ErrUnauthorized.Wrapf("%s cannot register providers", caller)
	}
	if _, found := k.GetProvider(ctx, addr); found {
		return types.ErrProviderExists.Wrap(addr)
	}

	provider := types.NewProvider(addr, weight)
	if err := provider.Validate(); err != nil {
		return types.ErrInvalidParams.Wrap(err.Error())
	}
	if err := k.SetProvider(ctx, provider); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderRegistered,
			sdk.NewAttribute(types.AttributeKeyProvider, addr),
			sdk.NewAttribute(types.AttributeKeyWeight, weight.String()),
		),
	)
	return nil
}

// DisableProvider disables a provider. Admin-only. Disabled providers keep
// their history but can no longer submit.
func (k Keeper) DisableProvider(ctx context.Context, caller, addr string) error {
	if !k.isAdmin(ctx, caller) {
		return types.ErrUnauthorized.Wrapf("%s cannot disable providers", caller)
	}
	provider, found := k.GetProvider(ctx, addr)
	if !found {
		return types.ErrProviderNotFound.Wrap(addr)
	}

	provider.Status = types.ProviderStatusDisabled
	if err := k.SetProvider(ctx, provider); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProviderDisabled,
			sdk.NewAttribute(types.AttributeKeyProvider, addr),
		),
	)
	return nil
}

// SetProviderWeight updates a provider's consensus weight. Admin-only.
func (k Keeper) SetProviderWeight(ctx context.Context, caller, addr string, weight math.Int) error {
	if !k.isAdmin(ctx, caller) {
		return types.ErrUnauthorized.Wrapf("%s cannot update provider weight", caller)
	}
	if weight.IsNil() || !weight.IsPositive() {
		return types.ErrInvalidParams.Wrapf("weight must be positive: %s", weight)
	}
	provider, found := k.GetProvider(ctx, addr)
	if !found {
		return types.ErrProviderNotFound.Wrap(addr)
	}

	provider.Weight = weight
	return k.SetProvider(ctx, provider)
}

// SetProvider stores a provider record.
func (k Keeper) SetProvider(ctx context.Context, provider types.Provider) error {
	bz, err := json.Marshal(provider)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetProviderKey(provider.Address), bz)
	return nil
}

// GetProvider retrieves a provider by address.
func (k Keeper) GetProvider(ctx context.Context, addr string) (types.Provider, bool) {
	bz := k.getStore(ctx).Get(GetProviderKey(addr))
	if bz == nil {
		return types.Provider{}, false
	}

	var provider types.Provider
	if err := json.Unmarshal(bz, &provider); err != nil {
		return types.Provider{}, false
	}
	return provider, true
}

// IterateProviders iterates over all registered providers.
func (k Keeper) IterateProviders(ctx context.Context, cb func(provider types.Provider) (stop bool)) {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), ProviderKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var provider types.Provider
		if err := json.Unmarshal(iterator.Value(), &provider); err != nil {
			continue
		}
		if cb(provider) {
			break
		}
	}
}

// GetAllProviders returns all registered providers.
func (k Keeper) GetAllProviders(ctx context.Context) []types.Provider {
	providers := []types.Provider{}
	k.IterateProviders(ctx, func(p types.Provider) bool {
		providers = append(providers, p)
		return false
	})
	return providers
}

// adjustReliability nudges a provider's reliability score after aggregation.
func (k Keeper) adjustReliability(ctx context.Context, addr string, survived bool) {
	provider, found := k.GetProvider(ctx, addr)
	if !found {
		return
	}

	if survived {
		provider.ReliabilityScore = provider.ReliabilityScore.Add(reliabilityStep)
		if provider.ReliabilityScore.GT(reliabilityMax) {
			provider.ReliabilityScore = reliabilityMax
		}
	} else {
		provider.ReliabilityScore = provider.ReliabilityScore.Sub(reliabilityStep)
		if provider.ReliabilityScore.IsNegative() {
			provider.ReliabilityScore = math.LegacyZeroDec()
		}
	}

	// Best effort; a marshal failure here must not abort aggregation.
	_ = k.SetProvider(ctx, provider)
}
