package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/policy/types"
)

// GetPolicy returns the policy with the given id.
func (k Keeper) GetPolicy(ctx context.Context, id uint64) (types.Policy, bool) {
	bz := k.getStore(ctx).Get(GetPolicyKey(id))
	if bz == nil {
		return types.Policy{}, false
	}

	var policy types.Policy
	if err := json.Unmarshal(bz, &policy); err != nil {
		return types.Policy{}, false
	}
	return policy, true
}

// SetPolicy validates and persists a policy record.
func (k Keeper) SetPolicy(ctx context.Context, policy types.Policy) error {
	if err := policy.Validate(); err != nil {
		return types.ErrInvalidParameters.Wrap(err.Error())
	}

	bz, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetPolicyKey(policy.ID), bz)
	return nil
}

// GetAllPolicies returns every policy in id order.
func (k Keeper) GetAllPolicies(ctx context.Context) []types.Policy {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), PolicyKeyPrefix)
	defer iterator.Close()

	policies := []types.Policy{}
	for ; iterator.Valid(); iterator.Next() {
		var policy types.Policy
		if err := json.Unmarshal(iterator.Value(), &policy); err != nil {
			continue
		}
		policies = append(policies, policy)
	}
	return policies
}

// CreatePolicy opens a new price-protection policy for owner, locking the
// required collateral in the vault before the record is persisted. A failed
// lock leaves no policy behind. Returns the new policy id.
func (k Keeper) CreatePolicy(
	ctx context.Context,
	owner string,
	policyType types.PolicyType,
	strike sdkmath.LegacyDec,
	protectedAmount sdkmath.Int,
	expirationHeight int64,
) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if _, err := sdk.AccAddressFromBech32(owner); err != nil {
		return 0, types.ErrInvalidParameters.Wrapf("invalid owner address: %s", err)
	}
	if err := policyType.Validate(); err != nil {
		return 0, types.ErrInvalidParameters.Wrap(err.Error())
	}
	if strike.IsNil() || !strike.IsPositive() {
		return 0, types.ErrInvalidParameters.Wrap("strike must be positive")
	}
	if protectedAmount.IsNil() || !protectedAmount.IsPositive() {
		return 0, types.ErrInvalidParameters.Wrap("protected amount must be positive")
	}
	if expirationHeight <= sdkCtx.BlockHeight() {
		return 0, types.ErrInvalidExpiration.Wrapf(
			"expiration height %d not after current height %d", expirationHeight, sdkCtx.BlockHeight())
	}

	params := k.GetParams(ctx)
	collateral := requiredCollateral(policyType, protectedAmount, params.CallCollateralFraction)

	id := k.nextPolicyID(ctx)
	if err := k.vaultKeeper.LockCollateral(ctx, k.moduleAddr, params.CollateralDenom, collateral, id); err != nil {
		return 0, err
	}

	policy := types.Policy{
		ID:               id,
		Owner:            owner,
		PolicyType:       policyType,
		Strike:           strike,
		ProtectedAmount:  protectedAmount,
		CollateralDenom:  params.CollateralDenom,
		LockedCollateral: collateral,
		ExpirationHeight: expirationHeight,
		Status:           types.StatusActive,
		CreatedAtHeight:  sdkCtx.BlockHeight(),
	}
	if err := k.SetPolicy(ctx, policy); err != nil {
		return 0, err
	}

	k.metrics.PoliciesCreated.WithLabelValues(string(policyType)).Inc()
	k.metrics.ActivePolicies.Inc()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePolicyCreated,
			sdk.NewAttribute(types.AttributeKeyPolicyID, fmt.Sprintf("%d", id)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyPolicyType, string(policyType)),
			sdk.NewAttribute(types.AttributeKeyStrike, strike.String()),
			sdk.NewAttribute(types.AttributeKeyProtectedAmount, protectedAmount.String()),
			sdk.NewAttribute(types.AttributeKeyCollateral, collateral.String()),
			sdk.NewAttribute(types.AttributeKeyExpirationHeight, fmt.Sprintf("%d", expirationHeight)),
		),
	)
	return id, nil
}

// ActivatePolicy exercises a policy at the current oracle price. Owner-only.
// A zero settlement still exercises the policy: the owner chose to close, so
// the collateral lock is released back to the pool. A non-zero settlement
// pays the owner from the vault and releases whatever the payout did not
// consume of the policy's lock, so a terminal policy never leaves collateral
// locked. On any vault or oracle failure the policy stays Active and can be
// retried.
func (k Keeper) ActivatePolicy(ctx context.Context, caller string, policyID uint64) (sdkmath.Int, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	policy, found := k.GetPolicy(ctx, policyID)
	if !found {
		return sdkmath.Int{}, types.ErrPolicyNotFound.Wrapf("id %d", policyID)
	}
	if caller != policy.Owner {
		return sdkmath.Int{}, types.ErrUnauthorized.Wrapf("%s is not the owner of policy %d", caller, policyID)
	}
	if policy.Status != types.StatusActive {
		return sdkmath.Int{}, types.ErrInvalidStatusTransition.Wrapf(
			"policy %d is %s, only active policies can be exercised", policyID, policy.Status)
	}
	if sdkCtx.BlockHeight() > policy.ExpirationHeight {
		return sdkmath.Int{}, types.ErrPolicyExpired.Wrapf(
			"policy %d expired at height %d, current %d", policyID, policy.ExpirationHeight, sdkCtx.BlockHeight())
	}

	params := k.GetParams(ctx)
	quote, err := k.oracleKeeper.GetLatestPrice(ctx, params.PriceAsset, params.MaxPriceAgeSeconds)
	if err != nil {
		return sdkmath.Int{}, err
	}

	settlement, err := CalculateSettlement(policy.PolicyType, policy.Strike, quote.Price, policy.ProtectedAmount)
	if err != nil {
		return sdkmath.Int{}, err
	}

	if settlement.IsZero() {
		if err := k.vaultKeeper.ReleaseCollateral(ctx, k.moduleAddr, policy.CollateralDenom, policy.LockedCollateral, policyID); err != nil {
			return sdkmath.Int{}, err
		}
	} else {
		owner := sdk.MustAccAddressFromBech32(policy.Owner)
		if err := k.vaultKeeper.SettlePayment(ctx, k.moduleAddr, policy.CollateralDenom, settlement, owner, policyID); err != nil {
			return sdkmath.Int{}, err
		}
		// The settlement unwound min(settlement, lock); free the rest of this
		// policy's lock.
		residual := policy.LockedCollateral.Sub(sdkmath.MinInt(settlement, policy.LockedCollateral))
		if residual.IsPositive() {
			if err := k.vaultKeeper.ReleaseCollateral(ctx, k.moduleAddr, policy.CollateralDenom, residual, policyID); err != nil {
				return sdkmath.Int{}, err
			}
		}
		k.metrics.SettlementPayouts.Inc()
	}

	policy.Status = types.StatusExercised
	if err := k.SetPolicy(ctx, policy); err != nil {
		return sdkmath.Int{}, err
	}

	k.metrics.PoliciesExercised.WithLabelValues(string(policy.PolicyType)).Inc()
	k.metrics.ActivePolicies.Dec()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePolicyStatusUpdated,
			sdk.NewAttribute(types.AttributeKeyPolicyID, fmt.Sprintf("%d", policyID)),
			sdk.NewAttribute(types.AttributeKeyStatus, string(types.StatusExercised)),
			sdk.NewAttribute(types.AttributeKeySpotPrice, quote.Price.String()),
			sdk.NewAttribute(types.AttributeKeySettlement, settlement.String()),
		),
	)
	return settlement, nil
}

// ExpirePolicy closes a policy whose expiration height has passed, releasing
// its collateral lock. Backend-only. A second call finds the policy already
// Expired and fails the status check, so the release cannot run twice.
func (k Keeper) ExpirePolicy(ctx context.Context, caller string, policyID uint64) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	if !k.isBackend(ctx, caller) {
		return types.ErrUnauthorized.Wrapf("%s cannot expire policies", caller)
	}

	policy, found := k.GetPolicy(ctx, policyID)
	if !found {
		return types.ErrPolicyNotFound.Wrapf("id %d", policyID)
	}
	if policy.Status != types.StatusActive {
		return types.ErrInvalidStatusTransition.Wrapf(
			"policy %d is %s, only active policies can expire", policyID, policy.Status)
	}
	if sdkCtx.BlockHeight() <= policy.ExpirationHeight {
		return types.ErrPolicyNotExpired.Wrapf(
			"policy %d expires at height %d, current %d", policyID, policy.ExpirationHeight, sdkCtx.BlockHeight())
	}

	if err := k.vaultKeeper.ReleaseCollateral(ctx, k.moduleAddr, policy.CollateralDenom, policy.LockedCollateral, policyID); err != nil {
		return err
	}

	policy.Status = types.StatusExpired
	if err := k.SetPolicy(ctx, policy); err != nil {
		return err
	}

	k.metrics.PoliciesExpired.Inc()
	k.metrics.ActivePolicies.Dec()

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePolicyStatusUpdated,
			sdk.NewAttribute(types.AttributeKeyPolicyID, fmt.Sprintf("%d", policyID)),
			sdk.NewAttribute(types.AttributeKeyStatus, string(types.StatusExpired)),
		),
	)
	return nil
}
