package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/vault/types"
)

// GetAccount returns the vault account for denom, or an empty account when
// none exists yet.
func (k Keeper) GetAccount(ctx context.Context, denom string) types.VaultAccount {
	bz := k.getStore(ctx).Get(GetAccountKey(denom))
	if bz == nil {
		return types.NewVaultAccount(denom)
	}

	var account types.VaultAccount
	if err := json.Unmarshal(bz, &account); err != nil {
		return types.NewVaultAccount(denom)
	}
	return account
}

// SetAccount validates and persists a vault account, refreshing the balance
// gauges.
func (k Keeper) SetAccount(ctx context.Context, account types.VaultAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(account)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(GetAccountKey(account.Denom), bz)

	total, _ := account.TotalBalance.ToLegacyDec().Float64()
	locked, _ := account.LockedBalance.ToLegacyDec().Float64()
	k.metrics.TotalBalance.WithLabelValues(account.Denom).Set(total)
	k.metrics.LockedBalance.WithLabelValues(account.Denom).Set(locked)
	return nil
}

// GetAllAccounts returns every vault account.
func (k Keeper) GetAllAccounts(ctx context.Context) []types.VaultAccount {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), AccountKeyPrefix)
	defer iterator.Close()

	accounts := []types.VaultAccount{}
	for ; iterator.Valid(); iterator.Next() {
		var account types.VaultAccount
		if err := json.Unmarshal(iterator.Value(), &account); err != nil {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts
}

// Deposit moves amount of denom from the depositor into the pool. Open to
// anyone; the bank transfer runs before the balance update so a failed
// transfer leaves vault state untouched.
func (k Keeper) Deposit(ctx context.Context, depositor sdk.AccAddress, denom string, amount sdkmath.Int) error {
	if err := validateAmount(denom, amount); err != nil {
		return err
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, depositor, types.ModuleName, coins); err != nil {
		return err
	}

	account := k.GetAccount(ctx, denom)
	account.TotalBalance = account.TotalBalance.Add(amount)
	if err := k.SetAccount(ctx, account); err != nil {
		return err
	}

	k.metrics.Deposits.WithLabelValues(denom).Inc()
	k.emitBalanceEvent(ctx, types.EventTypeFundsDeposited, account, amount,
		sdk.NewAttribute(types.AttributeKeyDepositor, depositor.String()))
	return nil
}

// Withdraw pays amount of denom from the pool's available balance to
// recipient. Backend-only: payouts from the shared pool are operator
// initiated, not self-service.
func (k Keeper) Withdraw(ctx context.Context, caller sdk.AccAddress, recipient sdk.AccAddress, denom string, amount sdkmath.Int) error {
	if !k.isBackend(ctx, caller.String()) {
		return types.ErrUnauthorized.Wrapf("%s cannot withdraw pool funds", caller)
	}
	if err := validateAmount(denom, amount); err != nil {
		return err
	}

	account := k.GetAccount(ctx, denom)
	if account.AvailableBalance().LT(amount) {
		return types.ErrInsufficientBalance.Wrapf(
			"available %s%s, requested %s%s", account.AvailableBalance(), denom, amount, denom)
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
		return err
	}

	account.TotalBalance = account.TotalBalance.Sub(amount)
	if err := k.SetAccount(ctx, account); err != nil {
		return err
	}

	k.metrics.Withdrawals.WithLabelValues(denom).Inc()
	k.emitBalanceEvent(ctx, types.EventTypeFundsWithdrawn, account, amount,
		sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()))
	return nil
}

// LockCollateral reserves amount of denom against policyID. Backend-only.
// No tokens move; the lock only shrinks the available balance.
func (k Keeper) LockCollateral(ctx context.Context, caller sdk.AccAddress, denom string, amount sdkmath.Int, policyID uint64) error {
	if !k.isBackend(ctx, caller.String()) {
		return types.ErrUnauthorized.Wrapf("%s cannot lock collateral", caller)
	}
	if err := validateAmount(denom, amount); err != nil {
		return err
	}

	account := k.GetAccount(ctx, denom)
	if account.AvailableBalance().LT(amount) {
		return types.ErrInsufficientBalance.Wrapf(
			"available %s%s, lock requires %s%s", account.AvailableBalance(), denom, amount, denom)
	}

	account.LockedBalance = account.LockedBalance.Add(amount)
	if err := k.SetAccount(ctx, account); err != nil {
		return err
	}

	k.emitBalanceEvent(ctx, types.EventTypeCollateralLocked, account, amount,
		sdk.NewAttribute(types.AttributeKeyPolicyID, fmt.Sprintf("%d", policyID)))
	return nil
}

// ReleaseCollateral frees a previous lock for policyID. Backend-only.
func (k Keeper) ReleaseCollateral(ctx context.Context, caller sdk.AccAddress, denom string, amount sdkmath.Int, policyID uint64) error {
	if !k.isBackend(ctx, caller.String()) {
		return types.ErrUnauthorized.Wrapf("%s cannot release collateral", caller)
	}
	if err := validateAmount(denom, amount); err != nil {
		return err
	}

	account := k.GetAccount(ctx, denom)
	if account.LockedBalance.LT(amount) {
		return types.ErrInsufficientLocked.Wrapf(
			"locked %s%s, release requires %s%s", account.LockedBalance, denom, amount, denom)
	}

	account.LockedBalance = account.LockedBalance.Sub(amount)
	if err := k.SetAccount(ctx, account); err != nil {
		return err
	}

	k.emitBalanceEvent(ctx, types.EventTypeCollateralReleased, account, amount,
		sdk.NewAttribute(types.AttributeKeyPolicyID, fmt.Sprintf("%d", policyID)))
	return nil
}

// SettlePayment pays amount of denom to recipient and unwinds the
// corresponding lock for policyID. Backend-only. The lock reduction is capped
// at the current locked balance so a payout larger than the lock never drives
// it negative.
func (k Keeper) SettlePayment(ctx context.Context, caller sdk.AccAddress, denom string, amount sdkmath.Int, recipient sdk.AccAddress, policyID uint64) error {
	if !k.isBackend(ctx, caller.String()) {
		return types.ErrUnauthorized.Wrapf("%s cannot settle payments", caller)
	}
	if err := validateAmount(denom, amount); err != nil {
		return err
	}

	account := k.GetAccount(ctx, denom)
	if account.TotalBalance.LT(amount) {
		return types.ErrInsufficientBalance.Wrapf(
			"total %s%s, settlement requires %s%s", account.TotalBalance, denom, amount, denom)
	}

	coins := sdk.NewCoins(sdk.NewCoin(denom, amount))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient, coins); err != nil {
		return err
	}

	account.TotalBalance = account.TotalBalance.Sub(amount)
	account.LockedBalance = account.LockedBalance.Sub(sdkmath.MinInt(amount, account.LockedBalance))
	if err := k.SetAccount(ctx, account); err != nil {
		return err
	}

	k.metrics.Settlements.WithLabelValues(denom).Inc()
	k.emitBalanceEvent(ctx, types.EventTypeSettlementPaid, account, amount,
		sdk.NewAttribute(types.AttributeKeyPolicyID, fmt.Sprintf("%d", policyID)),
		sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()))
	return nil
}

func (k Keeper) emitBalanceEvent(ctx context.Context, eventType string, account types.VaultAccount, amount sdkmath.Int, extra ...sdk.Attribute) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyDenom, account.Denom),
		sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		sdk.NewAttribute(types.AttributeKeyTotal, account.TotalBalance.String()),
		sdk.NewAttribute(types.AttributeKeyLocked, account.LockedBalance.String()),
	}
	attrs = append(attrs, extra...)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(eventType, attrs...))
}

func validateAmount(denom string, amount sdkmath.Int) error {
	if err := sdk.ValidateDenom(denom); err != nil {
		return types.ErrInvalidDenom.Wrap(err.Error())
	}
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrInvalidAmount.Wrapf("got %s", amount)
	}
	return nil
}
