package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// VaultAccount tracks the pooled collateral for one denom. Balances are
// integer token amounts in the denom's base unit. LockedBalance is the slice
// of TotalBalance reserved against open policies; the difference is available
// for new locks and withdrawals.
type VaultAccount struct {
	Denom         string      `json:"denom"`
	TotalBalance  sdkmath.Int `json:"total_balance"`
	LockedBalance sdkmath.Int `json:"locked_balance"`
}

// NewVaultAccount returns an empty account for denom.
func NewVaultAccount(denom string) VaultAccount {
	return VaultAccount{
		Denom:         denom,
		TotalBalance:  sdkmath.ZeroInt(),
		LockedBalance: sdkmath.ZeroInt(),
	}
}

// AvailableBalance returns the unlocked portion of the pool.
func (a VaultAccount) AvailableBalance() sdkmath.Int {
	return a.TotalBalance.Sub(a.LockedBalance)
}

// Validate asserts the account invariant 0 <= locked <= total.
func (a VaultAccount) Validate() error {
	if err := sdk.ValidateDenom(a.Denom); err != nil {
		return ErrInvalidDenom.Wrap(err.Error())
	}
	if a.TotalBalance.IsNil() || a.LockedBalance.IsNil() {
		return fmt.Errorf("vault account %s has nil balance", a.Denom)
	}
	if a.TotalBalance.IsNegative() {
		return fmt.Errorf("vault account %s has negative total %s", a.Denom, a.TotalBalance)
	}
	if a.LockedBalance.IsNegative() {
		return fmt.Errorf("vault account %s has negative locked %s", a.Denom, a.LockedBalance)
	}
	if a.LockedBalance.GT(a.TotalBalance) {
		return fmt.Errorf("vault account %s locked %s exceeds total %s",
			a.Denom, a.LockedBalance, a.TotalBalance)
	}
	return nil
}
