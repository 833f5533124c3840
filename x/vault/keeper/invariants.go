package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/vault/types"
)

// RegisterInvariants registers the vault module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "balances", BalancesInvariant(k))
}

// AllInvariants runs all invariants of the vault module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		return BalancesInvariant(k)(ctx)
	}
}

// BalancesInvariant checks 0 <= locked <= total for every vault account.
func BalancesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		var broken bool

		for _, account := range k.GetAllAccounts(ctx) {
			if err := account.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("\t%s\n", err)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "balances", msg), broken
	}
}
