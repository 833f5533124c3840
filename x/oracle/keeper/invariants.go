package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// RegisterInvariants registers the oracle module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "prices", PricesInvariant(k))
}

// AllInvariants runs all invariants of the oracle module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		return PricesInvariant(k)(ctx)
	}
}

// PricesInvariant checks that every stored price and provider record is well
// formed.
func PricesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		var broken bool

		for _, price := range k.GetAllPrices(ctx) {
			if err := price.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("\t%s\n", err)
			}
		}
		for _, provider := range k.GetAllProviders(ctx) {
			if err := provider.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("\t%s\n", err)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "prices", msg), broken
	}
}
