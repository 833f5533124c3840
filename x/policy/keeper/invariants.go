package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/policy/types"
)

// RegisterInvariants registers the policy module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "records", RecordsInvariant(k))
}

// AllInvariants runs all invariants of the policy module.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		return RecordsInvariant(k)(ctx)
	}
}

// RecordsInvariant checks that every stored policy is well formed and below
// the id sequence.
func RecordsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var msg string
		var broken bool

		next := k.getNextPolicyID(ctx)
		for _, policy := range k.GetAllPolicies(ctx) {
			if err := policy.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("\t%s\n", err)
			}
			if policy.ID >= next {
				broken = true
				msg += fmt.Sprintf("\tpolicy id %d not below next id %d\n", policy.ID, next)
			}
		}

		return sdk.FormatInvariant(types.ModuleName, "records", msg), broken
	}
}
