package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/policy/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(fmt.Sprintf("failed to set policy params: %s", err))
	}

	active := 0
	for _, policy := range genState.Policies {
		if err := k.SetPolicy(ctx, policy); err != nil {
			panic(fmt.Sprintf("failed to set policy %d: %s", policy.ID, err))
		}
		if policy.Status == types.StatusActive {
			active++
		}
	}
	k.setNextPolicyID(ctx, genState.NextPolicyID)
	k.metrics.ActivePolicies.Set(float64(active))

	k.Logger(ctx).Info("policy module genesis initialized", "policies", len(genState.Policies))
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		Params:       k.GetParams(ctx),
		Policies:     k.GetAllPolicies(ctx),
		NextPolicyID: k.getNextPolicyID(ctx),
	}
}
