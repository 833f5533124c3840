package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/vault/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(fmt.Sprintf("failed to set vault params: %s", err))
	}

	for _, account := range genState.Accounts {
		if err := k.SetAccount(ctx, account); err != nil {
			panic(fmt.Sprintf("failed to set vault account %s: %s", account.Denom, err))
		}
	}

	k.Logger(ctx).Info("vault module genesis initialized", "accounts", len(genState.Accounts))
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		Params:   k.GetParams(ctx),
		Accounts: k.GetAllAccounts(ctx),
	}
}
