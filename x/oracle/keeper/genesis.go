package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) {
	if err := k.SetParams(ctx, genState.Params); err != nil {
		panic(fmt.Sprintf("failed to set oracle params: %s", err))
	}

	for _, provider := range genState.Providers {
		if err := k.SetProvider(ctx, provider); err != nil {
			panic(fmt.Sprintf("failed to set provider %s: %s", provider.Address, err))
		}
	}

	for _, price := range genState.Prices {
		if err := k.setAggregatedPrice(ctx, price); err != nil {
			k.Logger(ctx).Error("failed to set price during genesis", "asset", price.Asset, "error", err)
		}
	}

	k.Logger(ctx).Info("oracle module genesis initialized",
		"providers", len(genState.Providers), "prices", len(genState.Prices))
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	return &types.GenesisState{
		Params:    k.GetParams(ctx),
		Providers: k.GetAllProviders(ctx),
		Prices:    k.GetAllPrices(ctx),
	}
}
