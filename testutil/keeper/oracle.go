package keeper

import (
	"testing"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	"github.com/bitshield-labs/bitshield/x/oracle/keeper"
	"github.com/bitshield-labs/bitshield/x/oracle/types"
)

// Authority is the governance module address used as keeper authority in
// tests.
var Authority = authtypes.NewModuleAddress(govtypes.ModuleName).String()

// OracleKeeper creates a test keeper for the oracle module with default
// params.
func OracleKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testContext(t, storeKey)

	k := keeper.NewKeeper(storeKey, Authority)
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return k, ctx
}
