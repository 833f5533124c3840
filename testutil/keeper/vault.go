package keeper

import (
	"testing"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/bitshield-labs/bitshield/x/vault/keeper"
	"github.com/bitshield-labs/bitshield/x/vault/types"
)

// VaultKeeper creates a test keeper for the vault module over a recording
// mock bank keeper.
func VaultKeeper(t testing.TB) (*keeper.Keeper, *MockBankKeeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testContext(t, storeKey)

	bank := NewMockBankKeeper()
	k := keeper.NewKeeper(storeKey, Authority, bank)
	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return k, bank, ctx
}
