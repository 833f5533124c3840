package keeper

import (
	"testing"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	oraclekeeper "github.com/bitshield-labs/bitshield/x/oracle/keeper"
	oracletypes "github.com/bitshield-labs/bitshield/x/oracle/types"
	policykeeper "github.com/bitshield-labs/bitshield/x/policy/keeper"
	policytypes "github.com/bitshield-labs/bitshield/x/policy/types"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
	vaultkeeper "github.com/bitshield-labs/bitshield/x/vault/keeper"
	vaulttypes "github.com/bitshield-labs/bitshield/x/vault/types"
)

// PolicyKeepers bundles the policy keeper with the real oracle and vault
// keepers it is wired to.
type PolicyKeepers struct {
	Policy *policykeeper.Keeper
	Oracle *oraclekeeper.Keeper
	Vault  *vaultkeeper.Keeper
	Bank   *MockBankKeeper
}

// PolicyKeeper creates a test keeper for the policy module wired to real
// oracle and vault keepers over one multistore. The policy module address is
// granted the backend role in the vault so its lock/release/settle calls
// pass.
func PolicyKeeper(t testing.TB) (PolicyKeepers, sdk.Context) {
	oracleStoreKey := storetypes.NewKVStoreKey(oracletypes.StoreKey)
	vaultStoreKey := storetypes.NewKVStoreKey(vaulttypes.StoreKey)
	policyStoreKey := storetypes.NewKVStoreKey(policytypes.StoreKey)
	ctx := testContext(t, oracleStoreKey, vaultStoreKey, policyStoreKey)

	oracleK := oraclekeeper.NewKeeper(oracleStoreKey, Authority)
	require.NoError(t, oracleK.SetParams(ctx, oracletypes.DefaultParams()))

	bank := NewMockBankKeeper()
	vaultK := vaultkeeper.NewKeeper(vaultStoreKey, Authority, bank)
	require.NoError(t, vaultK.SetParams(ctx, vaulttypes.DefaultParams()))

	policyK := policykeeper.NewKeeper(policyStoreKey, Authority, oracleK, vaultK)
	require.NoError(t, policyK.SetParams(ctx, policytypes.DefaultParams()))

	require.NoError(t, vaultK.GrantRole(ctx, Authority, roles.Grant{
		Role:      roles.RoleBackend,
		Principal: policyK.GetModuleAddress().String(),
	}))

	return PolicyKeepers{
		Policy: policyK,
		Oracle: oracleK,
		Vault:  vaultK,
		Bank:   bank,
	}, ctx
}
