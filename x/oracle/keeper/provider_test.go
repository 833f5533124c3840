package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/bitshield-labs/bitshield/testutil/keeper"
	"github.com/bitshield-labs/bitshield/x/oracle/types"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
)

func testGrantAdmin(principal string) roles.Grant {
	return roles.Grant{Role: roles.RoleAdmin, Principal: principal}
}

func TestRegisterProvider(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	require.NoError(t, k.RegisterProvider(ctx, keepertest.Authority, "provider-1", sdkmath.NewInt(3)))

	provider, found := k.GetProvider(ctx, "provider-1")
	require.True(t, found)
	require.Equal(t, sdkmath.NewInt(3), provider.Weight)
	require.Equal(t, sdkmath.LegacyOneDec(), provider.ReliabilityScore)
	require.True(t, provider.IsActive())

	// Re-registering the same address fails.
	err := k.RegisterProvider(ctx, keepertest.Authority, "provider-1", sdkmath.NewInt(5))
	require.ErrorIs(t, err, types.ErrProviderExists)
}

func TestRegisterProviderUnauthorized(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	err := k.RegisterProvider(ctx, "rando", "provider-1", sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestDisableProvider(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	require.NoError(t, k.RegisterProvider(ctx, keepertest.Authority, "provider-1", sdkmath.NewInt(1)))
	require.NoError(t, k.DisableProvider(ctx, keepertest.Authority, "provider-1"))

	provider, found := k.GetProvider(ctx, "provider-1")
	require.True(t, found)
	require.False(t, provider.IsActive())

	err := k.DisableProvider(ctx, keepertest.Authority, "provider-9")
	require.ErrorIs(t, err, types.ErrProviderNotFound)
}

func TestSetProviderWeight(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	require.NoError(t, k.RegisterProvider(ctx, keepertest.Authority, "provider-1", sdkmath.NewInt(1)))
	require.NoError(t, k.SetProviderWeight(ctx, keepertest.Authority, "provider-1", sdkmath.NewInt(7)))

	provider, _ := k.GetProvider(ctx, "provider-1")
	require.Equal(t, sdkmath.NewInt(7), provider.Weight)
}

func TestRoleGrantAllowsAdminOps(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	err := k.RegisterProvider(ctx, "operator", "provider-1", sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, k.GrantRole(ctx, keepertest.Authority, testGrantAdmin("operator")))
	require.NoError(t, k.RegisterProvider(ctx, "operator", "provider-1", sdkmath.NewInt(1)))

	require.NoError(t, k.RevokeRole(ctx, keepertest.Authority, testGrantAdmin("operator").Role, "operator"))
	err = k.RegisterProvider(ctx, "operator", "provider-2", sdkmath.NewInt(1))
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestUpdateParamsAuthorityOnly(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	params := types.DefaultParams()
	params.MinProviders = 5

	err := k.UpdateParams(ctx, "not-the-authority", params)
	require.ErrorIs(t, err, govtypes.ErrInvalidSigner)
	require.Equal(t, uint32(3), k.GetParams(ctx).MinProviders)

	require.NoError(t, k.UpdateParams(ctx, keepertest.Authority, params))
	require.Equal(t, uint32(5), k.GetParams(ctx).MinProviders)
}

func TestGenesisRoundTrip(t *testing.T) {
	k, ctx := keepertest.OracleKeeper(t)

	require.NoError(t, k.RegisterProvider(ctx, keepertest.Authority, "provider-1", sdkmath.NewInt(2)))
	require.NoError(t, k.RegisterProvider(ctx, keepertest.Authority, "provider-2", sdkmath.NewInt(3)))

	exported := k.ExportGenesis(ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Providers, 2)

	k2, ctx2 := keepertest.OracleKeeper(t)
	k2.InitGenesis(ctx2, *exported)
	require.Len(t, k2.GetAllProviders(ctx2), 2)
}
