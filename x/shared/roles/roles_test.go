package roles_test

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/stretchr/testify/require"

	"github.com/bitshield-labs/bitshield/x/shared/roles"
)

func testStore(t *testing.T) storetypes.KVStore {
	storeKey := storetypes.NewKVStoreKey("roles_test")
	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())
	return stateStore.GetKVStore(storeKey)
}

func TestGrantAndHasRole(t *testing.T) {
	kv := testStore(t)
	registry := roles.NewRegistry([]byte{0x0f, 0x01})

	require.False(t, registry.HasRole(kv, "alice", roles.RoleBackend, 10))

	require.NoError(t, registry.SetGrant(kv, roles.Grant{
		Role:      roles.RoleBackend,
		Principal: "alice",
	}))
	require.True(t, registry.HasRole(kv, "alice", roles.RoleBackend, 10))
	require.False(t, registry.HasRole(kv, "alice", roles.RoleAdmin, 10))
	require.False(t, registry.HasRole(kv, "bob", roles.RoleBackend, 10))
}

func TestGrantExpiry(t *testing.T) {
	kv := testStore(t)
	registry := roles.NewRegistry([]byte{0x0f, 0x01})

	require.NoError(t, registry.SetGrant(kv, roles.Grant{
		Role:            roles.RoleBackend,
		Principal:       "alice",
		ExpiresAtHeight: 100,
	}))

	require.True(t, registry.HasRole(kv, "alice", roles.RoleBackend, 100))
	require.False(t, registry.HasRole(kv, "alice", roles.RoleBackend, 101))
	require.False(t, registry.HasRole(kv, "alice", roles.RoleBackend, 500))
}

func TestRevoke(t *testing.T) {
	kv := testStore(t)
	registry := roles.NewRegistry([]byte{0x0f, 0x01})

	require.NoError(t, registry.SetGrant(kv, roles.Grant{
		Role:      roles.RoleAdmin,
		Principal: "alice",
	}))
	require.True(t, registry.HasRole(kv, "alice", roles.RoleAdmin, 1))

	registry.Revoke(kv, roles.RoleAdmin, "alice")
	require.False(t, registry.HasRole(kv, "alice", roles.RoleAdmin, 1))
}

func TestInvalidGrant(t *testing.T) {
	kv := testStore(t)
	registry := roles.NewRegistry([]byte{0x0f, 0x01})

	require.Error(t, registry.SetGrant(kv, roles.Grant{Role: "janitor", Principal: "alice"}))
	require.Error(t, registry.SetGrant(kv, roles.Grant{Role: roles.RoleAdmin}))
}

func TestGrantsListing(t *testing.T) {
	kv := testStore(t)
	registry := roles.NewRegistry([]byte{0x0f, 0x01})

	require.NoError(t, registry.SetGrant(kv, roles.Grant{Role: roles.RoleAdmin, Principal: "alice"}))
	require.NoError(t, registry.SetGrant(kv, roles.Grant{Role: roles.RoleBackend, Principal: "bob"}))

	grants := registry.Grants(kv)
	require.Len(t, grants, 2)
}
