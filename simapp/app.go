// Package simapp wires the settlement keepers over an in-memory multistore
// for the demo CLI and integration scenarios. It is the non-testing
// counterpart of testutil/keeper.
package simapp

import (
	"fmt"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"

	oraclekeeper "github.com/bitshield-labs/bitshield/x/oracle/keeper"
	oracletypes "github.com/bitshield-labs/bitshield/x/oracle/types"
	policykeeper "github.com/bitshield-labs/bitshield/x/policy/keeper"
	policytypes "github.com/bitshield-labs/bitshield/x/policy/types"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
	vaultkeeper "github.com/bitshield-labs/bitshield/x/vault/keeper"
	vaulttypes "github.com/bitshield-labs/bitshield/x/vault/types"
)

// Core bundles the three settlement keepers over one multistore.
type Core struct {
	Oracle *oraclekeeper.Keeper
	Vault  *vaultkeeper.Keeper
	Policy *policykeeper.Keeper
	Bank   *LedgerBankKeeper

	Authority string

	stateStore storetypes.CommitMultiStore
	logger     log.Logger
}

// NewCore builds the keepers over a fresh MemDB, initializes default params
// and genesis, and grants the policy module the backend role in the vault.
func NewCore(logger log.Logger) (*Core, error) {
	oracleStoreKey := storetypes.NewKVStoreKey(oracletypes.StoreKey)
	vaultStoreKey := storetypes.NewKVStoreKey(vaulttypes.StoreKey)
	policyStoreKey := storetypes.NewKVStoreKey(policytypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(oracleStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(vaultStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(policyStoreKey, storetypes.StoreTypeIAVL, db)
	if err := stateStore.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load multistore: %w", err)
	}

	authority := authtypes.NewModuleAddress(govtypes.ModuleName).String()

	oracleK := oraclekeeper.NewKeeper(oracleStoreKey, authority)
	bank := NewLedgerBankKeeper()
	vaultK := vaultkeeper.NewKeeper(vaultStoreKey, authority, bank)
	policyK := policykeeper.NewKeeper(policyStoreKey, authority, oracleK, vaultK)

	core := &Core{
		Oracle:     oracleK,
		Vault:      vaultK,
		Policy:     policyK,
		Bank:       bank,
		Authority:  authority,
		stateStore: stateStore,
		logger:     logger,
	}

	ctx := core.NewContext()
	oracleK.InitGenesis(ctx, *oracletypes.DefaultGenesis())
	vaultK.InitGenesis(ctx, *vaulttypes.DefaultGenesis())
	policyK.InitGenesis(ctx, *policytypes.DefaultGenesis())

	if err := vaultK.GrantRole(ctx, authority, roles.Grant{
		Role:      roles.RoleBackend,
		Principal: policyK.GetModuleAddress().String(),
	}); err != nil {
		return nil, err
	}

	return core, nil
}

// NewContext returns a fresh context at height 1 over the core's multistore.
func (c *Core) NewContext() sdk.Context {
	header := cmtproto.Header{Height: 1, Time: time.Now().UTC()}
	return sdk.NewContext(c.stateStore, header, false, c.logger)
}
