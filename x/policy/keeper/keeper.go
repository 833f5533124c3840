package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/bitshield-labs/bitshield/x/policy/types"
	sharedkeeper "github.com/bitshield-labs/bitshield/x/shared/keeper"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
)

// Keeper maintains the policy registry: one record per price-protection
// agreement, a monotonic id sequence, and the lifecycle state machine.
// Collateral movement is delegated to the vault keeper; spot prices come
// from the oracle keeper. Both are consumed through versioned interfaces.
type Keeper struct {
	storeKey     storetypes.StoreKey
	authority    string
	oracleKeeper sharedkeeper.OracleKeeperV1
	vaultKeeper  sharedkeeper.VaultKeeperV1
	roles        roles.Registry
	metrics      *Metrics

	// moduleAddr is the caller identity the policy module presents to the
	// vault; it must hold the backend role in the vault's role table.
	moduleAddr sdk.AccAddress
}

// NewKeeper creates a new policy Keeper instance.
func NewKeeper(
	storeKey storetypes.StoreKey,
	authority string,
	oracleKeeper sharedkeeper.OracleKeeperV1,
	vaultKeeper sharedkeeper.VaultKeeperV1,
) *Keeper {
	return &Keeper{
		storeKey:     storeKey,
		authority:    authority,
		oracleKeeper: oracleKeeper,
		vaultKeeper:  vaultKeeper,
		roles:        roles.NewRegistry(RolesKeyPrefix),
		metrics:      NewMetrics(),
		moduleAddr:   authtypes.NewModuleAddress(types.ModuleName),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetAuthority returns the module's authority (governance account).
func (k Keeper) GetAuthority() string {
	return k.authority
}

// GetModuleAddress returns the address the policy module uses when calling
// the vault.
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return k.moduleAddr
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetParams gets all parameters from the store.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	bz := k.getStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams()
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.DefaultParams()
	}
	return params
}

// SetParams sets the module parameters.
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return types.ErrInvalidParams.Wrap(err.Error())
	}

	bz, err := json.Marshal(params)
	if err != nil {
		return err
	}
	k.getStore(ctx).Set(ParamsKey, bz)
	return nil
}

// nextPolicyID returns the next id in the sequence and advances it.
func (k Keeper) nextPolicyID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	next := uint64(1)
	if bz := store.Get(NextPolicyIDKey); bz != nil {
		next = binary.BigEndian.Uint64(bz)
	}

	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, next+1)
	store.Set(NextPolicyIDKey, bz)
	return next
}

func (k Keeper) setNextPolicyID(ctx context.Context, next uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, next)
	k.getStore(ctx).Set(NextPolicyIDKey, bz)
}

func (k Keeper) getNextPolicyID(ctx context.Context) uint64 {
	if bz := k.getStore(ctx).Get(NextPolicyIDKey); bz != nil {
		return binary.BigEndian.Uint64(bz)
	}
	return 1
}

// UpdateParams replaces the module parameters. Governance-only.
func (k Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	if err := sharedkeeper.ValidateAuthority(k.authority, authority); err != nil {
		return err
	}
	return k.SetParams(ctx, params)
}

// GrantRole assigns a role to a principal. Only the authority or an existing
// admin may grant roles.
func (k Keeper) GrantRole(ctx context.Context, granter string, grant roles.Grant) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !k.isAdmin(ctx, granter) {
		return types.ErrUnauthorized.Wrapf("%s cannot grant roles", granter)
	}
	if err := k.roles.SetGrant(k.getStore(ctx), grant); err != nil {
		return err
	}

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoleGranted,
			sdk.NewAttribute(types.AttributeKeyRole, string(grant.Role)),
			sdk.NewAttribute(types.AttributeKeyPrincipal, grant.Principal),
		),
	)
	return nil
}

// RevokeRole removes a role from a principal.
func (k Keeper) RevokeRole(ctx context.Context, revoker string, role roles.Role, principal string) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if !k.isAdmin(ctx, revoker) {
		return types.ErrUnauthorized.Wrapf("%s cannot revoke roles", revoker)
	}
	k.roles.Revoke(k.getStore(ctx), role, principal)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoleRevoked,
			sdk.NewAttribute(types.AttributeKeyRole, string(role)),
			sdk.NewAttribute(types.AttributeKeyPrincipal, principal),
		),
	)
	return nil
}

func (k Keeper) isAdmin(ctx context.Context, caller string) bool {
	if caller == k.authority {
		return true
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return k.roles.HasRole(k.getStore(ctx), caller, roles.RoleAdmin, sdkCtx.BlockHeight())
}

// isBackend reports whether caller may run lifecycle maintenance (expiry).
// Admins qualify implicitly.
func (k Keeper) isBackend(ctx context.Context, caller string) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if k.roles.HasRole(k.getStore(ctx), caller, roles.RoleBackend, sdkCtx.BlockHeight()) {
		return true
	}
	return k.isAdmin(ctx, caller)
}
