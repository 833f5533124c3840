package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/bitshield-labs/bitshield/x/oracle/types"
	sharedkeeper "github.com/bitshield-labs/bitshield/x/shared/keeper"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
)

// Keeper maintains the state of the oracle module: provider registry, price
// submissions, aggregated prices, TWAP snapshots, and the volatility window.
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string // module authority (usually governance module account)
	roles     roles.Registry
	metrics   *Metrics
}

// NewKeeper creates a new oracle Keeper instance.
func NewKeeper(storeKey storetypes.StoreKey, authority string) *Keeper {
	return &Keeper{
		storeKey:  storeKey,
		authority: authority,
		roles:     roles.NewRegistry(RolesKeyPrefix),
		metrics:   NewMetrics(),
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

// getStore returns the KVStore for the oracle module.
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetParams gets all parameters from the store.
func (k Keeper) GetParams(ctx context.Context) types.Params {
	store := k.getStore(ctx)
	bz := store.Get(ParamsKey)
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

// UpdateParams replaces the module parameters. Governance-only: the caller
// must be the module authority, not merely an admin.
func (k Keeper) UpdateParams(ctx context.Context, authority string, params types.Params) error {
	if err := sharedkeeper.ValidateAuthority(k.authority, authority); err != nil {
		return err
	}
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeParamsUpdated))
	return nil
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

// isAdmin reports whether caller may perform admin operations. The module
// authority is always an admin; further admins come from the role table.
func (k Keeper) isAdmin(ctx context.Context, caller string) bool {
	if caller == k.authority {
		return true
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return k.roles.HasRole(k.getStore(ctx), caller, roles.RoleAdmin, sdkCtx.BlockHeight())
}

// isBackend reports whether caller may perform backend operations
// (aggregation, daily close recording). Admins qualify implicitly.
func (k Keeper) isBackend(ctx context.Context, caller string) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if k.roles.HasRole(k.getStore(ctx), caller, roles.RoleBackend, sdkCtx.BlockHeight()) {
		return true
	}
	return k.isAdmin(ctx, caller)
}
