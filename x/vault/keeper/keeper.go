package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	sharedkeeper "github.com/bitshield-labs/bitshield/x/shared/keeper"
	"github.com/bitshield-labs/bitshield/x/shared/roles"
	"github.com/bitshield-labs/bitshield/x/vault/types"
)

// Keeper maintains the pooled collateral accounts of the vault module. All
// token movement goes through the bank keeper; the vault only tracks the
// total/locked split per denom.
type Keeper struct {
	storeKey   storetypes.StoreKey
	authority  string
	bankKeeper types.BankKeeper
	roles      roles.Registry
	metrics    *Metrics
}

// NewKeeper creates a new vault Keeper instance.
func NewKeeper(storeKey storetypes.StoreKey, authority string, bankKeeper types.BankKeeper) *Keeper {
	return &Keeper{
		storeKey:   storeKey,
		authority:  authority,
		bankKeeper: bankKeeper,
		roles:      roles.NewRegistry(RolesKeyPrefix),
		metrics:    NewMetrics(),
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

// isBackend reports whether caller may move pooled funds (withdraw, lock,
// release, settle). Admins qualify implicitly.
func (k Keeper) isBackend(ctx context.Context, caller string) bool {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if k.roles.HasRole(k.getStore(ctx), caller, roles.RoleBackend, sdkCtx.BlockHeight()) {
		return true
	}
	return k.isAdmin(ctx, caller)
}
