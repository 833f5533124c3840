// Package roles implements a store-backed role registry used for principal
// authorization across modules. Access control is by role, not identity: a
// keeper asks whether a principal currently holds a role instead of comparing
// addresses inline. Grants may carry an expiry height; expired grants are
// treated as absent but are not pruned eagerly.
package roles

import (
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
)

// Role identifies a class of privileged callers.
type Role string

const (
	// RoleAdmin may manage providers, parameters, and role assignments.
	RoleAdmin Role = "admin"

	// RoleBackend may perform registry-driven operations: lock, release,
	// settle, aggregate, and expiration.
	RoleBackend Role = "backend"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleBackend
}

// Grant assigns a role to a principal, optionally until an expiry height.
type Grant struct {
	Role            Role   `json:"role"`
	Principal       string `json:"principal"`
	ExpiresAtHeight int64  `json:"expires_at_height,omitempty"` // 0 means no expiry
}

// Validate checks grant well-formedness.
func (g Grant) Validate() error {
	if !g.Role.Valid() {
		return fmt.Errorf("unknown role: %q", g.Role)
	}
	if g.Principal == "" {
		return fmt.Errorf("principal cannot be empty")
	}
	if g.ExpiresAtHeight < 0 {
		return fmt.Errorf("expiry height cannot be negative: %d", g.ExpiresAtHeight)
	}
	return nil
}

// Registry reads and writes grants under a key prefix of the hosting module's
// store. Each keeper embeds its own registry so modules stay independently
// addressable; the registry never opens a store itself.
type Registry struct {
	prefix []byte
}

// NewRegistry creates a registry scoped to the given key prefix.
func NewRegistry(prefix []byte) Registry {
	return Registry{prefix: prefix}
}

func (r Registry) key(role Role, principal string) []byte {
	key := make([]byte, 0, len(r.prefix)+len(role)+1+len(principal))
	key = append(key, r.prefix...)
	key = append(key, []byte(role)...)
	key = append(key, 0x00)
	return append(key, []byte(principal)...)
}

// SetGrant records a grant, overwriting any existing grant for the same
// role/principal pair.
func (r Registry) SetGrant(store storetypes.KVStore, g Grant) error {
	if err := g.Validate(); err != nil {
		return err
	}
	bz, err := json.Marshal(g)
	if err != nil {
		return err
	}
	store.Set(r.key(g.Role, g.Principal), bz)
	return nil
}

// Revoke removes a grant. Revoking an absent grant is a no-op.
func (r Registry) Revoke(store storetypes.KVStore, role Role, principal string) {
	store.Delete(r.key(role, principal))
}

// HasRole reports whether principal holds role at currentHeight.
func (r Registry) HasRole(store storetypes.KVStore, principal string, role Role, currentHeight int64) bool {
	bz := store.Get(r.key(role, principal))
	if bz == nil {
		return false
	}
	var g Grant
	if err := json.Unmarshal(bz, &g); err != nil {
		return false
	}
	if g.ExpiresAtHeight > 0 && currentHeight > g.ExpiresAtHeight {
		return false
	}
	return true
}

// Grants returns all grants in the registry, including expired ones.
func (r Registry) Grants(store storetypes.KVStore) []Grant {
	iterator := storetypes.KVStorePrefixIterator(store, r.prefix)
	defer iterator.Close()

	grants := []Grant{}
	for ; iterator.Valid(); iterator.Next() {
		var g Grant
		if err := json.Unmarshal(iterator.Value(), &g); err != nil {
			continue
		}
		grants = append(grants, g)
	}
	return grants
}
