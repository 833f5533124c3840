package keeper

import (
	"encoding/binary"
)

var (
	// ModuleNamespace is the namespace byte for the policy module (0x03).
	ModuleNamespace = byte(0x03)

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x03, 0x01}

	// PolicyKeyPrefix is the prefix for policy records
	PolicyKeyPrefix = []byte{0x03, 0x02}

	// NextPolicyIDKey is the key for the policy id sequence
	NextPolicyIDKey = []byte{0x03, 0x03}

	// RolesKeyPrefix is the prefix for the module role table
	RolesKeyPrefix = []byte{0x03, 0x04}
)

// GetPolicyKey returns the store key for a policy by id.
func GetPolicyKey(id uint64) []byte {
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, id)
	return append(PolicyKeyPrefix, idBz...)
}
