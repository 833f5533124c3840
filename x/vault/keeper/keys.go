package keeper

var (
	// ModuleNamespace is the namespace byte for the vault module (0x02).
	ModuleNamespace = byte(0x02)

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x02, 0x01}

	// AccountKeyPrefix is the prefix for per-denom vault accounts
	AccountKeyPrefix = []byte{0x02, 0x02}

	// RolesKeyPrefix is the prefix for the module role table
	RolesKeyPrefix = []byte{0x02, 0x03}
)

// GetAccountKey returns the store key for a vault account by denom.
func GetAccountKey(denom string) []byte {
	return append(AccountKeyPrefix, []byte(denom)...)
}
