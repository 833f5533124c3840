package types

const (
	// ModuleName defines the module name
	ModuleName = "oracle"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for the oracle module
	RouterKey = ModuleName
)

// KeyPrefix turns a string into a store key prefix
func KeyPrefix(p string) []byte {
	return []byte(p)
}
