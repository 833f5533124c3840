package keeper

import (
	"encoding/binary"
)

var (
	// ModuleNamespace is the namespace byte for the oracle module (0x01).
	// All store keys are prefixed with this byte to prevent collisions.
	ModuleNamespace = byte(0x01)

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01, 0x01}

	// PriceKeyPrefix is the prefix for aggregated price storage
	PriceKeyPrefix = []byte{0x01, 0x02}

	// SubmissionKeyPrefix is the prefix for provider price submissions
	SubmissionKeyPrefix = []byte{0x01, 0x03}

	// ProviderKeyPrefix is the prefix for the provider registry
	ProviderKeyPrefix = []byte{0x01, 0x04}

	// SnapshotKeyPrefix is the prefix for TWAP price snapshots
	SnapshotKeyPrefix = []byte{0x01, 0x05}

	// CloseMetaKeyPrefix is the prefix for volatility window metadata
	CloseMetaKeyPrefix = []byte{0x01, 0x06}

	// CloseEntryKeyPrefix is the prefix for volatility window entries
	CloseEntryKeyPrefix = []byte{0x01, 0x07}

	// RolesKeyPrefix is the prefix for the module role table
	RolesKeyPrefix = []byte{0x01, 0x08}
)

// GetPriceKey returns the store key for a price by asset.
func GetPriceKey(asset string) []byte {
	return append(PriceKeyPrefix, []byte(asset)...)
}

// GetProviderKey returns the store key for a provider by address.
func GetProviderKey(addr string) []byte {
	return append(ProviderKeyPrefix, []byte(addr)...)
}

// GetSubmissionKeyPrefixForAsset returns the iteration prefix for an asset's
// submissions.
func GetSubmissionKeyPrefixForAsset(asset string) []byte {
	key := append(SubmissionKeyPrefix, []byte(asset)...)
	return append(key, 0x00)
}

// GetSubmissionKey returns the store key for one provider's submission.
func GetSubmissionKey(asset, provider string) []byte {
	return append(GetSubmissionKeyPrefixForAsset(asset), []byte(provider)...)
}

// GetSnapshotKeyPrefixForAsset returns the iteration prefix for an asset's
// snapshots; entries sort by block height.
func GetSnapshotKeyPrefixForAsset(asset string) []byte {
	key := append(SnapshotKeyPrefix, []byte(asset)...)
	return append(key, 0x00)
}

// GetSnapshotKey returns the store key for a snapshot at a block height.
func GetSnapshotKey(asset string, height int64) []byte {
	key := GetSnapshotKeyPrefixForAsset(asset)
	heightBz := make([]byte, 8)
	binary.BigEndian.PutUint64(heightBz, uint64(height))
	return append(key, heightBz...)
}

// GetCloseMetaKey returns the store key for an asset's window metadata.
func GetCloseMetaKey(asset string) []byte {
	return append(CloseMetaKeyPrefix, []byte(asset)...)
}

// GetCloseEntryKeyPrefixForAsset returns the iteration prefix for an asset's
// close entries; entries sort by sequence number.
func GetCloseEntryKeyPrefixForAsset(asset string) []byte {
	key := append(CloseEntryKeyPrefix, []byte(asset)...)
	return append(key, 0x00)
}

// GetCloseEntryKey returns the store key for one close entry.
func GetCloseEntryKey(asset string, seq uint64) []byte {
	key := GetCloseEntryKeyPrefixForAsset(asset)
	seqBz := make([]byte, 8)
	binary.BigEndian.PutUint64(seqBz, seq)
	return append(key, seqBz...)
}
