package types

// Event types for the oracle module.
// All event types use lowercase with underscore separator (module_action format).
const (
	EventTypePriceSubmitted  = "oracle_price_submitted"
	EventTypePriceAggregated = "oracle_price_aggregated"
	EventTypePriceUpdated    = "oracle_price_updated"
	EventTypeOutlierDetected = "oracle_outlier_detected"

	EventTypeProviderRegistered = "oracle_provider_registered"
	EventTypeProviderDisabled   = "oracle_provider_disabled"

	EventTypeDailyCloseRecorded = "oracle_daily_close_recorded"

	EventTypeParamsUpdated = "oracle_params_updated"
	EventTypeRoleGranted   = "oracle_role_granted"
	EventTypeRoleRevoked   = "oracle_role_revoked"
)

// Event attribute keys for the oracle module.
const (
	AttributeKeyAsset        = "asset"
	AttributeKeyPrice        = "price"
	AttributeKeyTimestamp    = "timestamp"
	AttributeKeyBlockHeight  = "block_height"
	AttributeKeyProvider     = "provider"
	AttributeKeyNumProviders = "num_providers"
	AttributeKeyNumOutliers  = "num_outliers"
	AttributeKeyMedian       = "median"
	AttributeKeyMAD          = "mad"
	AttributeKeyDeviation    = "deviation"
	AttributeKeyWeight       = "weight"
	AttributeKeyDate         = "date"
	AttributeKeyClose        = "close"
	AttributeKeyRole         = "role"
	AttributeKeyPrincipal    = "principal"
	AttributeKeySubmitter    = "submitter"
)
