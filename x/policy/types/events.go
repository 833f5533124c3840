package types

// Event types for the policy module
const (
	EventTypePolicyCreated       = "policy_created"
	EventTypePolicyStatusUpdated = "policy_status_updated"
	EventTypeRoleGranted         = "policy_role_granted"
	EventTypeRoleRevoked         = "policy_role_revoked"
)

// Event attribute keys
const (
	AttributeKeyPolicyID         = "policy_id"
	AttributeKeyOwner            = "owner"
	AttributeKeyPolicyType       = "policy_type"
	AttributeKeyStrike           = "strike"
	AttributeKeyProtectedAmount  = "protected_amount"
	AttributeKeyCollateral       = "locked_collateral"
	AttributeKeyExpirationHeight = "expiration_height"
	AttributeKeyStatus           = "status"
	AttributeKeySpotPrice        = "spot_price"
	AttributeKeySettlement       = "settlement_amount"
	AttributeKeyRole             = "role"
	AttributeKeyPrincipal        = "principal"
)
