package types

// Event types for the vault module
const (
	EventTypeFundsDeposited     = "vault_funds_deposited"
	EventTypeFundsWithdrawn     = "vault_funds_withdrawn"
	EventTypeCollateralLocked   = "vault_collateral_locked"
	EventTypeCollateralReleased = "vault_collateral_released"
	EventTypeSettlementPaid     = "vault_settlement_paid"
	EventTypeRoleGranted        = "vault_role_granted"
	EventTypeRoleRevoked        = "vault_role_revoked"
)

// Event attribute keys
const (
	AttributeKeyDenom     = "denom"
	AttributeKeyAmount    = "amount"
	AttributeKeyDepositor = "depositor"
	AttributeKeyRecipient = "recipient"
	AttributeKeyPolicyID  = "policy_id"
	AttributeKeyTotal     = "total_balance"
	AttributeKeyLocked    = "locked_balance"
	AttributeKeyRole      = "role"
	AttributeKeyPrincipal = "principal"
)
