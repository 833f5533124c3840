package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// PolicyType distinguishes downside protection (PUT) from upside protection
// (CALL).
type PolicyType string

const (
	PolicyTypePut  PolicyType = "PUT"
	PolicyTypeCall PolicyType = "CALL"
)

// Validate checks that the policy type is known.
func (t PolicyType) Validate() error {
	switch t {
	case PolicyTypePut, PolicyTypeCall:
		return nil
	default:
		return fmt.Errorf("unknown policy type %q", t)
	}
}

// PolicyStatus is the lifecycle state of a policy. Exercised and Expired are
// terminal; the only transitions are Active->Exercised and Active->Expired.
type PolicyStatus string

const (
	StatusActive    PolicyStatus = "active"
	StatusExercised PolicyStatus = "exercised"
	StatusExpired   PolicyStatus = "expired"
)

// Validate checks that the status is known.
func (s PolicyStatus) Validate() error {
	switch s {
	case StatusActive, StatusExercised, StatusExpired:
		return nil
	default:
		return fmt.Errorf("unknown policy status %q", s)
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s PolicyStatus) IsTerminal() bool {
	return s == StatusExercised || s == StatusExpired
}

// Policy is one price-protection agreement. Strike is a price in the quote
// unit per whole protected asset; ProtectedAmount and LockedCollateral are
// integer amounts in the collateral denom's base unit.
type Policy struct {
	ID               uint64            `json:"id"`
	Owner            string            `json:"owner"`
	PolicyType       PolicyType        `json:"policy_type"`
	Strike           sdkmath.LegacyDec `json:"strike"`
	ProtectedAmount  sdkmath.Int       `json:"protected_amount"`
	CollateralDenom  string            `json:"collateral_denom"`
	LockedCollateral sdkmath.Int       `json:"locked_collateral"`
	ExpirationHeight int64             `json:"expiration_height"`
	Status           PolicyStatus      `json:"status"`
	CreatedAtHeight  int64             `json:"created_at_height"`
}

// Validate performs stateless validation of a policy record.
func (p Policy) Validate() error {
	if p.Owner == "" {
		return fmt.Errorf("policy %d has empty owner", p.ID)
	}
	if err := p.PolicyType.Validate(); err != nil {
		return err
	}
	if err := p.Status.Validate(); err != nil {
		return err
	}
	if p.Strike.IsNil() || !p.Strike.IsPositive() {
		return fmt.Errorf("policy %d strike must be positive", p.ID)
	}
	if p.ProtectedAmount.IsNil() || !p.ProtectedAmount.IsPositive() {
		return fmt.Errorf("policy %d protected amount must be positive", p.ID)
	}
	if p.LockedCollateral.IsNil() || p.LockedCollateral.IsNegative() {
		return fmt.Errorf("policy %d locked collateral cannot be negative", p.ID)
	}
	if p.CollateralDenom == "" {
		return fmt.Errorf("policy %d has empty collateral denom", p.ID)
	}
	if p.ExpirationHeight <= p.CreatedAtHeight {
		return fmt.Errorf("policy %d expiration %d not after creation %d",
			p.ID, p.ExpirationHeight, p.CreatedAtHeight)
	}
	return nil
}
