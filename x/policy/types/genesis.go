package types

import (
	"fmt"
)

// GenesisState defines the policy module's genesis state.
type GenesisState struct {
	Params       Params   `json:"params"`
	Policies     []Policy `json:"policies"`
	NextPolicyID uint64   `json:"next_policy_id"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:       DefaultParams(),
		Policies:     []Policy{},
		NextPolicyID: 1,
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[uint64]bool)
	for _, policy := range gs.Policies {
		if err := policy.Validate(); err != nil {
			return err
		}
		if seen[policy.ID] {
			return fmt.Errorf("duplicate policy id %d", policy.ID)
		}
		if policy.ID >= gs.NextPolicyID {
			return fmt.Errorf("policy id %d not below next id %d", policy.ID, gs.NextPolicyID)
		}
		seen[policy.ID] = true
	}
	return nil
}
