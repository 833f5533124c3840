package types

import (
	"fmt"
)

// GenesisState defines the vault module's genesis state.
type GenesisState struct {
	Params   Params         `json:"params"`
	Accounts []VaultAccount `json:"accounts"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:   DefaultParams(),
		Accounts: []VaultAccount{},
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for _, account := range gs.Accounts {
		if err := account.Validate(); err != nil {
			return err
		}
		if seen[account.Denom] {
			return fmt.Errorf("duplicate vault account for denom %s", account.Denom)
		}
		seen[account.Denom] = true
	}
	return nil
}
