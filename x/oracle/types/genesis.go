package types

import "fmt"

// GenesisState defines the oracle module's genesis state.
type GenesisState struct {
	Params    Params            `json:"params"`
	Providers []Provider        `json:"providers"`
	Prices    []AggregatedPrice `json:"prices"`
}

// DefaultGenesis returns the default genesis state.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:    DefaultParams(),
		Providers: []Provider{},
		Prices:    []AggregatedPrice{},
	}
}

// Validate performs basic genesis state validation.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(gs.Providers))
	for _, p := range gs.Providers {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, ok := seen[p.Address]; ok {
			return fmt.Errorf("duplicate provider in genesis: %s", p.Address)
		}
		seen[p.Address] = struct{}{}
	}

	assets := make(map[string]struct{}, len(gs.Prices))
	for _, price := range gs.Prices {
		if err := price.Validate(); err != nil {
			return err
		}
		if _, ok := assets[price.Asset]; ok {
			return fmt.Errorf("duplicate price in genesis for asset: %s", price.Asset)
		}
		assets[price.Asset] = struct{}{}
	}

	return nil
}
