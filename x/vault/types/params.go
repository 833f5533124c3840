package types

// Params holds the vault module parameters. The vault is currently governed
// entirely by its role table; the struct stays so genesis and future
// parameters keep a stable shape.
type Params struct{}

// DefaultParams returns the default vault parameters.
func DefaultParams() Params {
	return Params{}
}

// Validate checks the parameter set.
func (p Params) Validate() error {
	return nil
}
