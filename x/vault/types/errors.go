package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// x/vault module sentinel errors
var (
	ErrInvalidDenom        = sdkerrors.Register(ModuleName, 2, "invalid denom")
	ErrInvalidAmount       = sdkerrors.Register(ModuleName, 3, "amount must be positive")
	ErrInsufficientBalance = sdkerrors.Register(ModuleName, 4, "insufficient available balance")
	ErrInsufficientLocked  = sdkerrors.Register(ModuleName, 5, "insufficient locked balance")
	ErrUnauthorized        = sdkerrors.Register(ModuleName, 10, "unauthorized")
	ErrInvalidParams       = sdkerrors.Register(ModuleName, 20, "invalid params")
)
