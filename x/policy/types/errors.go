package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// x/policy module sentinel errors
var (
	ErrInvalidParameters       = sdkerrors.Register(ModuleName, 2, "invalid policy parameters")
	ErrInvalidExpiration       = sdkerrors.Register(ModuleName, 3, "invalid expiration height")
	ErrPolicyNotFound          = sdkerrors.Register(ModuleName, 4, "policy not found")
	ErrInvalidStatusTransition = sdkerrors.Register(ModuleName, 5, "invalid policy status transition")
	ErrPolicyExpired           = sdkerrors.Register(ModuleName, 6, "policy past expiration")
	ErrPolicyNotExpired        = sdkerrors.Register(ModuleName, 7, "policy not yet expired")
	ErrUnauthorized            = sdkerrors.Register(ModuleName, 10, "unauthorized")
	ErrInvalidParams           = sdkerrors.Register(ModuleName, 20, "invalid params")
)
