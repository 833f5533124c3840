package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Oracle module sentinel errors.
//
// Retryability: ErrStalePrice, ErrInsufficientProviders, and
// ErrInsufficientHistory leave state unchanged and clear on their own as new
// data arrives. ErrUnauthorized and ErrProviderNotActive are permission
// errors and will not succeed on retry.
var (
	// Asset and price errors
	ErrInvalidAsset        = sdkerrors.Register(ModuleName, 2, "invalid asset")
	ErrInvalidPrice        = sdkerrors.Register(ModuleName, 3, "invalid price")
	ErrNoPriceData         = sdkerrors.Register(ModuleName, 4, "no price data")
	ErrStalePrice          = sdkerrors.Register(ModuleName, 5, "price data is stale")
	ErrPriceOutOfBounds    = sdkerrors.Register(ModuleName, 6, "price outside deviation bound")
	ErrTimestampRegression = sdkerrors.Register(ModuleName, 7, "price timestamp older than stored value")

	// Provider errors
	ErrProviderNotFound    = sdkerrors.Register(ModuleName, 10, "provider not found")
	ErrProviderNotActive   = sdkerrors.Register(ModuleName, 11, "provider is not active")
	ErrProviderExists      = sdkerrors.Register(ModuleName, 12, "provider already registered")
	ErrDuplicateSubmission = sdkerrors.Register(ModuleName, 13, "duplicate price submission in window")

	// Aggregation errors
	ErrInsufficientProviders = sdkerrors.Register(ModuleName, 20, "insufficient providers for aggregation")
	ErrNoValidSubmissions    = sdkerrors.Register(ModuleName, 21, "no valid submissions to aggregate")

	// Volatility errors
	ErrInsufficientHistory = sdkerrors.Register(ModuleName, 30, "insufficient price history")
	ErrInvalidWindow       = sdkerrors.Register(ModuleName, 31, "invalid volatility window")
	ErrInvalidDate         = sdkerrors.Register(ModuleName, 32, "invalid close date")

	// Authorization errors
	ErrUnauthorized = sdkerrors.Register(ModuleName, 40, "unauthorized")

	// Parameter errors
	ErrInvalidParams = sdkerrors.Register(ModuleName, 50, "invalid oracle params")
)
