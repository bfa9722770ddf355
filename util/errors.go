package util

import "errors"

// Sentinel errors for package util.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Hash errors
	ErrInvalidHash = errors.New("invalid hex hash")

	// Key layout errors
	ErrInvalidLayout  = errors.New("invalid shard layout")
	ErrInvalidVariant = errors.New("invalid variant: preset and format are required")

	// Scheme errors
	ErrUnknownScheme = errors.New("unknown addressing scheme")
)
