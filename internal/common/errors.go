// Package common defines shared constants and sentinel errors used across
// the everid backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal        = errors.New("internal error")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidArgument = errors.New("invalid argument")

	// Challenge lifecycle errors.
	ErrChallengeExpired = errors.New("challenge expired")

	// Account lifecycle errors.
	ErrAccountInactive = errors.New("account not active")

	// Ledger transport errors (the external Everscale endpoint is unreachable
	// or returned an unusable response).
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)
