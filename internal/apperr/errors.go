// Package apperr defines the sentinel errors shared across the application.
package apperr

import "errors"

var (
	// ErrInvalidInput marks requests rejected before any upstream call.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks lookups of chats or storage slots that do not exist.
	ErrNotFound = errors.New("not found")

	// Upstream failure classes. All are surfaced to the user as a displayable
	// message and never retried automatically; resubmission is manual.
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstreamTimeout    = errors.New("upstream timeout")
	ErrUpstream           = errors.New("upstream error")
)
