package provider

import "errors"

// Errors surfaced by the provider client. Transport and timeout failures may
// be retried by caller policy; the client itself never retries.
var (
	// ErrTransport indicates a network, DNS, or TLS level failure.
	ErrTransport = errors.New("transport failure")

	// ErrTimeout indicates the provider endpoint did not answer in time.
	ErrTimeout = errors.New("provider request timed out")

	// ErrProvider indicates a malformed or unexpected provider response.
	ErrProvider = errors.New("unexpected provider response")

	// ErrAuthorizationPending indicates user authorization is not yet complete.
	ErrAuthorizationPending = errors.New("authorization pending")

	// ErrExpiredCode indicates the device code has expired.
	ErrExpiredCode = errors.New("device code expired")
)
