// Package tokenstore persists token records to durable locations.
package tokenstore

import (
	"context"
	"errors"

	"github.com/tunelink/oauth2-device-client/internal/token"
)

// Errors returned by stores. Both are treated as "no cached token" by
// callers, triggering a fresh setup flow.
var (
	// ErrNotFound indicates no token record exists at the location.
	ErrNotFound = errors.New("no stored token")

	// ErrCorrupt indicates the stored record could not be decoded.
	ErrCorrupt = errors.New("stored token is corrupt")
)

// Store serializes and deserializes token record snapshots. A store has no
// ownership of the record; the write is assumed single-writer.
type Store interface {
	// Save persists the full record, including the derived expiry.
	Save(ctx context.Context, rec *token.Record) error

	// Load returns the last saved record, ErrNotFound if absent, or
	// ErrCorrupt if it cannot be decoded.
	Load(ctx context.Context) (*token.Record, error)
}
