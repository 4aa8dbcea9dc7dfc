package headers

import (
	"time"

	"github.com/tunelink/oauth2-device-client/internal/tokenstore"
)

// Option configures the header factory.
type Option func(*Factory)

// WithStore persists refreshed records to the given store.
func WithStore(store tokenstore.Store) Option {
	return func(f *Factory) {
		f.store = store
	}
}

// WithClock overrides the time source used for expiry checks and the
// request-timestamp header.
func WithClock(now func() time.Time) Option {
	return func(f *Factory) {
		f.now = now
	}
}

// WithBaseHeaders injects the baseline headers required by the downstream
// transport.
func WithBaseHeaders(base BaseHeadersFunc) Option {
	return func(f *Factory) {
		f.base = base
	}
}

// WithTimestampHeader overrides the name of the request-timestamp header.
func WithTimestampHeader(name string) Option {
	return func(f *Factory) {
		f.tsHeader = name
	}
}
