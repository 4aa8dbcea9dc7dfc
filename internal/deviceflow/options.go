package deviceflow

import (
	"time"

	"github.com/tunelink/oauth2-device-client/internal/tokenstore"
)

// Option configures the setup coordinator.
type Option func(*Coordinator)

// WithStore persists the exchanged token record to the given store.
func WithStore(store tokenstore.Store) Option {
	return func(c *Coordinator) {
		c.store = store
	}
}

// WithConfirm replaces the default stdin prompt with a caller-supplied
// confirmation boundary, for non-interactive contexts.
func WithConfirm(confirm ConfirmFunc) Option {
	return func(c *Coordinator) {
		c.confirm = confirm
	}
}

// WithOpenBrowser auto-opens the verification URL in the default browser.
func WithOpenBrowser() Option {
	return func(c *Coordinator) {
		c.openBrowser = true
	}
}

// WithPolling replaces the confirmation boundary with a poll loop at the
// provider-reported interval, per the standard device-flow contract.
func WithPolling() Option {
	return func(c *Coordinator) {
		c.polling = true
	}
}

// WithPollInterval overrides the provider-reported polling interval.
func WithPollInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.pollInterval = d
	}
}
