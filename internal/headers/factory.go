// Package headers builds request-ready authorization headers from a token
// record, refreshing the record first when it is near or past expiry.
package headers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/tunelink/oauth2-device-client/internal/token"
	"github.com/tunelink/oauth2-device-client/internal/tokenstore"
)

// ErrRefresh indicates the proactive token refresh failed. Header
// construction aborts; no stale header is ever returned.
var ErrRefresh = errors.New("token refresh failed")

// defaultTimestampHeader carries the request time in epoch seconds.
const defaultTimestampHeader = "X-Request-Time"

// Refresher mints a new token record from a refresh token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*token.Record, error)
}

// BaseHeadersFunc supplies the baseline headers the downstream transport
// requires (user agent, cookie placeholders). Injected so the API client
// layer owns its own defaults.
type BaseHeadersFunc func() map[string]string

// Factory is the single externally consumed entry point: it turns a token
// record into request headers, refreshing and persisting along the way.
type Factory struct {
	refresher Refresher
	store     tokenstore.Store
	now       func() time.Time
	base      BaseHeadersFunc
	tsHeader  string

	// mu serializes refresh attempts so concurrent builds near the expiry
	// boundary trigger exactly one refresh.
	mu sync.Mutex
}

// New creates a header factory around the given refresher.
func New(refresher Refresher, opts ...Option) *Factory {
	f := &Factory{
		refresher: refresher,
		now:       time.Now,
		base:      func() map[string]string { return nil },
		tsHeader:  defaultTimestampHeader,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build returns authorization headers for the record, refreshing it in place
// first if it is inside the skew window. Refresh strictly precedes both
// persistence and header emission.
func (f *Factory) Build(ctx context.Context, rec *token.Record) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	if !rec.Valid(now) {
		if err := f.refresh(ctx, rec); err != nil {
			return nil, err
		}
	}

	h := make(map[string]string)
	for k, v := range f.base() {
		h[k] = v
	}
	h["Authorization"] = fmt.Sprintf("%s %s", rec.TokenType, rec.AccessToken)
	h["Content-Type"] = "application/json"
	h[f.tsHeader] = strconv.FormatInt(now.Unix(), 10)
	return h, nil
}

func (f *Factory) refresh(ctx context.Context, rec *token.Record) error {
	next, err := f.refresher.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRefresh, err)
	}

	*rec = token.Merge(*rec, *next)
	slog.Info("access token refreshed", "expires_at", rec.ExpiresAt)

	if f.store != nil {
		if err := f.store.Save(ctx, rec); err != nil {
			// The refresh already applied to the caller's record. The save
			// failure is still surfaced: a silently unpersisted record can
			// leave a rotated refresh token on disk only, dead.
			return fmt.Errorf("persisting refreshed token: %w", err)
		}
	}
	return nil
}
