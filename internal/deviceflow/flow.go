// Package deviceflow drives the interactive device-authorization setup:
// request a code, present it to the user, exchange it, persist the token.
package deviceflow

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tunelink/oauth2-device-client/internal/provider"
	"github.com/tunelink/oauth2-device-client/internal/token"
	"github.com/tunelink/oauth2-device-client/internal/tokenstore"
)

// MinPollInterval is the floor applied to the provider-reported polling
// interval in polling mode.
const MinPollInterval = 5 * time.Second

// ProviderClient issues the device-code and exchange requests.
type ProviderClient interface {
	RequestDeviceCode(ctx context.Context) (*token.DeviceCode, error)
	ExchangeCode(ctx context.Context, deviceCode string) (*token.Record, error)
}

// ConfirmFunc blocks until the user acknowledges they completed the browser
// login at the given verification URL, or returns an error to abort.
type ConfirmFunc func(ctx context.Context, verificationURL string) error

// Coordinator runs the setup flow once per call. It is not safe for
// concurrent Setup calls.
type Coordinator struct {
	provider     ProviderClient
	store        tokenstore.Store
	confirm      ConfirmFunc
	openBrowser  bool
	polling      bool
	pollInterval time.Duration

	mu    sync.Mutex
	state State
}

// New creates a setup coordinator around the provider client.
func New(p ProviderClient, opts ...Option) *Coordinator {
	c := &Coordinator{
		provider: p,
		confirm:  stdinConfirm(os.Stdin, os.Stdout),
		state:    StateStart,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the coordinator's current flow state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Setup runs the flow to completion: code request, user verification,
// exchange, and persistence. On any failure the flow aborts; re-running
// Setup is the prescribed recovery.
func (c *Coordinator) Setup(ctx context.Context) (*token.Record, error) {
	c.setState(StateStart)

	code, err := c.provider.RequestDeviceCode(ctx)
	if err != nil {
		c.setState(StateAborted)
		return nil, fmt.Errorf("%w: requesting device code: %v", ErrSetup, err)
	}
	c.setState(StateCodeRequested)

	verificationURL := code.VerificationURLComplete()
	slog.Info("device code obtained",
		"user_code", code.UserCode,
		"verification_url", verificationURL,
		"expires_in", code.ExpiresIn,
	)

	if c.openBrowser {
		// Best effort; the URL is always printed as well
		if err := openBrowser(verificationURL); err != nil {
			slog.Debug("opening browser failed", "error", err)
		}
	}
	c.setState(StateAwaitingUser)

	var rec *token.Record
	if c.polling {
		rec, err = c.pollExchange(ctx, code)
	} else {
		rec, err = c.confirmExchange(ctx, code, verificationURL)
	}
	if err != nil {
		c.setState(StateAborted)
		return nil, err
	}
	c.setState(StateExchanged)

	if c.store != nil {
		if err := c.store.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("persisting token: %w", err)
		}
	}
	return rec, nil
}

// confirmExchange blocks on explicit user acknowledgment, then attempts the
// exchange exactly once. A pending or expired code fails the flow.
func (c *Coordinator) confirmExchange(ctx context.Context, code *token.DeviceCode, verificationURL string) (*token.Record, error) {
	if err := c.confirm(ctx, verificationURL); err != nil {
		return nil, fmt.Errorf("%w: awaiting user confirmation: %v", ErrSetup, err)
	}
	rec, err := c.provider.ExchangeCode(ctx, code.DeviceCode)
	if err != nil {
		return nil, fmt.Errorf("exchanging device code: %w", err)
	}
	return rec, nil
}

// pollExchange retries the exchange at the provider-reported interval until
// the user completes the login, the code expires, or ctx is done.
func (c *Coordinator) pollExchange(ctx context.Context, code *token.DeviceCode) (*token.Record, error) {
	interval := time.Duration(code.Interval) * time.Second
	if interval < MinPollInterval {
		interval = MinPollInterval
	}
	if c.pollInterval > 0 {
		interval = c.pollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: awaiting authorization: %v", ErrSetup, ctx.Err())
		case <-ticker.C:
			rec, err := c.provider.ExchangeCode(ctx, code.DeviceCode)
			if errors.Is(err, provider.ErrAuthorizationPending) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("exchanging device code: %w", err)
			}
			return rec, nil
		}
	}
}

// stdinConfirm prompts on out and blocks until a line arrives on in.
// ReadString has no cancellation: when ctx is canceled first, the reader
// goroutine stays blocked until the next line or EOF on in. Long-lived
// callers should supply their own ConfirmFunc instead.
func stdinConfirm(in io.Reader, out io.Writer) ConfirmFunc {
	return func(ctx context.Context, verificationURL string) error {
		fmt.Fprintf(out, "Go to %s, finish the login flow and press Enter when done, Ctrl-C to abort\n", verificationURL)

		lines := make(chan error, 1)
		go func() {
			_, err := bufio.NewReader(in).ReadString('\n')
			lines <- err
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-lines:
			if err != nil && err != io.EOF {
				return err
			}
			return nil
		}
	}
}
