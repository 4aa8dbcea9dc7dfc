package deviceflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tunelink/oauth2-device-client/internal/provider"
	"github.com/tunelink/oauth2-device-client/internal/token"
	"github.com/tunelink/oauth2-device-client/internal/tokenstore"
)

// fakeProvider scripts the code request and a sequence of exchange results.
type fakeProvider struct {
	code    *token.DeviceCode
	codeErr error

	exchanged []string // Device codes seen by ExchangeCode
	results   []exchangeResult
}

type exchangeResult struct {
	rec *token.Record
	err error
}

func (f *fakeProvider) RequestDeviceCode(ctx context.Context) (*token.DeviceCode, error) {
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	return f.code, nil
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, deviceCode string) (*token.Record, error) {
	f.exchanged = append(f.exchanged, deviceCode)
	if len(f.results) == 0 {
		return nil, errors.New("no scripted result")
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res.rec, res.err
}

func testDeviceCode() *token.DeviceCode {
	return &token.DeviceCode{
		DeviceCode:      "D1",
		UserCode:        "U1",
		VerificationURL: "https://example.com/device",
		ExpiresIn:       1800,
		Interval:        0,
	}
}

func testRecord() *token.Record {
	return &token.Record{
		AccessToken:  "A1",
		RefreshToken: "R1",
		TokenType:    "Bearer",
		ExpiresIn:    3600,
		ExpiresAt:    1700003600,
	}
}

func noConfirm(ctx context.Context, verificationURL string) error { return nil }

func TestSetup(t *testing.T) {
	fake := &fakeProvider{
		code:    testDeviceCode(),
		results: []exchangeResult{{rec: testRecord()}},
	}
	store := tokenstore.NewMemStore()

	var confirmedURL string
	c := New(fake,
		WithStore(store),
		WithConfirm(func(ctx context.Context, url string) error {
			confirmedURL = url
			return nil
		}),
	)

	rec, err := c.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	if want := "https://example.com/device?user_code=U1"; confirmedURL != want {
		t.Errorf("presented URL = %q, want %q", confirmedURL, want)
	}
	if diff := cmp.Diff([]string{"D1"}, fake.exchanged); diff != "" {
		t.Errorf("exchanged codes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testRecord(), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if got := c.State(); got != StateExchanged {
		t.Errorf("state = %v, want %v", got, StateExchanged)
	}

	saved, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(testRecord(), saved); diff != "" {
		t.Errorf("persisted record mismatch (-want +got):\n%s", diff)
	}
}

// failStore always fails to persist.
type failStore struct {
	err error
}

func (s *failStore) Save(ctx context.Context, rec *token.Record) error {
	return s.err
}

func (s *failStore) Load(ctx context.Context) (*token.Record, error) {
	return nil, tokenstore.ErrNotFound
}

func TestSetupSaveFailure(t *testing.T) {
	fake := &fakeProvider{
		code:    testDeviceCode(),
		results: []exchangeResult{{rec: testRecord()}},
	}
	saveErr := errors.New("disk full")
	c := New(fake, WithConfirm(noConfirm), WithStore(&failStore{err: saveErr}))

	if _, err := c.Setup(context.Background()); !errors.Is(err, saveErr) {
		t.Fatalf("error = %v, want save failure surfaced", err)
	}
	// The exchange itself succeeded; only persistence failed
	if got := c.State(); got != StateExchanged {
		t.Errorf("state = %v, want %v", got, StateExchanged)
	}
}

func TestSetupCodeRequestFailure(t *testing.T) {
	fake := &fakeProvider{codeErr: errors.New("boom")}
	c := New(fake, WithConfirm(noConfirm))

	if _, err := c.Setup(context.Background()); !errors.Is(err, ErrSetup) {
		t.Fatalf("error = %v, want %v", err, ErrSetup)
	}
	if got := c.State(); got != StateAborted {
		t.Errorf("state = %v, want %v", got, StateAborted)
	}
}

func TestSetupPendingFailsFlow(t *testing.T) {
	fake := &fakeProvider{
		code:    testDeviceCode(),
		results: []exchangeResult{{err: provider.ErrAuthorizationPending}},
	}
	c := New(fake, WithConfirm(noConfirm))

	_, err := c.Setup(context.Background())
	if !errors.Is(err, provider.ErrAuthorizationPending) {
		t.Fatalf("error = %v, want %v", err, provider.ErrAuthorizationPending)
	}
	if got := len(fake.exchanged); got != 1 {
		t.Errorf("exchange attempts = %d, want exactly 1", got)
	}
	if got := c.State(); got != StateAborted {
		t.Errorf("state = %v, want %v", got, StateAborted)
	}
}

func TestSetupConfirmAborted(t *testing.T) {
	fake := &fakeProvider{code: testDeviceCode()}
	c := New(fake, WithConfirm(func(ctx context.Context, url string) error {
		return context.Canceled
	}))

	if _, err := c.Setup(context.Background()); !errors.Is(err, ErrSetup) {
		t.Fatalf("error = %v, want %v", err, ErrSetup)
	}
	if got := len(fake.exchanged); got != 0 {
		t.Errorf("exchange attempts = %d, want 0 after aborted confirmation", got)
	}
}

func TestSetupPolling(t *testing.T) {
	fake := &fakeProvider{
		code: testDeviceCode(),
		results: []exchangeResult{
			{err: provider.ErrAuthorizationPending},
			{err: provider.ErrAuthorizationPending},
			{rec: testRecord()},
		},
	}
	c := New(fake, WithPolling(), WithPollInterval(time.Millisecond))

	rec, err := c.Setup(context.Background())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if diff := cmp.Diff(testRecord(), rec); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
	if got := len(fake.exchanged); got != 3 {
		t.Errorf("exchange attempts = %d, want 3", got)
	}
}

func TestSetupPollingExpired(t *testing.T) {
	fake := &fakeProvider{
		code: testDeviceCode(),
		results: []exchangeResult{
			{err: provider.ErrAuthorizationPending},
			{err: provider.ErrExpiredCode},
		},
	}
	c := New(fake, WithPolling(), WithPollInterval(time.Millisecond))

	if _, err := c.Setup(context.Background()); !errors.Is(err, provider.ErrExpiredCode) {
		t.Fatalf("error = %v, want %v", err, provider.ErrExpiredCode)
	}
}

func TestSetupPollingCanceled(t *testing.T) {
	fake := &fakeProvider{
		code: testDeviceCode(),
		results: []exchangeResult{
			{err: provider.ErrAuthorizationPending},
		},
	}
	c := New(fake, WithPolling(), WithPollInterval(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Setup(ctx); !errors.Is(err, ErrSetup) {
		t.Fatalf("error = %v, want %v", err, ErrSetup)
	}
	if got := c.State(); got != StateAborted {
		t.Errorf("state = %v, want %v", got, StateAborted)
	}
}
