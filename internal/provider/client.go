// Package provider implements the wire calls against the identity provider's
// token endpoints: device-code request, code exchange, and refresh.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tunelink/oauth2-device-client/internal/token"
)

const (
	grantTypeDeviceCode = "urn:ietf:params:oauth:grant-type:device_code"
	grantTypeRefresh    = "refresh_token"

	// defaultUserAgent is the fixed provider-compatible User-Agent attached
	// to every token-endpoint request.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:72.0) Gecko/20100101 Firefox/72.0 Cobalt/Version"

	// defaultTimeout bounds each token-endpoint request; the provider
	// endpoint is known to hang occasionally.
	defaultTimeout = 10 * time.Second
)

// Config holds the fixed per-provider settings for the client.
type Config struct {
	ClientID      string
	ClientSecret  string
	Scope         string
	DeviceCodeURL string
	TokenURL      string
	UserAgent     string
}

// Client issues the unauthenticated token-endpoint requests. None of its
// calls attach an Authorization header.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// New creates a provider client from the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if cfg.DeviceCodeURL == "" || cfg.TokenURL == "" {
		return nil, fmt.Errorf("device code and token URLs are required")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// RequestDeviceCode requests a new device/user code pair from the provider.
func (c *Client) RequestDeviceCode(ctx context.Context) (*token.DeviceCode, error) {
	body, err := c.postForm(ctx, c.cfg.DeviceCodeURL, url.Values{
		"scope": {c.cfg.Scope},
	})
	if err != nil {
		return nil, err
	}

	var code token.DeviceCode
	if err := json.Unmarshal(body, &code); err != nil {
		return nil, fmt.Errorf("%w: parsing device code response: %v", ErrProvider, err)
	}
	if code.DeviceCode == "" || code.UserCode == "" || code.VerificationURL == "" {
		return nil, fmt.Errorf("%w: device code response missing required fields", ErrProvider)
	}

	return &code, nil
}

// ExchangeCode exchanges a device code for a token record. The provider may
// report that authorization is still pending or that the code expired; both
// are surfaced as typed errors so the caller decides polling policy.
func (c *Client) ExchangeCode(ctx context.Context, deviceCode string) (*token.Record, error) {
	return c.requestToken(ctx, url.Values{
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {grantTypeDeviceCode},
		"code":          {deviceCode},
	})
}

// Refresh mints a new token record from a refresh token. The response does
// not reliably include a new refresh token; the caller carries the old one
// forward when it is absent.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*token.Record, error) {
	return c.requestToken(ctx, url.Values{
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {grantTypeRefresh},
		"refresh_token": {refreshToken},
	})
}

func (c *Client) requestToken(ctx context.Context, data url.Values) (*token.Record, error) {
	body, err := c.postForm(ctx, c.cfg.TokenURL, data)
	if err != nil {
		return nil, err
	}

	var rec token.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: parsing token response: %v", ErrProvider, err)
	}
	if rec.AccessToken == "" {
		return nil, fmt.Errorf("%w: token response missing access_token", ErrProvider)
	}

	// Expiry is always stamped relative to receipt time; only expires_in is
	// trusted from the wire.
	rec = rec.Stamp(c.now())
	return &rec, nil
}

// postForm sends a form-encoded POST carrying the client identifier and the
// fixed User-Agent, returning the raw body of a 200 response.
func (c *Client) postForm(ctx context.Context, endpoint string, data url.Values) ([]byte, error) {
	data.Set("client_id", c.cfg.ClientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.providerError(resp.StatusCode, body)
	}
	return body, nil
}

// providerError maps an error payload to the client error taxonomy.
func (c *Client) providerError(status int, body []byte) error {
	var errResp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("%w: status %d", ErrProvider, status)
	}

	switch errResp.Error {
	case "authorization_pending":
		return ErrAuthorizationPending
	case "expired_token":
		return ErrExpiredCode
	default:
		return fmt.Errorf("%w: %s: %s", ErrProvider, errResp.Error, errResp.ErrorDescription)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
