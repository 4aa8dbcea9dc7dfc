package provider

import (
	"net/http"
	"net/url"
	"time"
)

// Option configures the provider client.
type Option func(*Client)

// WithHTTPClient injects the HTTP transport capability. The client never
// mutates process-wide transport state.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithProxy routes all token-endpoint requests through the given proxy URL.
// The proxy is a transport-level concern fixed at construction. It composes
// with WithHTTPClient in either order: the existing client's transport is
// cloned and given the proxy, falling back to a clone of the default
// transport when none is set.
func WithProxy(proxyURL *url.URL) Option {
	return func(c *Client) {
		transport, ok := c.httpClient.Transport.(*http.Transport)
		if !ok || transport == nil {
			transport = http.DefaultTransport.(*http.Transport).Clone()
		} else {
			transport = transport.Clone()
		}
		transport.Proxy = http.ProxyURL(proxyURL)

		c.httpClient = &http.Client{
			Timeout:   c.httpClient.Timeout,
			Transport: transport,
		}
	}
}

// WithClock overrides the time source used to stamp token expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}
