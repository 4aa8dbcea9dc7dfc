// Package integration exercises the full client flow against an in-process
// fake provider.
package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Fixed credentials the fake provider hands out.
const (
	DeviceCode    = "D1"
	UserCode      = "U1"
	FirstAccess   = "A1"
	SecondAccess  = "A2"
	RefreshToken  = "R1"
	TokenLifetime = 7200
)

// FakeProvider is an in-process stand-in for the identity provider's token
// endpoints. Approve marks the pending device code as authorized, simulating
// the user finishing the browser login.
type FakeProvider struct {
	Server *httptest.Server

	mu        sync.Mutex
	approved  bool
	refreshed bool
}

// NewFakeProvider starts the fake provider.
func NewFakeProvider() *FakeProvider {
	p := &FakeProvider{}

	r := chi.NewRouter()
	r.Post("/device/code", p.handleDeviceCode)
	r.Post("/token", p.handleToken)
	p.Server = httptest.NewServer(r)

	return p
}

// Close shuts the fake provider down.
func (p *FakeProvider) Close() {
	p.Server.Close()
}

// Approve simulates the user completing verification in the browser.
func (p *FakeProvider) Approve() {
	p.mu.Lock()
	p.approved = true
	p.mu.Unlock()
}

// Refreshed reports whether a refresh grant was issued.
func (p *FakeProvider) Refreshed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.refreshed
}

func (p *FakeProvider) handleDeviceCode(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("client_id") == "" {
		writeError(w, http.StatusBadRequest, "invalid_client")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_code":      DeviceCode,
		"user_code":        UserCode,
		"verification_url": p.Server.URL + "/device",
		"expires_in":       1800,
		"interval":         5,
	})
}

func (p *FakeProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch r.FormValue("grant_type") {
	case "urn:ietf:params:oauth:grant-type:device_code":
		if r.FormValue("code") != DeviceCode {
			writeError(w, http.StatusBadRequest, "invalid_grant")
			return
		}
		if !p.approved {
			writeError(w, http.StatusPreconditionRequired, "authorization_pending")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  FirstAccess,
			"expires_in":    TokenLifetime,
			"refresh_token": RefreshToken,
			"scope":         r.FormValue("scope"),
			"token_type":    "Bearer",
		})

	case "refresh_token":
		if r.FormValue("refresh_token") != RefreshToken {
			writeError(w, http.StatusBadRequest, "invalid_grant")
			return
		}
		p.refreshed = true
		// No refresh_token in the response; the client carries the old one
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": SecondAccess,
			"expires_in":   TokenLifetime,
			"token_type":   "Bearer",
		})

	default:
		writeError(w, http.StatusBadRequest, "unsupported_grant_type")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
