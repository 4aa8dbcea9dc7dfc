// Package token defines the OAuth token record and its validity rules.
package token

import (
	"time"

	"golang.org/x/oauth2"
)

// SkewWindow is the safety margin subtracted from a token's expiry when
// deciding whether it is still usable. Refresh happens this long before the
// provider-reported deadline, not at the literal deadline.
const SkewWindow = time.Hour

// Record is one OAuth token pair plus its computed absolute expiry. The JSON
// tags match the persisted token file format exactly.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`

	// ExpiresAt is derived, not provider-supplied: stamped as
	// receipt time + ExpiresIn when the token response arrives.
	ExpiresAt int64 `json:"expires_at"`
}

// Stamp returns a copy of the record with ExpiresAt computed relative to the
// given receipt time. Only ExpiresIn is trusted from the wire.
func (r Record) Stamp(now time.Time) Record {
	r.ExpiresAt = now.Unix() + int64(r.ExpiresIn)
	return r
}

// Valid reports whether the record is usable without a refresh at the given
// time, honoring the skew window.
func (r *Record) Valid(now time.Time) bool {
	return now.Unix() < r.ExpiresAt-int64(SkewWindow.Seconds())
}

// Merge overlays next on top of old, producing the record a caller should
// hold after a refresh. Refresh responses do not reliably include a new
// refresh token; when next omits one, old's refresh token is carried forward.
func Merge(old, next Record) Record {
	if next.RefreshToken == "" {
		next.RefreshToken = old.RefreshToken
	}
	return next
}

// OAuth2Token converts the record for callers that integrate with
// golang.org/x/oauth2 consumers.
func (r *Record) OAuth2Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
		Expiry:       time.Unix(r.ExpiresAt, 0),
	}
}
