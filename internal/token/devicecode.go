package token

import "net/url"

// DeviceCode holds the device authorization details returned by the
// provider's device-code endpoint. It lives for one setup session and is
// never persisted.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// VerificationURLComplete returns the verification URL with the user code
// attached, the address the user opens to approve the device.
func (d *DeviceCode) VerificationURLComplete() string {
	u, err := url.Parse(d.VerificationURL)
	if err != nil {
		return d.VerificationURL
	}
	q := u.Query()
	q.Set("user_code", d.UserCode)
	u.RawQuery = q.Encode()
	return u.String()
}
