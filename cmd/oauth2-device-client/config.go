package main

import "time"

// Config holds client configuration loaded from environment variables. The
// client identifier and secret are fixed per provider, not end-user-supplied.
type Config struct {
	ClientID     string `envconfig:"CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"CLIENT_SECRET" required:"true"`

	Scope         string `envconfig:"SCOPE" default:"https://www.googleapis.com/auth/youtube"`
	DeviceCodeURL string `envconfig:"DEVICE_CODE_URL" default:"https://oauth2.googleapis.com/device/code"`
	TokenURL      string `envconfig:"TOKEN_URL" default:"https://oauth2.googleapis.com/token"`

	ProxyURL  string `envconfig:"PROXY_URL"`
	TokenFile string `envconfig:"TOKEN_FILE" default:"oauth.json"`
	RedisURL  string `envconfig:"REDIS_URL"`

	OpenBrowser bool          `envconfig:"OPEN_BROWSER" default:"false"`
	Poll        bool          `envconfig:"POLL" default:"false"`
	Timeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	LogLevel    string        `envconfig:"LOG_LEVEL" default:"info"`
}
