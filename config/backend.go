package config

import (
	"strings"
	"time"
)

// DefaultBackendURL is the hosted portfolio API.
const DefaultBackendURL = "https://my-porfollio-backend.onrender.com/api"

// BackendConfig configures the portfolio backend client.
type BackendConfig struct {
	// URL is the API root; endpoint paths are appended to it.
	URL string `env:"URL" envDefault:"https://my-porfollio-backend.onrender.com/api"`

	// Timeout bounds every backend request, including login submissions.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`

	// ErrorMessageExpr is the JMESPath expression that extracts the
	// user-facing message from an error response body.
	ErrorMessageExpr string `env:"ERROR_MESSAGE_EXPR" envDefault:"message"`
}

// Sanitize applies guardrails to backend configuration values.
func (b *BackendConfig) Sanitize() {
	b.URL = strings.TrimRight(strings.TrimSpace(b.URL), "/")
	if b.URL == "" {
		b.URL = DefaultBackendURL
	}
	if b.Timeout <= 0 {
		b.Timeout = 15 * time.Second
	}
	if strings.TrimSpace(b.ErrorMessageExpr) == "" {
		b.ErrorMessageExpr = "message"
	}
}
