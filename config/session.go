package config

import (
	"strings"
	"time"
)

// DefaultClientCookie names the cookie carrying the browser client id.
const DefaultClientCookie = "folio_client"

// SessionConfig controls per-client session handling.
type SessionConfig struct {
	// CookieName is the cookie carrying the client id.
	CookieName string `env:"COOKIE_NAME" envDefault:"folio_client"`

	// CookieMaxAge is how long browsers keep the client id.
	CookieMaxAge time.Duration `env:"COOKIE_MAX_AGE" envDefault:"8760h"`

	// IdleTTL evicts in-memory session stores unused for this long.
	IdleTTL time.Duration `env:"IDLE_TTL" envDefault:"30m"`

	// SweepInterval is how often idle stores are evicted.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	s.CookieName = strings.TrimSpace(s.CookieName)
	if s.CookieName == "" {
		s.CookieName = DefaultClientCookie
	}
	if s.CookieMaxAge <= 0 {
		s.CookieMaxAge = 365 * 24 * time.Hour
	}
	if s.IdleTTL < time.Minute {
		s.IdleTTL = time.Minute
	}
	if s.SweepInterval <= 0 || s.SweepInterval > s.IdleTTL {
		s.SweepInterval = s.IdleTTL / 2
	}
}

// TokenConfig controls Credential Token handling.
type TokenConfig struct {
	// JWKSURL enables signature verification at login when set.
	// Empty keeps the unsigned decode: trust is delegated to the backend and TLS.
	JWKSURL string `env:"JWKS_URL"`
}

// Sanitize applies guardrails to token configuration values.
func (t *TokenConfig) Sanitize() {
	t.JWKSURL = strings.TrimSpace(t.JWKSURL)
}

// VerificationEnabled reports whether login tokens are signature-checked.
func (t TokenConfig) VerificationEnabled() bool {
	return t.JWKSURL != ""
}

// RateLimitConfig throttles login submissions per client.
type RateLimitConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// PerMinute is the sustained number of login attempts allowed.
	PerMinute int `env:"PER_MINUTE" envDefault:"10"`

	// Burst is the number of attempts allowed back to back.
	Burst int `env:"BURST" envDefault:"5"`
}

// Sanitize applies guardrails to rate limit configuration values.
func (r *RateLimitConfig) Sanitize() {
	if r.PerMinute <= 0 {
		r.PerMinute = 10
	}
	if r.Burst <= 0 {
		r.Burst = 1
	}
}
