package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("HTTP.Addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.Backend.URL != DefaultBackendURL {
		t.Errorf("Backend.URL = %q, want %q", cfg.Backend.URL, DefaultBackendURL)
	}
	if cfg.Backend.ErrorMessageExpr != "message" {
		t.Errorf("Backend.ErrorMessageExpr = %q, want message", cfg.Backend.ErrorMessageExpr)
	}
	if cfg.Storage.Driver != StorageBolt {
		t.Errorf("Storage.Driver = %q, want %q", cfg.Storage.Driver, StorageBolt)
	}
	if cfg.Session.CookieName != DefaultClientCookie {
		t.Errorf("Session.CookieName = %q, want %q", cfg.Session.CookieName, DefaultClientCookie)
	}
	if cfg.Token.VerificationEnabled() {
		t.Error("token verification should be disabled by default")
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.PerMinute != 10 || cfg.RateLimit.Burst != 5 {
		t.Errorf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if !cfg.Observability.Metrics.IsEnabled() {
		t.Error("metrics should be enabled by default")
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "https://api.example.com/api/")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("BACKEND_ERROR_MESSAGE_EXPR", "error.detail")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_URI", "redis://cache:6379/0")
	t.Setenv("DB_HOST", "pg")
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("SESSION_IDLE_TTL", "10m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "1m")
	t.Setenv("TOKEN_JWKS_URL", " https://issuer.example.com/jwks.json ")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "3")
	t.Setenv("LOGIN_RATE_BURST", "2")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expectedBackend := BackendConfig{
		URL:              "https://api.example.com/api",
		Timeout:          3 * time.Second,
		ErrorMessageExpr: "error.detail",
	}
	if !reflect.DeepEqual(cfg.Backend, expectedBackend) {
		t.Fatalf("unexpected backend configuration:\nexpected: %#v\ngot:      %#v", expectedBackend, cfg.Backend)
	}
	if cfg.Storage.Driver != StorageRedis {
		t.Errorf("Storage.Driver = %q, want redis", cfg.Storage.Driver)
	}
	if cfg.Storage.Redis.URI != "redis://cache:6379/0" {
		t.Errorf("Storage.Redis.URI = %q", cfg.Storage.Redis.URI)
	}
	if cfg.Storage.Postgres.Host != "pg" || cfg.Storage.Postgres.Port != 5432 {
		t.Errorf("unexpected postgres config: %+v", cfg.Storage.Postgres)
	}
	if cfg.Session.CookieName != "sid" || cfg.Session.IdleTTL != 10*time.Minute || cfg.Session.SweepInterval != time.Minute {
		t.Errorf("unexpected session config: %+v", cfg.Session)
	}
	if cfg.Token.JWKSURL != "https://issuer.example.com/jwks.json" || !cfg.Token.VerificationEnabled() {
		t.Errorf("unexpected token config: %+v", cfg.Token)
	}
	if cfg.RateLimit.PerMinute != 3 || cfg.RateLimit.Burst != 2 {
		t.Errorf("unexpected rate limit config: %+v", cfg.RateLimit)
	}
}

func TestStorageDriver_UnmarshalText(t *testing.T) {
	var d StorageDriver
	if err := d.UnmarshalText([]byte("POSTGRES")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != StoragePostgres {
		t.Errorf("driver = %q, want postgres", d)
	}
	if err := d.UnmarshalText([]byte("mongo")); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestSessionConfig_Sanitize(t *testing.T) {
	cfg := SessionConfig{IdleTTL: time.Second, SweepInterval: time.Hour}
	cfg.Sanitize()

	if cfg.CookieName != DefaultClientCookie {
		t.Errorf("CookieName = %q", cfg.CookieName)
	}
	if cfg.IdleTTL != time.Minute {
		t.Errorf("IdleTTL = %v, want 1m", cfg.IdleTTL)
	}
	if cfg.SweepInterval != 30*time.Second {
		t.Errorf("SweepInterval = %v, want 30s", cfg.SweepInterval)
	}
	if cfg.CookieMaxAge <= 0 {
		t.Error("CookieMaxAge should get a default")
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{CompressionLevel: 42, BaseURL: "HTTPS://folio.example.com"}
	cfg.Sanitize()

	if cfg.CompressionLevel != 9 {
		t.Errorf("CompressionLevel = %d, want 9", cfg.CompressionLevel)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if !cfg.SecureCookies() {
		t.Error("https base URL should enable secure cookies")
	}
	if (HTTPConfig{BaseURL: "http://localhost:8080"}).SecureCookies() {
		t.Error("http base URL should not enable secure cookies")
	}
}

func TestObservabilityMetricsConfig_Sanitize(t *testing.T) {
	tests := []struct {
		name        string
		cfg         ObservabilityMetricsConfig
		wantEnabled bool
		wantPath    string
	}{
		{name: "default", cfg: ObservabilityMetricsConfig{Enabled: true, Path: "/metrics"}, wantEnabled: true, wantPath: "/metrics"},
		{name: "adds slash", cfg: ObservabilityMetricsConfig{Enabled: true, Path: "prom"}, wantEnabled: true, wantPath: "/prom"},
		{name: "blank path disables", cfg: ObservabilityMetricsConfig{Enabled: true, Path: "  "}, wantEnabled: false, wantPath: ""},
		{name: "disabled", cfg: ObservabilityMetricsConfig{Enabled: false, Path: "/metrics"}, wantEnabled: false, wantPath: "/metrics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.Sanitize()
			if cfg.IsEnabled() != tt.wantEnabled {
				t.Errorf("IsEnabled() = %v, want %v", cfg.IsEnabled(), tt.wantEnabled)
			}
			if cfg.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", cfg.Path, tt.wantPath)
			}
		})
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")
	cfg := AppConfig{}
	cfg.Sanitize()
	if !cfg.IsDev {
		t.Error("NODE_ENV=development should enable dev mode")
	}
}
