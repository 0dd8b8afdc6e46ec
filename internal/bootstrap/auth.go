package bootstrap

import (
	"context"
	"log/slog"

	"github.com/folioworks/folio/config"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/token"
)

// TokenVerifierConfig contains configuration for login token verification.
type TokenVerifierConfig struct {
	Token  config.TokenConfig
	Logger *slog.Logger
}

// BuildTokenVerifier returns a JWKS-backed verifier when a key set URL is
// configured. Returns nil when verification is disabled or cannot be set up;
// tokens are then trusted as issued by the backend.
//
//nolint:ireturn // a nil interface disables verification in the login service.
func BuildTokenVerifier(ctx context.Context, cfg TokenVerifierConfig) ports.TokenVerifier {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Token.VerificationEnabled() {
		logger.Info("token signature verification disabled; trusting backend-issued tokens")
		return nil
	}

	verifier, err := token.NewJWKSVerifier(ctx, cfg.Token.JWKSURL, nil)
	if err != nil {
		logger.Warn("failed to create JWKS verifier, verification disabled", "error", err)
		return nil
	}
	logger.Info("token signature verification enabled", "jwks_url", cfg.Token.JWKSURL)
	return verifier
}
