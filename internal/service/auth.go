package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainauth "github.com/folioworks/folio/internal/domain/auth"
	apperrors "github.com/folioworks/folio/internal/errors"
	obserrors "github.com/folioworks/folio/internal/observability/errors"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/ports"
)

const (
	defaultLoginTimeout = 15 * time.Second

	msgLoginFailed  = "Login failed"
	msgLoginLimited = "Too many login attempts. Please wait a minute and try again."
)

// LoginServiceOptions groups dependencies for LoginService.
type LoginServiceOptions struct {
	Auth     ports.AuthAPI       // Required: backend auth endpoints
	Verifier ports.TokenVerifier // Optional: signature check applied to fresh tokens
	Limiter  *LoginLimiter       // Optional: throttling per remote address
	Timeout  time.Duration       // Optional: bound on a submission; defaults to 15s
	Logger   *slog.Logger        // Optional: structured logger
	Metrics  metrics.Recorder    // Optional: metrics recorder
}

// LoginService runs the login form flow: credentials go to the backend and
// the returned Credential Token is committed to the client's session.
type LoginService struct {
	auth     ports.AuthAPI
	verifier ports.TokenVerifier
	limiter  *LoginLimiter
	timeout  time.Duration
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewLoginService constructs a new LoginService.
func NewLoginService(opts LoginServiceOptions) (*LoginService, error) {
	if opts.Auth == nil {
		return nil, errors.New("AuthAPI is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultLoginTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{
		auth:     opts.Auth,
		verifier: opts.Verifier,
		limiter:  opts.Limiter,
		timeout:  timeout,
		logger:   logger.With("component", "login_service"),
		metrics:  metrics.OrNop(opts.Metrics),
	}, nil
}

// LoginResult contains the outcome of a successful submission.
type LoginResult struct {
	Identity domainauth.Identity
	Redirect string
}

// Submit sends the credentials to the backend and, on success, logs the
// client in. Email and password are forwarded as entered. On any failure the
// session is left untouched and the returned error carries a message fit for
// the form.
//
// The submission is detached from ctx cancellation: once started it runs to
// completion or until the login timeout.
func (s *LoginService) Submit(ctx context.Context, store *SessionStore, email, password string) (*LoginResult, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if key := limiterKey(ctx, store); s.limiter != nil && !s.limiter.Allow(key) {
		s.metrics.RecordLogin(metrics.ResultRateLimited)
		s.logger.WarnContext(ctx, "login rate limited", "client_id", store.ClientID(), "limiter_key", key)
		return nil, apperrors.RateLimited(msgLoginLimited)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	resp, err := s.auth.Login(ctx, ports.LoginCredentials{Email: email, Password: password})
	if err != nil {
		s.fail(ctx, store, metrics.ResultError, err)
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, msgLoginFailed)
	}
	if resp.Token == "" {
		err := apperrors.Upstream(0, msgLoginFailed)
		s.fail(ctx, store, metrics.ResultError, errors.New("backend returned no token"))
		return nil, err
	}

	if s.verifier != nil {
		if verr := s.verifier.Verify(ctx, resp.Token); verr != nil {
			s.fail(ctx, store, metrics.ResultRejected, verr)
			return nil, apperrors.Wrap(verr, apperrors.ErrCodeUnauthorized, msgLoginFailed)
		}
	}

	if lerr := store.Login(ctx, resp.Token); lerr != nil {
		s.fail(ctx, store, metrics.ResultError, lerr)
		return nil, apperrors.Wrap(lerr, apperrors.ErrCodeInternal, msgLoginFailed)
	}

	id, _ := store.Identity()
	s.metrics.RecordLogin(metrics.ResultSuccess)
	s.logger.InfoContext(ctx, "login succeeded",
		"client_id", store.ClientID(),
		"role", string(id.Role),
	)
	return &LoginResult{
		Identity: id,
		Redirect: domainauth.LandingPath(store.Access()),
	}, nil
}

// Logout ends the client's session.
func (s *LoginService) Logout(ctx context.Context, store *SessionStore) error {
	if store == nil {
		return nil
	}
	if err := store.Logout(ctx); err != nil {
		s.logger.WarnContext(ctx, "logout could not delete token record",
			"client_id", store.ClientID(),
			"error", err,
			"error_class", obserrors.Classify(err),
		)
		return err
	}
	return nil
}

func (s *LoginService) fail(ctx context.Context, store *SessionStore, result string, err error) {
	s.metrics.RecordLogin(result)
	s.logger.WarnContext(ctx, "login failed",
		"client_id", store.ClientID(),
		"result", result,
		"error", err,
		"error_class", obserrors.Classify(err),
	)
}
