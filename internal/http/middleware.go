package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/folioworks/folio/internal/domain/auth"
	obserrors "github.com/folioworks/folio/internal/observability/errors"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.Bool("htmx", IsHTMX(r)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets conservative browser security headers on every response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "same-origin")
			next.ServeHTTP(w, r)
		})
	}
}

// SessionProvider resolves the session store of a browser client.
type SessionProvider interface {
	Get(ctx context.Context, clientID string) (*service.SessionStore, error)
	Fresh(clientID string) (*service.SessionStore, error)
}

// ClientSessionConfig configures the client cookie.
type ClientSessionConfig struct {
	CookieName   string
	CookieDomain string
	MaxAge       time.Duration
	Secure       bool
	Logger       *slog.Logger
}

// ClientSession returns a middleware that identifies the browser client by
// its cookie, issuing a fresh id when the cookie is missing or invalid, and
// places the client's session store in the request context.
//
// A newly issued id gets an empty store that skips hydration and is not
// retained, so clients that never return a cookie cost no storage reads.
// A store that fails to hydrate is still attached: it is empty, so guarded
// routes treat the client as anonymous.
func ClientSession(sessions SessionProvider, cfg ClientSessionConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "folio_client"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				store *service.SessionStore
				err   error
			)
			clientID := clientIDFromCookie(r, cfg.CookieName)
			if clientID == "" {
				clientID = uuid.NewString()
				setClientCookie(w, r, cfg, clientID)
				store, err = sessions.Fresh(clientID)
			} else {
				store, err = sessions.Get(r.Context(), clientID)
			}
			if err != nil {
				logger.WarnContext(r.Context(), "client session unavailable",
					"client_id", clientID,
					"error", err,
					"error_class", obserrors.Classify(err),
				)
			}
			next.ServeHTTP(w, r.WithContext(WithSessionStore(r.Context(), store)))
		})
	}
}

func clientIDFromCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

func setClientCookie(w http.ResponseWriter, r *http.Request, cfg ClientSessionConfig, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    id,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure || r.TLS != nil || isForwardedHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// GuardConfig configures RequireSession.
type GuardConfig struct {
	RequireAdmin bool
	Metrics      metrics.Recorder
	Logger       *slog.Logger
}

// RequireSession returns a middleware that gates a route on the client's
// session. The decision is evaluated on every request from the live store.
// Anonymous clients are sent to the login view; authenticated non-admins
// hitting an admin route are sent to the visitor landing view.
func RequireSession(cfg GuardConfig) func(http.Handler) http.Handler {
	rec := metrics.OrNop(cfg.Metrics)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := domainauth.Decide(AccessFrom(r.Context()), cfg.RequireAdmin)
			rec.RecordGuardDecision(decision.Outcome(), cfg.RequireAdmin)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(r.Context(), "route guard redirect",
				"path", r.URL.Path,
				"target", decision.Redirect,
				"require_admin", cfg.RequireAdmin,
			)
			redirect(w, r, decision.Redirect)
		})
	}
}

// redirect navigates the browser to target. htmx requests get an
// Hx-Redirect so the whole page changes instead of a fragment swap.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
