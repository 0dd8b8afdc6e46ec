package httpx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	domainauth "github.com/folioworks/folio/internal/domain/auth"
	apperrors "github.com/folioworks/folio/internal/errors"
	"github.com/folioworks/folio/internal/service"
)

// LoginService is the login flow the auth handlers drive.
type LoginService interface {
	Submit(ctx context.Context, store *service.SessionStore, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context, store *service.SessionStore) error
}

// AuthHandlers provides HTTP handlers for the login form and session status.
type AuthHandlers struct {
	Svc    LoginService
	UI     *UIHandlers
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func loginMeta() PageMeta {
	return PageMeta{Title: "Login", PageTitle: "Login", CurrentPage: PageLogin}
}

// LoginForm renders the login form. A client that is already signed in is
// sent to its landing view instead.
// GET /login.
func (h *AuthHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if access := AccessFrom(r.Context()); access.Authenticated {
		redirect(w, r, domainauth.LandingPath(access))
		return
	}
	h.UI.renderPage(w, r, NewTemplateData(r, loginMeta()).With("Email", "").Build())
}

// LoginSubmit handles the login form post. Inputs are passed through as
// typed; on failure the form is shown again with the backend's message.
// POST /login.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, "", apperrors.Validation("Invalid form submission"))
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	store, ok := SessionStoreFrom(r.Context())
	if !ok {
		h.renderLoginError(w, r, email, apperrors.Internal("Could not start a session"))
		return
	}

	ctx := service.WithRemoteAddr(r.Context(), remoteHost(r))
	res, err := h.Svc.Submit(ctx, store, email, password)
	if err != nil {
		h.logger().InfoContext(r.Context(), "login rejected",
			"client_id", store.ClientID(),
			"code", string(apperrors.GetCode(err)),
		)
		h.renderLoginError(w, r, email, err)
		return
	}
	redirect(w, r, res.Redirect)
}

func (h *AuthHandlers) renderLoginError(w http.ResponseWriter, r *http.Request, email string, err error) {
	status := http.StatusOK
	if apperrors.GetCode(err) == apperrors.ErrCodeRateLimited {
		status = http.StatusTooManyRequests
	}
	data := NewTemplateData(r, loginMeta()).
		WithError(apperrors.UserMessage(err, msgLoginFailed)).
		With("Email", strings.TrimSpace(email)).
		Build()
	h.UI.renderPageStatus(w, r, status, data)
}

// Logout clears the client's session and returns to the home page.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Logout(r.Context(), sessionStore(r)); err != nil {
		// The in-memory session is already gone; only the durable delete failed.
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}
	redirect(w, r, "/")
}

type statusUser struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
	IsAdmin       bool        `json:"is_admin"`
}

// Status returns the client's authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	store, ok := SessionStoreFrom(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Internal("Session unavailable"))
		return
	}
	resp := statusResponse{}
	if id, authed := store.Identity(); authed {
		resp.Authenticated = true
		resp.IsAdmin = id.IsAdmin()
		resp.User = &statusUser{ID: id.ID, Email: id.Email, Name: id.Name, Role: string(id.Role)}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// remoteHost returns the host part of the request's peer address.
func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
