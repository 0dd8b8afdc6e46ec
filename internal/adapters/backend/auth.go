package backend

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/folioworks/folio/internal/errors"
	"github.com/folioworks/folio/internal/ports"
)

var _ ports.AuthAPI = (*Auth)(nil)

// Auth implements ports.AuthAPI against /auth.
type Auth struct {
	client *Client
}

// NewAuth returns the auth endpoints of client.
func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// Login posts the credentials to /auth/login.
func (a *Auth) Login(ctx context.Context, creds ports.LoginCredentials) (ports.LoginResponse, error) {
	var out ports.LoginResponse
	err := a.client.do(ctx, request{
		op:     "auth.login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   creds,
	}, &out)
	if err != nil {
		return ports.LoginResponse{}, err
	}
	return out, nil
}

// Verify asks the backend whether bearer is still accepted. A 401 is a
// negative answer rather than an error.
func (a *Auth) Verify(ctx context.Context, bearer string) (bool, error) {
	err := a.client.do(ctx, request{
		op:     "auth.verify",
		method: http.MethodGet,
		path:   "/auth/verify",
		bearer: bearer,
	}, nil)
	if err == nil {
		return true, nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeUpstream && appErr.Status == http.StatusUnauthorized {
		return false, nil
	}
	return false, err
}
