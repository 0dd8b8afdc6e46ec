package ports

// Package ports defines interfaces (hexagonal ports) for session and backend behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	"github.com/folioworks/folio/internal/domain/project"
)

// ErrNotFound is returned by KVStore.Get when the key holds no value.
var ErrNotFound = errors.New("record not found")

// KVStore is the durable key-value store that survives process restarts.
// Reads and writes are synchronous and atomic per key.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the given keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// LoginCredentials is the body of POST /auth/login.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"pass"`
}

// LoginUser is the user echo returned alongside a fresh token.
type LoginUser struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse is the backend's reply to a successful login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// AuthAPI is the external Auth collaborator.
type AuthAPI interface {
	Login(ctx context.Context, creds LoginCredentials) (LoginResponse, error)
	Verify(ctx context.Context, bearer string) (bool, error)
}

// ProjectAPI is the external Project collaborator. bearer may be empty.
type ProjectAPI interface {
	List(ctx context.Context, bearer string) ([]project.Project, error)
	Get(ctx context.Context, bearer, id string) (project.Project, error)
	Create(ctx context.Context, bearer string, req project.CreateRequest) (project.Project, error)
	Delete(ctx context.Context, bearer, id string) (string, error)
}

// TokenVerifier checks a Credential Token signature.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) error
}
