package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/folio/internal/domain/project"
	apperrors "github.com/folioworks/folio/internal/errors"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/ports"
)

// recorder captures backend metrics.
type recorder struct {
	metrics.Nop
	mu           sync.Mutex
	requests     []string
	unauthorized []string
}

func (r *recorder) RecordBackendRequest(op string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, op+":"+http.StatusText(status))
}

func (r *recorder) RecordBackendUnauthorized(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unauthorized = append(r.unauthorized, op)
}

func newTestClient(t *testing.T, srv *httptest.Server, rec metrics.Recorder) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL: srv.URL + "/api/",
		Timeout: 2 * time.Second,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: rec,
	})
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{BaseURL: "http://x", ErrorMessageExpr: "error.["})
	require.Error(t, err)
}

func TestAuth_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"email": "a@b.c", "pass": "pw"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token":"t.o.k","user":{"email":"a@b.c","role":"admin"}}`)
	}))
	defer srv.Close()

	rec := &recorder{}
	resp, err := NewAuth(newTestClient(t, srv, rec)).Login(context.Background(), ports.LoginCredentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "t.o.k", resp.Token)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, []string{"auth.login:OK"}, rec.requests)
}

func TestClient_ErrorMessageFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
	}))
	defer srv.Close()

	_, err := NewAuth(newTestClient(t, srv, nil)).Login(context.Background(), ports.LoginCredentials{})
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestClient_ErrorMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "<html>oops</html>"},
		{name: "no message", body: `{"error":"x"}`},
		{name: "non-string message", body: `{"message":42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewProjects(newTestClient(t, srv, nil)).List(context.Background(), "")
			require.Error(t, err)
			assert.Equal(t, "Error 500", apperrors.UserMessage(err, ""))
		})
	}
}

func TestClient_CustomErrorExpression(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"error":{"detail":"Duplicate title"}}`)
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, ErrorMessageExpr: "error.detail"})
	require.NoError(t, err)
	_, err = NewProjects(c).Create(context.Background(), "tok", project.CreateRequest{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "Duplicate title", apperrors.UserMessage(err, ""))
}

func TestClient_UnauthorizedIsLoggedNotFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Token expired"}`)
	}))
	defer srv.Close()

	rec := &recorder{}
	_, err := NewProjects(newTestClient(t, srv, rec)).List(context.Background(), "old")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, "Token expired", apperrors.UserMessage(err, ""))
	assert.Equal(t, []string{"projects.list"}, rec.unauthorized)
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &recorder{}
	c, err := New(Options{BaseURL: url, Metrics: rec})
	require.NoError(t, err)
	_, err = NewProjects(c).List(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
	assert.Equal(t, msgUnreachable, apperrors.UserMessage(err, ""))
	assert.Len(t, rec.requests, 1)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)
	_, err = NewProjects(c).List(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}
