package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	"github.com/folioworks/folio/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthAPI       = (*FakeAuthAPI)(nil)
	_ ports.TokenVerifier = (*StubVerifier)(nil)
	_ ports.KVStore       = (*FlakyKV)(nil)
)

// FakeAuthAPI simulates the backend auth endpoints and records submitted credentials.
type FakeAuthAPI struct {
	LoginFunc  func(ctx context.Context, creds ports.LoginCredentials) (ports.LoginResponse, error)
	VerifyFunc func(ctx context.Context, bearer string) (bool, error)

	// Token is returned by Login when LoginFunc is nil.
	Token string

	mu     sync.Mutex
	logins []ports.LoginCredentials
}

// NewFakeAuthAPI returns a FakeAuthAPI that answers every login with token.
func NewFakeAuthAPI(token string) *FakeAuthAPI {
	return &FakeAuthAPI{Token: token}
}

func (f *FakeAuthAPI) Login(ctx context.Context, creds ports.LoginCredentials) (ports.LoginResponse, error) {
	f.mu.Lock()
	f.logins = append(f.logins, creds)
	f.mu.Unlock()

	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, creds)
	}
	return ports.LoginResponse{
		Token: f.Token,
		User:  ports.LoginUser{Email: creds.Email},
	}, nil
}

func (f *FakeAuthAPI) Verify(ctx context.Context, bearer string) (bool, error) {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(ctx, bearer)
	}
	return bearer != "", nil
}

// Logins returns a copy of every credential pair submitted so far.
func (f *FakeAuthAPI) Logins() []ports.LoginCredentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ports.LoginCredentials, len(f.logins))
	copy(out, f.logins)
	return out
}

// StubVerifier returns Err for every token and counts calls.
type StubVerifier struct {
	Err error

	mu    sync.Mutex
	calls int
}

func (s *StubVerifier) Verify(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.Err
}

// Calls returns how many tokens were checked.
func (s *StubVerifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// FlakyKV wraps a KVStore and injects errors per operation.
type FlakyKV struct {
	ports.KVStore

	mu        sync.Mutex
	getErr    error
	setErr    error
	deleteErr error
}

// NewFlakyKV wraps inner.
func NewFlakyKV(inner ports.KVStore) *FlakyKV {
	return &FlakyKV{KVStore: inner}
}

// FailGet makes every Get return err (nil restores normal behavior).
func (f *FlakyKV) FailGet(err error) { f.mu.Lock(); f.getErr = err; f.mu.Unlock() }

// FailSet makes every Set return err (nil restores normal behavior).
func (f *FlakyKV) FailSet(err error) { f.mu.Lock(); f.setErr = err; f.mu.Unlock() }

// FailDelete makes every Delete return err (nil restores normal behavior).
func (f *FlakyKV) FailDelete(err error) { f.mu.Lock(); f.deleteErr = err; f.mu.Unlock() }

func (f *FlakyKV) Get(ctx context.Context, key string) (string, error) {
	f.mu.Lock()
	err := f.getErr
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.KVStore.Get(ctx, key)
}

func (f *FlakyKV) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	err := f.setErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.KVStore.Set(ctx, key, value)
}

func (f *FlakyKV) Delete(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	err := f.deleteErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.KVStore.Delete(ctx, keys...)
}
