package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/folioworks/folio/internal/domain/auth"
	obserrors "github.com/folioworks/folio/internal/observability/errors"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/token"
)

// Durable record key suffixes. The user key is a leftover from an earlier
// layout that cached the identity next to the token; it is only ever deleted.
const (
	tokenKeySuffix = ":token"
	userKeySuffix  = ":user"
)

// TokenKey returns the durable key holding clientID's Credential Token.
func TokenKey(clientID string) string { return clientID + tokenKeySuffix }

// LegacyUserKey returns the durable key of clientID's legacy identity record.
func LegacyUserKey(clientID string) string { return clientID + userKeySuffix }

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	ClientID string           // Required: owning browser client
	KV       ports.KVStore    // Required: durable token record storage
	Decoder  *token.Decoder   // Optional: defaults to the wall clock decoder
	Logger   *slog.Logger     // Optional: structured logger
	Metrics  metrics.Recorder // Optional: metrics recorder
	Now      func() time.Time // Optional: clock for idle tracking
}

// SessionStore holds one client's session and mirrors its Credential Token
// into the durable store. Hydrate, Login and Logout are the only mutators.
type SessionStore struct {
	clientID string
	kv       ports.KVStore
	decoder  *token.Decoder
	logger   *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time

	mu       sync.RWMutex
	identity *domainauth.Identity
	hydrated bool

	lastSeen atomic.Int64
}

// NewSessionStore constructs a SessionStore. The store starts empty; call Hydrate.
func NewSessionStore(opts SessionStoreOptions) (*SessionStore, error) {
	if opts.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if opts.KV == nil {
		return nil, errors.New("KVStore is required")
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = token.NewDecoder(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &SessionStore{
		clientID: opts.ClientID,
		kv:       opts.KV,
		decoder:  decoder,
		logger:   logger.With("component", "session_store"),
		metrics:  metrics.OrNop(opts.Metrics),
		now:      now,
	}
	s.Touch()
	return s, nil
}

// ClientID returns the owning client identifier.
func (s *SessionStore) ClientID() string { return s.clientID }

// Hydrate restores the session from the durable record. It runs once; later
// calls are no-ops. An undecodable or expired record is deleted and the
// session stays empty. Read errors are returned and leave the store
// unhydrated so a later call can retry.
func (s *SessionStore) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hydrated {
		return nil
	}

	raw, err := s.kv.Get(ctx, TokenKey(s.clientID))
	if errors.Is(err, ports.ErrNotFound) {
		s.hydrated = true
		s.metrics.RecordHydrate(metrics.HydrateEmpty)
		return nil
	}
	if err != nil {
		s.metrics.RecordHydrate(metrics.HydrateError)
		return fmt.Errorf("read token record: %w", err)
	}

	claims, decodeErr := s.decoder.Decode(raw)
	if decodeErr != nil || s.decoder.ClaimsExpired(claims) {
		s.logger.InfoContext(ctx, "discarding stored token",
			"client_id", s.clientID,
			"malformed", decodeErr != nil,
		)
		if delErr := s.kv.Delete(ctx, TokenKey(s.clientID), LegacyUserKey(s.clientID)); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete stale token record",
				"client_id", s.clientID,
				"error", delErr,
				"error_class", obserrors.Classify(delErr),
			)
		}
		s.hydrated = true
		s.metrics.RecordHydrate(metrics.HydrateCleared)
		return nil
	}

	id := claims.Identity()
	s.identity = &id
	s.hydrated = true
	s.metrics.RecordHydrate(metrics.HydrateRestored)
	return nil
}

// Login persists raw and sets the session from its claims. A token whose
// claims cannot be decoded still authenticates the client as a visitor with
// no email. If the durable write fails the session is left unchanged.
func (s *SessionStore) Login(ctx context.Context, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Set(ctx, TokenKey(s.clientID), raw); err != nil {
		return fmt.Errorf("write token record: %w", err)
	}

	var id domainauth.Identity
	claims, err := s.decoder.Decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "login token could not be decoded",
			"client_id", s.clientID,
			"error", err,
		)
		id = domainauth.Identity{Role: domainauth.RoleVisitor}
	} else {
		id = claims.Identity()
	}

	s.identity = &id
	s.hydrated = true
	return nil
}

// Logout clears the session and deletes the durable records. It is idempotent.
// The in-memory session is cleared even when the delete fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.hydrated = true
	if err := s.kv.Delete(ctx, TokenKey(s.clientID), LegacyUserKey(s.clientID)); err != nil {
		return fmt.Errorf("delete token record: %w", err)
	}
	return nil
}

// IsAuthenticated reports whether the session holds an identity.
func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// IsAdmin reports whether the session identity has the admin role.
func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.identity.IsAdmin()
}

// Identity returns a copy of the session identity and whether one is set.
func (s *SessionStore) Identity() (domainauth.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domainauth.Identity{}, false
	}
	return *s.identity, true
}

// Access returns the flags consulted by the route guard.
func (s *SessionStore) Access() domainauth.Access {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domainauth.Access{}
	}
	return domainauth.Access{Authenticated: true, Admin: s.identity.IsAdmin()}
}

// Token reads the durable Credential Token. It returns "" when none is stored.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	raw, err := s.kv.Get(ctx, TokenKey(s.clientID))
	if errors.Is(err, ports.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token record: %w", err)
	}
	return raw, nil
}

// markEmpty settles the store as hydrated with no session.
func (s *SessionStore) markEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.hydrated = true
}

// Touch marks the store as used now.
func (s *SessionStore) Touch() {
	s.lastSeen.Store(s.now().UnixNano())
}

// LastSeen returns when the store was last used.
func (s *SessionStore) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}
