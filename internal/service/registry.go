package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	obserrors "github.com/folioworks/folio/internal/observability/errors"
	"github.com/folioworks/folio/internal/observability/metrics"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/token"
)

const (
	defaultIdleTTL        = 30 * time.Minute
	defaultHydrateTimeout = 5 * time.Second
)

// SessionRegistryOptions groups dependencies for SessionRegistry.
type SessionRegistryOptions struct {
	KV             ports.KVStore    // Required: durable token record storage
	Decoder        *token.Decoder   // Optional: shared token decoder
	Logger         *slog.Logger     // Optional: structured logger
	Metrics        metrics.Recorder // Optional: metrics recorder
	IdleTTL        time.Duration    // Optional: evict stores unused for this long
	HydrateTimeout time.Duration    // Optional: bound on a single hydrate
	Now            func() time.Time // Optional: clock
}

// SessionRegistry owns the SessionStore of every active browser client.
// Stores are created and hydrated on first access and evicted when idle.
type SessionRegistry struct {
	kv             ports.KVStore
	decoder        *token.Decoder
	logger         *slog.Logger
	rawLogger      *slog.Logger
	metrics        metrics.Recorder
	idleTTL        time.Duration
	hydrateTimeout time.Duration
	now            func() time.Time

	mu     sync.Mutex
	stores map[string]*SessionStore
	group  singleflight.Group
}

// NewSessionRegistry constructs a SessionRegistry.
func NewSessionRegistry(opts SessionRegistryOptions) (*SessionRegistry, error) {
	if opts.KV == nil {
		return nil, errors.New("KVStore is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	decoder := opts.Decoder
	if decoder == nil {
		decoder = token.NewDecoder(opts.Now)
	}
	idle := opts.IdleTTL
	if idle <= 0 {
		idle = defaultIdleTTL
	}
	hydrateTimeout := opts.HydrateTimeout
	if hydrateTimeout <= 0 {
		hydrateTimeout = defaultHydrateTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionRegistry{
		kv:             opts.KV,
		decoder:        decoder,
		logger:         logger.With("component", "session_registry"),
		rawLogger:      logger,
		metrics:        metrics.OrNop(opts.Metrics),
		idleTTL:        idle,
		hydrateTimeout: hydrateTimeout,
		now:            now,
		stores:         make(map[string]*SessionStore),
	}, nil
}

// Get returns the hydrated store for clientID. Concurrent first accesses
// share a single hydrate. When hydration fails the error is returned together
// with a transient empty store that is not cached, so the caller can proceed
// as an anonymous client.
func (r *SessionRegistry) Get(ctx context.Context, clientID string) (*SessionStore, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}

	if store := r.lookup(clientID); store != nil {
		store.Touch()
		return store, nil
	}

	v, err, _ := r.group.Do(clientID, func() (any, error) {
		if store := r.lookup(clientID); store != nil {
			return store, nil
		}
		store, err := r.newStore(clientID)
		if err != nil {
			return nil, err
		}
		// Hydration outlives the request that triggered it; other callers may be waiting.
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.hydrateTimeout)
		defer cancel()
		if err := store.Hydrate(hctx); err != nil {
			return nil, err
		}
		return r.insert(store), nil
	})
	if err != nil {
		r.logger.WarnContext(ctx, "session hydrate failed",
			"client_id", clientID,
			"error", err,
			"error_class", obserrors.Classify(err),
		)
		transient, terr := r.newStore(clientID)
		if terr != nil {
			return nil, terr
		}
		transient.markEmpty()
		return transient, fmt.Errorf("hydrate session: %w", err)
	}

	store, ok := v.(*SessionStore)
	if !ok {
		return nil, errors.New("unexpected session store type")
	}
	store.Touch()
	return store, nil
}

// Fresh returns an empty store for a client id minted on the current request.
// Such an id cannot have a durable record yet, so nothing is read and the
// store is not cached; the client's next request goes through Get.
func (r *SessionRegistry) Fresh(clientID string) (*SessionStore, error) {
	if clientID == "" {
		return nil, errors.New("client ID is required")
	}
	store, err := r.newStore(clientID)
	if err != nil {
		return nil, err
	}
	store.markEmpty()
	return store, nil
}

// Len returns the number of cached stores.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep evicts stores idle for longer than the configured TTL and returns how
// many were removed. Durable records are untouched; the next access re-hydrates.
func (r *SessionRegistry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	removed := 0
	for id, store := range r.stores {
		if store.LastSeen().Before(cutoff) {
			delete(r.stores, id)
			removed++
		}
	}
	n := len(r.stores)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(n)
	return removed
}

// Run sweeps at interval until ctx is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = r.idleTTL / 2
	}
	r.logger.InfoContext(ctx, "starting session sweeper", "interval", interval, "idle_ttl", r.idleTTL)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "session sweeper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 {
				r.logger.DebugContext(ctx, "evicted idle sessions", "count", removed)
			}
		}
	}
}

func (r *SessionRegistry) lookup(clientID string) *SessionStore {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores[clientID]
}

func (r *SessionRegistry) insert(store *SessionStore) *SessionStore {
	r.mu.Lock()
	if existing, ok := r.stores[store.ClientID()]; ok {
		r.mu.Unlock()
		return existing
	}
	r.stores[store.ClientID()] = store
	n := len(r.stores)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(n)
	return store
}

func (r *SessionRegistry) newStore(clientID string) (*SessionStore, error) {
	return NewSessionStore(SessionStoreOptions{
		ClientID: clientID,
		KV:       r.kv,
		Decoder:  r.decoder,
		Logger:   r.rawLogger,
		Metrics:  r.metrics,
		Now:      r.now,
	})
}
