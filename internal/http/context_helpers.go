package httpx

import (
	"context"

	domainauth "github.com/folioworks/folio/internal/domain/auth"
	"github.com/folioworks/folio/internal/service"
)

// sessionStoreKey is an unexported context key type to avoid collisions across packages.
type sessionStoreKey struct{}

// WithSessionStore returns a child context that carries the client's session store.
// If store is nil, the original ctx is returned unchanged.
func WithSessionStore(ctx context.Context, store *service.SessionStore) context.Context {
	if store == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

// SessionStoreFrom returns the client's session store and whether one is present.
func SessionStoreFrom(ctx context.Context) (*service.SessionStore, bool) {
	store, ok := ctx.Value(sessionStoreKey{}).(*service.SessionStore)
	return store, ok && store != nil
}

// AccessFrom returns the access flags of the request's client. A request
// without a store is anonymous.
func AccessFrom(ctx context.Context) domainauth.Access {
	store, ok := SessionStoreFrom(ctx)
	if !ok {
		return domainauth.Access{}
	}
	return store.Access()
}
