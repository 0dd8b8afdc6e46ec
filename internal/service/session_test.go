package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/folioworks/folio/internal/adapters/memorykv"
	domainauth "github.com/folioworks/folio/internal/domain/auth"
	"github.com/folioworks/folio/internal/mocks"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/testutil"
	"github.com/folioworks/folio/internal/token"
)

const testClient = "c-1"

func newTestStore(t *testing.T, kv ports.KVStore) *SessionStore {
	t.Helper()
	store, err := NewSessionStore(SessionStoreOptions{
		ClientID: testClient,
		KV:       kv,
		Decoder:  token.NewDecoder(testutil.FixedTimeFunc(testutil.TestTime())),
		Now:      testutil.FixedTimeFunc(testutil.TestTime()),
	})
	require.NoError(t, err)
	return store
}

func TestNewSessionStore_RequiresDependencies(t *testing.T) {
	_, err := NewSessionStore(SessionStoreOptions{KV: memorykv.New()})
	require.Error(t, err)

	_, err = NewSessionStore(SessionStoreOptions{ClientID: testClient})
	require.Error(t, err)
}

func TestSessionStore_LoginAdmin(t *testing.T) {
	ctx := context.Background()
	kv := memorykv.New()
	store := newTestStore(t, kv)

	raw := testutil.AdminToken(t, testutil.TestTime().Add(time.Hour))
	require.NoError(t, store.Login(ctx, raw))

	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsAdmin())
	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, "admin@example.com", id.Email)
	assert.Equal(t, domainauth.RoleAdmin, id.Role)
	assert.Equal(t, domainauth.Access{Authenticated: true, Admin: true}, store.Access())

	stored, err := kv.Get(ctx, TokenKey(testClient))
	require.NoError(t, err)
	assert.Equal(t, raw, stored)

	bearer, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, raw, bearer)
}

func TestSessionStore_LoginVisitor(t *testing.T) {
	store := newTestStore(t, memorykv.New())
	require.NoError(t, store.Login(context.Background(), testutil.VisitorToken(t, testutil.TestTime().Add(time.Hour))))

	assert.True(t, store.IsAuthenticated())
	assert.False(t, store.IsAdmin())
	assert.Equal(t, domainauth.VisitorLandingPath, domainauth.LandingPath(store.Access()))
}

func TestSessionStore_LoginMalformedTokenBecomesVisitor(t *testing.T) {
	ctx := context.Background()
	kv := memorykv.New()
	store := newTestStore(t, kv)

	require.NoError(t, store.Login(ctx, "not-a-token"))

	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, domainauth.RoleVisitor, id.Role)
	assert.Empty(t, id.Email)
	assert.False(t, store.IsAdmin())

	stored, err := kv.Get(ctx, TokenKey(testClient))
	require.NoError(t, err)
	assert.Equal(t, "not-a-token", stored)
}

func TestSessionStore_LoginWriteFailureLeavesSessionUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKVStore(ctrl)
	kv.EXPECT().Set(gomock.Any(), TokenKey(testClient), gomock.Any()).Return(errors.New("disk full"))

	store := newTestStore(t, kv)
	err := store.Login(context.Background(), testutil.AdminToken(t, testutil.TestTime().Add(time.Hour)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_HydrateNoRecord(t *testing.T) {
	store := newTestStore(t, memorykv.New())
	require.NoError(t, store.Hydrate(context.Background()))
	assert.False(t, store.IsAuthenticated())
	_, ok := store.Identity()
	assert.False(t, ok)
}

func TestSessionStore_HydrateRestoresValidToken(t *testing.T) {
	ctx := context.Background()
	kv := memorykv.New()
	raw := testutil.AdminToken(t, testutil.TestTime().Add(time.Hour))
	require.NoError(t, kv.Set(ctx, TokenKey(testClient), raw))

	store := newTestStore(t, kv)
	require.NoError(t, store.Hydrate(ctx))
	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsAdmin())
}

func TestSessionStore_HydrateClearsStaleRecords(t *testing.T) {
	tests := []struct {
		name string
		raw  func(t *testing.T) string
	}{
		{
			name: "expired",
			raw: func(t *testing.T) string {
				return testutil.AdminToken(t, testutil.TestTime().Add(-time.Minute))
			},
		},
		{
			name: "malformed",
			raw:  func(*testing.T) string { return "garbage" },
		},
		{
			name: "no exp claim",
			raw: func(t *testing.T) string {
				return testutil.MakeToken(t, map[string]any{"email": "a@b.c", "role": "admin"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := memorykv.New()
			require.NoError(t, kv.Set(ctx, TokenKey(testClient), tt.raw(t)))
			require.NoError(t, kv.Set(ctx, LegacyUserKey(testClient), `{"email":"a@b.c"}`))

			store := newTestStore(t, kv)
			require.NoError(t, store.Hydrate(ctx))

			assert.False(t, store.IsAuthenticated())
			_, err := kv.Get(ctx, TokenKey(testClient))
			require.ErrorIs(t, err, ports.ErrNotFound)
			_, err = kv.Get(ctx, LegacyUserKey(testClient))
			require.ErrorIs(t, err, ports.ErrNotFound)
		})
	}
}

func TestSessionStore_HydrateRunsOnce(t *testing.T) {
	ctx := context.Background()
	kv := memorykv.New()
	store := newTestStore(t, kv)
	require.NoError(t, store.Hydrate(ctx))

	// A record written behind the store's back is not picked up again.
	require.NoError(t, kv.Set(ctx, TokenKey(testClient), testutil.AdminToken(t, testutil.TestTime().Add(time.Hour))))
	require.NoError(t, store.Hydrate(ctx))
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_HydrateReadErrorIsRetryable(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKVStore(ctrl)
	raw := testutil.VisitorToken(t, testutil.TestTime().Add(time.Hour))

	gomock.InOrder(
		kv.EXPECT().Get(gomock.Any(), TokenKey(testClient)).Return("", errors.New("connection refused")),
		kv.EXPECT().Get(gomock.Any(), TokenKey(testClient)).Return(raw, nil),
	)

	store := newTestStore(t, kv)
	require.Error(t, store.Hydrate(context.Background()))
	assert.False(t, store.IsAuthenticated())

	require.NoError(t, store.Hydrate(context.Background()))
	assert.True(t, store.IsAuthenticated())
}

func TestSessionStore_HydrateDeleteFailureStillEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKVStore(ctrl)
	kv.EXPECT().Get(gomock.Any(), TokenKey(testClient)).Return("garbage", nil)
	kv.EXPECT().Delete(gomock.Any(), TokenKey(testClient), LegacyUserKey(testClient)).Return(errors.New("read-only"))

	store := newTestStore(t, kv)
	require.NoError(t, store.Hydrate(context.Background()))
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_LogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := memorykv.New()
	store := newTestStore(t, kv)
	require.NoError(t, store.Login(ctx, testutil.AdminToken(t, testutil.TestTime().Add(time.Hour))))
	require.NoError(t, kv.Set(ctx, LegacyUserKey(testClient), "{}"))

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, 0, kv.Len())

	require.NoError(t, store.Logout(ctx))
	assert.False(t, store.IsAuthenticated())

	bearer, err := store.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, bearer)
}

func TestSessionStore_LogoutClearsMemoryWhenDeleteFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := mocks.NewMockKVStore(ctrl)
	kv.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	kv.EXPECT().Delete(gomock.Any(), TokenKey(testClient), LegacyUserKey(testClient)).Return(errors.New("timeout"))

	store := newTestStore(t, kv)
	require.NoError(t, store.Login(context.Background(), testutil.AdminToken(t, testutil.TestTime().Add(time.Hour))))

	require.Error(t, store.Logout(context.Background()))
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_ReloginReplacesIdentity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, memorykv.New())
	require.NoError(t, store.Login(ctx, testutil.AdminToken(t, testutil.TestTime().Add(time.Hour))))
	require.NoError(t, store.Login(ctx, testutil.VisitorToken(t, testutil.TestTime().Add(time.Hour))))

	id, ok := store.Identity()
	require.True(t, ok)
	assert.Equal(t, "visitor@example.com", id.Email)
	assert.False(t, store.IsAdmin())
}

func TestSessionStore_Touch(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store, err := NewSessionStore(SessionStoreOptions{ClientID: testClient, KV: memorykv.New(), Now: clock.Now})
	require.NoError(t, err)
	assert.True(t, store.LastSeen().Equal(testutil.TestTime()))

	clock.AddTime(time.Minute)
	store.Touch()
	assert.True(t, store.LastSeen().Equal(testutil.TestTime().Add(time.Minute)))
}

func TestRecordKeys(t *testing.T) {
	assert.Equal(t, "abc:token", TokenKey("abc"))
	assert.Equal(t, "abc:user", LegacyUserKey("abc"))
}
