package ports_test

import (
	"testing"

	"github.com/folioworks/folio/internal/adapters/backend"
	"github.com/folioworks/folio/internal/adapters/boltkv"
	"github.com/folioworks/folio/internal/adapters/memorykv"
	"github.com/folioworks/folio/internal/adapters/postgres"
	redisadapter "github.com/folioworks/folio/internal/adapters/redis"
	"github.com/folioworks/folio/internal/mocks"
	mockauth "github.com/folioworks/folio/internal/mocks/auth"
	"github.com/folioworks/folio/internal/ports"
	"github.com/folioworks/folio/internal/token"
)

// This test only verifies that adapters and mocks conform to the ports at compile time.
func TestImplementationsSatisfyPorts(t *testing.T) {
	t.Helper()

	var _ ports.KVStore = (*memorykv.Store)(nil)
	var _ ports.KVStore = (*boltkv.Store)(nil)
	var _ ports.KVStore = (*redisadapter.KVStore)(nil)
	var _ ports.KVStore = (*postgres.KVStore)(nil)
	var _ ports.KVStore = (*mockauth.FlakyKV)(nil)
	var _ ports.KVStore = (*mocks.MockKVStore)(nil)

	var _ ports.AuthAPI = (*backend.Auth)(nil)
	var _ ports.AuthAPI = (*mockauth.FakeAuthAPI)(nil)
	var _ ports.AuthAPI = (*mocks.MockAuthAPI)(nil)
	var _ ports.ProjectAPI = (*backend.Projects)(nil)
	var _ ports.ProjectAPI = (*mocks.MockProjectAPI)(nil)

	var _ ports.TokenVerifier = (*token.JWKSVerifier)(nil)
	var _ ports.TokenVerifier = (*mockauth.StubVerifier)(nil)
}
