// Package mocks provides mock implementations of the ports used by the web client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	kv := mocks.NewMockKVStore(ctrl)
//	kv.EXPECT().Get(gomock.Any(), "client:token").Return("", ports.ErrNotFound)
package mocks

// Generate mock for KVStore interface from internal/ports package.
// This creates MockKVStore with methods for all KVStore interface methods:
// Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=kv_store_mock.go github.com/folioworks/folio/internal/ports KVStore

// Generate mock for AuthAPI interface from internal/ports package.
// This creates MockAuthAPI with methods for all AuthAPI interface methods:
// Login, Verify
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/folioworks/folio/internal/ports AuthAPI

// Generate mock for ProjectAPI interface from internal/ports package.
// This creates MockProjectAPI with methods for all ProjectAPI interface methods:
// List, Get, Create, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=project_api_mock.go github.com/folioworks/folio/internal/ports ProjectAPI
