// Package sqlite provides the public API for the SQLite sitemodel backend.
// This package exposes the factory functions for creating SQLite stores and
// models while keeping implementation details internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sitemodel/internal/sqlite"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

// Option configures a backend created by NewBackend.
type Option = sqlite.Option

// Model resolves pages and their references through a Store.
type Model = sqlite.Model

// WithLogger sets the logger used by the backend.
func WithLogger(logger *zap.Logger) Option {
	return sqlite.WithLogger(logger)
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".sitemodel-db",
//	})
//	defer backend.Detach()
func NewBackend(opts ...Option) types.Store {
	return sqlite.NewBackend(opts...)
}

// NewModel returns a Model over an attached store. The returned value is
// also the RequestContext passed to page operations.
func NewModel(store types.Store, cfg types.Config) *Model {
	return sqlite.NewModel(store, cfg)
}
