package types

import "errors"

// Config holds backend selection and parameters for Store.Attach, and the
// site settings model objects consult through RequestContext.
type Config struct {
	Backend         string `json:"backend" yaml:"backend"`
	DataDir         string `json:"data_dir" yaml:"data_dir"`
	DefaultFormatID string `json:"default_format_id" yaml:"default_format_id"`
	SyncStrategy    string `json:"sync_strategy,omitempty" yaml:"sync_strategy,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultFormatID is the format id used when Config leaves it empty.
const DefaultFormatID = "html"

// Sync strategies control when JSONL files are written.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// Config validation errors.
var (
	ErrBackendEmpty        = errors.New("backend must not be empty")
	ErrBackendUnknown      = errors.New("unknown backend")
	ErrSyncStrategyUnknown = errors.New("unknown sync strategy")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	switch c.SyncStrategy {
	case "", SyncImmediate, SyncOnClose:
	default:
		return ErrSyncStrategyUnknown
	}
	return nil
}

// FormatID returns the configured default format id, falling back to
// DefaultFormatID.
func (c Config) FormatID() string {
	if c.DefaultFormatID == "" {
		return DefaultFormatID
	}
	return c.DefaultFormatID
}
