// Package sqlite implements the SQLite storage backend for sitemodel.
// JSONL files in the data directory are the source of truth; SQLite is the
// query engine, rebuilt from the JSONL files on every Attach.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

const dbFileName = "sitemodel.db"

// entityTable is a types.Table that owns one JSONL file.
type entityTable interface {
	types.Table

	// jsonlFile is the file name of the table's JSONL source of truth.
	jsonlFile() string

	// dump returns every row of the table as JSONL records, in fetch order.
	// The caller must hold the backend lock.
	dump() ([]json.RawMessage, error)

	// load inserts one JSONL record inside the startup transaction.
	load(tx *sql.Tx, rec json.RawMessage) error
}

// Backend implements the Store interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]entityTable
	logger   *zap.Logger

	// Tables with writes not yet persisted to JSONL (on_close strategy).
	pending map[string]bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used by the backend.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backend) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		tables:  make(map[string]entityTable),
		logger:  zap.NewNop(),
		pending: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Config returns the configuration the backend was attached with.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, initializes the SQLite schema,
// creates table accessors and loads the JSONL files.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	config.DataDir = dataDir

	// The database is a cache of the JSONL files; start from a fresh schema.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.pending = make(map[string]bool)

	b.tables = map[string]entityTable{
		types.TablePages:            &pagesTable{backend: b},
		types.TableTemplates:        &templatesTable{backend: b},
		types.TablePageTypes:        &pageTypesTable{backend: b},
		types.TablePageAssociations: &associationsTable{backend: b},
	}

	if err := b.initJSONLFiles(); err != nil {
		b.closeLocked()
		return err
	}

	if err := b.loadAllJSONL(); err != nil {
		b.closeLocked()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.attached = true
	b.logger.Info("store attached",
		zap.String("data_dir", dataDir),
		zap.String("sync_strategy", b.syncStrategy()))
	return nil
}

// Detach releases all resources held by the backend.
// Pending JSONL writes are flushed first. After Detach, GetTable returns
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if err := b.flushPendingLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}

	if err := b.closeLocked(); err != nil {
		return err
	}
	b.attached = false
	b.logger.Info("store detached", zap.String("data_dir", b.config.DataDir))
	return nil
}

func (b *Backend) closeLocked() error {
	b.tables = make(map[string]entityTable)
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

func (b *Backend) syncStrategy() string {
	if b.config.SyncStrategy == "" {
		return types.SyncImmediate
	}
	return b.config.SyncStrategy
}

// persistLocked writes the JSONL files of the named tables, or marks them
// pending under the on_close strategy. The caller must hold b.mu.
func (b *Backend) persistLocked(names ...string) error {
	for _, name := range names {
		if b.syncStrategy() == types.SyncOnClose {
			b.pending[name] = true
			continue
		}
		if err := b.writeTableJSONL(name); err != nil {
			return err
		}
	}
	return nil
}

// flushPendingLocked writes every pending table. The caller must hold b.mu.
func (b *Backend) flushPendingLocked() error {
	for _, name := range StandardLoadOrder {
		if !b.pending[name] {
			continue
		}
		if err := b.writeTableJSONL(name); err != nil {
			return err
		}
		delete(b.pending, name)
	}
	return nil
}

func (b *Backend) writeTableJSONL(name string) error {
	t, ok := b.tables[name]
	if !ok {
		return types.ErrTableNotFound
	}
	records, err := t.dump()
	if err != nil {
		return fmt.Errorf("dumping %s: %w", name, err)
	}
	path := filepath.Join(b.config.DataDir, t.jsonlFile())
	if err := writeJSONL(path, records); err != nil {
		b.logger.Error("persisting JSONL failed", zap.String("table", name), zap.Error(err))
		return fmt.Errorf("persisting %s: %w", t.jsonlFile(), err)
	}
	b.logger.Debug("persisted JSONL", zap.String("table", name), zap.Int("records", len(records)))
	return nil
}

// initJSONLFiles creates empty JSONL files for tables that have none.
func (b *Backend) initJSONLFiles() error {
	for _, t := range b.tables {
		path := filepath.Join(b.config.DataDir, t.jsonlFile())
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
