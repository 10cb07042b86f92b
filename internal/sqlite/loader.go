package sqlite

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

// StandardLoadOrder is the order tables are loaded and flushed in.
var StandardLoadOrder = []string{
	types.TableTemplates,
	types.TablePageTypes,
	types.TablePages,
	types.TablePageAssociations,
}

// loadAllJSONL reads each table's JSONL file and inserts its records.
// Loading is transactional: all succeed or the database remains empty.
// Malformed lines and records that violate constraints are skipped.
// The caller must hold b.mu.
func (b *Backend) loadAllJSONL() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range StandardLoadOrder {
		t := b.tables[name]
		path := filepath.Join(b.config.DataDir, t.jsonlFile())
		records, err := readJSONL(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", t.jsonlFile(), err)
		}

		skipped := 0
		for _, rec := range records {
			if err := t.load(tx, rec); err != nil {
				skipped++
				b.logger.Warn("skipping JSONL record",
					zap.String("table", name), zap.Error(err))
			}
		}
		b.logger.Debug("loaded JSONL",
			zap.String("table", name),
			zap.Int("records", len(records)-skipped),
			zap.Int("skipped", skipped))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}
