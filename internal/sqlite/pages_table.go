// This file implements the pages table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/sitemodel/pkg/codec"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

var _ entityTable = (*pagesTable)(nil)

type pagesTable struct {
	backend *Backend
}

const selectPage = "SELECT page_id, type_id, properties, created_at, updated_at FROM pages"

func (pt *pagesTable) jsonlFile() string { return "pages.jsonl" }

// Get retrieves a page by ID, with its template bindings in document order.
func (pt *pagesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()

	rec, err := scanPageRecord(pt.backend.db.QueryRow(selectPage+" WHERE page_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting page %s: %w", id, err)
	}
	if err := pt.loadBindings(rec); err != nil {
		return nil, err
	}
	return rec.Page(pt.backend.config.FormatID()), nil
}

// Set creates or replaces a page and its template bindings. The id
// argument wins over the page's own id; when both are empty a UUID v7 is
// generated and assigned to the page.
func (pt *pagesTable) Set(id string, data any) (string, error) {
	page, ok := data.(*types.Page)
	if !ok || page == nil {
		return "", types.ErrInvalidData
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()

	obj := page.Object()
	switch {
	case id != "":
		obj.ID = id
	case obj.ID == "":
		obj.ID = generateUUID()
	}
	rec := codec.RecordOf(page)

	tx, err := pt.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPageRecord(tx, rec, true); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing page: %w", err)
	}

	if err := pt.backend.persistLocked(types.TablePages); err != nil {
		return "", err
	}
	return obj.ID, nil
}

// Delete removes a page, its template bindings and every association that
// starts or ends at it.
func (pt *pagesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	pt.backend.mu.Lock()
	defer pt.backend.mu.Unlock()

	var exists int
	err := pt.backend.db.QueryRow("SELECT 1 FROM pages WHERE page_id = ?", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return types.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("checking page: %w", err)
	}

	tx, err := pt.backend.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM page_templates WHERE page_id = ?", id); err != nil {
		return fmt.Errorf("deleting page templates: %w", err)
	}
	res, err := tx.Exec("DELETE FROM page_associations WHERE source_id = ? OR dest_id = ?", id, id)
	if err != nil {
		return fmt.Errorf("deleting page associations: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM pages WHERE page_id = ?", id); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing page deletion: %w", err)
	}

	tables := []string{types.TablePages}
	if n, _ := res.RowsAffected(); n > 0 {
		tables = append(tables, types.TablePageAssociations)
	}
	return pt.backend.persistLocked(tables...)
}

// Fetch queries pages ordered by creation time.
// Supported filter keys: page_type_id, limit, offset.
func (pt *pagesTable) Fetch(filter types.Filter) ([]any, error) {
	pt.backend.mu.RLock()
	defer pt.backend.mu.RUnlock()

	recs, err := pt.fetchRecords(filter)
	if err != nil {
		return nil, err
	}
	results := make([]any, 0, len(recs))
	for _, rec := range recs {
		results = append(results, rec.Page(pt.backend.config.FormatID()))
	}
	return results, nil
}

func (pt *pagesTable) fetchRecords(filter types.Filter) ([]*codec.Record, error) {
	var where whereClause
	if err := where.equal(filter, "page_type_id", "page_type_id"); err != nil {
		return nil, err
	}
	page, err := pagination(filter)
	if err != nil {
		return nil, err
	}

	rows, err := pt.backend.db.Query(
		selectPage+where.String()+" ORDER BY created_at, page_id"+page, where.args...)
	if err != nil {
		return nil, fmt.Errorf("fetching pages: %w", err)
	}
	var recs []*codec.Record
	for rows.Next() {
		rec, err := scanPageRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("hydrating page: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	rows.Close()

	for _, rec := range recs {
		if err := pt.loadBindings(rec); err != nil {
			return nil, err
		}
	}
	return recs, nil
}

func (pt *pagesTable) loadBindings(rec *codec.Record) error {
	rows, err := pt.backend.db.Query(
		"SELECT format_id, template_id FROM page_templates WHERE page_id = ? ORDER BY position", rec.ID)
	if err != nil {
		return fmt.Errorf("loading template bindings: %w", err)
	}
	defer rows.Close()

	rec.Templates = []types.TemplateBinding{}
	for rows.Next() {
		var b types.TemplateBinding
		if err := rows.Scan(&b.FormatID, &b.TemplateID); err != nil {
			return fmt.Errorf("scanning template binding: %w", err)
		}
		rec.Templates = append(rec.Templates, b)
	}
	return rows.Err()
}

func (pt *pagesTable) dump() ([]json.RawMessage, error) {
	recs, err := pt.fetchRecords(nil)
	if err != nil {
		return nil, err
	}
	out := make([]json.RawMessage, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("marshaling page %s: %w", rec.ID, err)
		}
		out = append(out, data)
	}
	return out, nil
}

func (pt *pagesTable) load(tx *sql.Tx, raw json.RawMessage) error {
	var rec codec.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return err
	}
	if rec.ID == "" {
		return types.ErrInvalidID
	}
	// Rebuild through Page so stored records get the page defaults.
	return insertPageRecord(tx, codec.RecordOf(rec.Page(pt.backend.config.FormatID())), false)
}

// insertPageRecord writes the page row and replaces its bindings. With
// upsert false an existing row is a constraint error.
func insertPageRecord(tx *sql.Tx, rec codec.Record, upsert bool) error {
	props := rec.Properties
	if props == nil {
		props = map[string]string{}
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshaling page properties: %w", err)
	}

	query := `INSERT INTO pages (page_id, type_id, page_type_id, properties, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if upsert {
		query += `
		ON CONFLICT(page_id) DO UPDATE SET
			type_id = excluded.type_id,
			page_type_id = excluded.page_type_id,
			properties = excluded.properties,
			updated_at = excluded.updated_at`
	}
	if _, err := tx.Exec(query,
		rec.ID, rec.TypeID, props[types.PropPageTypeID], string(propsJSON),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt)); err != nil {
		return fmt.Errorf("upserting page: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM page_templates WHERE page_id = ?", rec.ID); err != nil {
		return fmt.Errorf("clearing template bindings: %w", err)
	}
	for i, b := range rec.Templates {
		if _, err := tx.Exec(
			"INSERT INTO page_templates (page_id, position, format_id, template_id) VALUES (?, ?, ?, ?)",
			rec.ID, i, b.FormatID, b.TemplateID); err != nil {
			return fmt.Errorf("inserting template binding: %w", err)
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPageRecord(row rowScanner) (*codec.Record, error) {
	var rec codec.Record
	var propsJSON, createdAt, updatedAt string
	if err := row.Scan(&rec.ID, &rec.TypeID, &propsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(propsJSON), &rec.Properties); err != nil {
		return nil, fmt.Errorf("parsing page properties: %w", err)
	}
	var err error
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
