// This file implements the templates and page_types table accessors.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

var (
	_ entityTable = (*templatesTable)(nil)
	_ entityTable = (*pageTypesTable)(nil)
)

type templatesTable struct {
	backend *Backend
}

const selectTemplate = "SELECT template_id, title, template_type, description, created_at FROM templates"

func (tt *templatesTable) jsonlFile() string { return "templates.jsonl" }

// Get retrieves a template instance by ID.
func (tt *templatesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	tt.backend.mu.RLock()
	defer tt.backend.mu.RUnlock()

	t, err := scanTemplate(tt.backend.db.QueryRow(selectTemplate+" WHERE template_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting template %s: %w", id, err)
	}
	return t, nil
}

// Set creates or updates a template instance.
func (tt *templatesTable) Set(id string, data any) (string, error) {
	t, ok := data.(*types.TemplateInstance)
	if !ok || t == nil {
		return "", types.ErrInvalidData
	}

	tt.backend.mu.Lock()
	defer tt.backend.mu.Unlock()

	switch {
	case id != "":
		t.TemplateID = id
	case t.TemplateID == "":
		t.TemplateID = generateUUID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	if err := upsertTemplate(tt.backend.db, t, true); err != nil {
		return "", err
	}
	if err := tt.backend.persistLocked(types.TableTemplates); err != nil {
		return "", err
	}
	return t.TemplateID, nil
}

// Delete removes a template instance. Pages that bind it keep the binding;
// it resolves to nothing until the template is recreated.
func (tt *templatesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	tt.backend.mu.Lock()
	defer tt.backend.mu.Unlock()

	res, err := tt.backend.db.Exec("DELETE FROM templates WHERE template_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return tt.backend.persistLocked(types.TableTemplates)
}

// Fetch returns template instances ordered by id.
// Supported filter keys: template_type, limit, offset.
func (tt *templatesTable) Fetch(filter types.Filter) ([]any, error) {
	tt.backend.mu.RLock()
	defer tt.backend.mu.RUnlock()

	ts, err := tt.fetch(filter)
	if err != nil {
		return nil, err
	}
	results := make([]any, 0, len(ts))
	for _, t := range ts {
		results = append(results, t)
	}
	return results, nil
}

func (tt *templatesTable) fetch(filter types.Filter) ([]*types.TemplateInstance, error) {
	var where whereClause
	if err := where.equal(filter, "template_type", "template_type"); err != nil {
		return nil, err
	}
	page, err := pagination(filter)
	if err != nil {
		return nil, err
	}
	rows, err := tt.backend.db.Query(selectTemplate+where.String()+" ORDER BY template_id"+page, where.args...)
	if err != nil {
		return nil, fmt.Errorf("fetching templates: %w", err)
	}
	defer rows.Close()

	var out []*types.TemplateInstance
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating template: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (tt *templatesTable) dump() ([]json.RawMessage, error) {
	ts, err := tt.fetch(nil)
	if err != nil {
		return nil, err
	}
	return marshalRecords(ts)
}

func (tt *templatesTable) load(tx *sql.Tx, raw json.RawMessage) error {
	var t types.TemplateInstance
	if err := json.Unmarshal(raw, &t); err != nil {
		return err
	}
	if t.TemplateID == "" {
		return types.ErrInvalidID
	}
	return upsertTemplate(tx, &t, false)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertTemplate(db execer, t *types.TemplateInstance, upsert bool) error {
	query := `INSERT INTO templates (template_id, title, template_type, description, created_at)
		VALUES (?, ?, ?, ?, ?)`
	if upsert {
		query += `
		ON CONFLICT(template_id) DO UPDATE SET
			title = excluded.title,
			template_type = excluded.template_type,
			description = excluded.description`
	}
	if _, err := db.Exec(query,
		t.TemplateID, t.Title, t.TemplateType, t.Description, formatTime(t.CreatedAt)); err != nil {
		return fmt.Errorf("upserting template: %w", err)
	}
	return nil
}

func scanTemplate(row rowScanner) (*types.TemplateInstance, error) {
	var t types.TemplateInstance
	var title, templateType, desc sql.NullString
	var createdAt string
	if err := row.Scan(&t.TemplateID, &title, &templateType, &desc, &createdAt); err != nil {
		return nil, err
	}
	t.Title, t.TemplateType, t.Description = title.String, templateType.String, desc.String
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

type pageTypesTable struct {
	backend *Backend
}

const selectPageType = "SELECT page_type_id, title, description, created_at FROM page_types"

func (ptt *pageTypesTable) jsonlFile() string { return "page_types.jsonl" }

// Get retrieves a page type by ID.
func (ptt *pageTypesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	ptt.backend.mu.RLock()
	defer ptt.backend.mu.RUnlock()

	pt, err := scanPageType(ptt.backend.db.QueryRow(selectPageType+" WHERE page_type_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting page type %s: %w", id, err)
	}
	return pt, nil
}

// Set creates or updates a page type.
func (ptt *pageTypesTable) Set(id string, data any) (string, error) {
	pt, ok := data.(*types.PageType)
	if !ok || pt == nil {
		return "", types.ErrInvalidData
	}

	ptt.backend.mu.Lock()
	defer ptt.backend.mu.Unlock()

	switch {
	case id != "":
		pt.PageTypeID = id
	case pt.PageTypeID == "":
		pt.PageTypeID = generateUUID()
	}
	if pt.CreatedAt.IsZero() {
		pt.CreatedAt = time.Now().UTC()
	}

	if err := upsertPageType(ptt.backend.db, pt, true); err != nil {
		return "", err
	}
	if err := ptt.backend.persistLocked(types.TablePageTypes); err != nil {
		return "", err
	}
	return pt.PageTypeID, nil
}

// Delete removes a page type. Pages referring to it are left untouched.
func (ptt *pageTypesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	ptt.backend.mu.Lock()
	defer ptt.backend.mu.Unlock()

	res, err := ptt.backend.db.Exec("DELETE FROM page_types WHERE page_type_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting page type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return ptt.backend.persistLocked(types.TablePageTypes)
}

// Fetch returns page types ordered by id. Supported filter keys: limit, offset.
func (ptt *pageTypesTable) Fetch(filter types.Filter) ([]any, error) {
	ptt.backend.mu.RLock()
	defer ptt.backend.mu.RUnlock()

	pts, err := ptt.fetch(filter)
	if err != nil {
		return nil, err
	}
	results := make([]any, 0, len(pts))
	for _, pt := range pts {
		results = append(results, pt)
	}
	return results, nil
}

func (ptt *pageTypesTable) fetch(filter types.Filter) ([]*types.PageType, error) {
	page, err := pagination(filter)
	if err != nil {
		return nil, err
	}
	rows, err := ptt.backend.db.Query(selectPageType + " ORDER BY page_type_id" + page)
	if err != nil {
		return nil, fmt.Errorf("fetching page types: %w", err)
	}
	defer rows.Close()

	var out []*types.PageType
	for rows.Next() {
		pt, err := scanPageType(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating page type: %w", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

func (ptt *pageTypesTable) dump() ([]json.RawMessage, error) {
	pts, err := ptt.fetch(nil)
	if err != nil {
		return nil, err
	}
	return marshalRecords(pts)
}

func (ptt *pageTypesTable) load(tx *sql.Tx, raw json.RawMessage) error {
	var pt types.PageType
	if err := json.Unmarshal(raw, &pt); err != nil {
		return err
	}
	if pt.PageTypeID == "" {
		return types.ErrInvalidID
	}
	return upsertPageType(tx, &pt, false)
}

func upsertPageType(db execer, pt *types.PageType, upsert bool) error {
	query := `INSERT INTO page_types (page_type_id, title, description, created_at) VALUES (?, ?, ?, ?)`
	if upsert {
		query += `
		ON CONFLICT(page_type_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description`
	}
	if _, err := db.Exec(query, pt.PageTypeID, pt.Title, pt.Description, formatTime(pt.CreatedAt)); err != nil {
		return fmt.Errorf("upserting page type: %w", err)
	}
	return nil
}

func scanPageType(row rowScanner) (*types.PageType, error) {
	var pt types.PageType
	var title, desc sql.NullString
	var createdAt string
	if err := row.Scan(&pt.PageTypeID, &title, &desc, &createdAt); err != nil {
		return nil, err
	}
	pt.Title, pt.Description = title.String, desc.String
	var err error
	if pt.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &pt, nil
}

// marshalRecords encodes each entity as one JSONL record.
func marshalRecords[T any](entities []*T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(entities))
	for _, e := range entities {
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}
