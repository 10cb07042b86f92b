// This file implements the page_associations table accessor for the SQLite
// backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

var _ entityTable = (*associationsTable)(nil)

type associationsTable struct {
	backend *Backend
}

const selectAssociation = `SELECT association_id, source_id, dest_id, association_type, sort_order, created_at
	FROM page_associations`

func (at *associationsTable) jsonlFile() string { return "page_associations.jsonl" }

// Get retrieves an association by ID.
func (at *associationsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()

	a, err := scanAssociation(at.backend.db.QueryRow(selectAssociation+" WHERE association_id = ?", id))
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting association %s: %w", id, err)
	}
	return a, nil
}

// Set persists an association. If id is empty, generates a UUID v7 and
// creates the association; otherwise updates it. Validates the association
// type and enforces uniqueness of (association_type, source_id, dest_id).
// The endpoints are not required to exist.
func (at *associationsTable) Set(id string, data any) (string, error) {
	a, ok := data.(*types.PageAssociation)
	if !ok || a == nil {
		return "", types.ErrInvalidData
	}
	if !types.ValidAssociationType(a.AssociationType) {
		return "", types.ErrInvalidData
	}
	if a.SourceID == "" || a.DestID == "" {
		return "", types.ErrInvalidData
	}

	at.backend.mu.Lock()
	defer at.backend.mu.Unlock()

	if id == "" {
		id = a.AssociationID
	}
	if id == "" {
		id = generateUUID()
	}
	a.AssociationID = id
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	var dupID string
	err := at.backend.db.QueryRow(
		`SELECT association_id FROM page_associations
		WHERE association_type = ? AND source_id = ? AND dest_id = ? AND association_id != ?`,
		a.AssociationType, a.SourceID, a.DestID, id,
	).Scan(&dupID)
	if err == nil {
		return "", types.ErrDuplicate
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("checking association uniqueness: %w", err)
	}

	tx, err := at.backend.db.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAssociation(tx, a, true); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing association: %w", err)
	}

	if err := at.backend.persistLocked(types.TablePageAssociations); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes an association by ID.
func (at *associationsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	at.backend.mu.Lock()
	defer at.backend.mu.Unlock()

	res, err := at.backend.db.Exec("DELETE FROM page_associations WHERE association_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting association: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return types.ErrNotFound
	}
	return at.backend.persistLocked(types.TablePageAssociations)
}

// Fetch queries associations ordered by sort order, then creation time.
// Supported filter keys: source_id, dest_id, association_type, limit, offset.
func (at *associationsTable) Fetch(filter types.Filter) ([]any, error) {
	at.backend.mu.RLock()
	defer at.backend.mu.RUnlock()

	as, err := at.fetch(filter)
	if err != nil {
		return nil, err
	}
	results := make([]any, 0, len(as))
	for _, a := range as {
		results = append(results, a)
	}
	return results, nil
}

func (at *associationsTable) fetch(filter types.Filter) ([]*types.PageAssociation, error) {
	var where whereClause
	for _, key := range []string{"source_id", "dest_id", "association_type"} {
		if err := where.equal(filter, key, key); err != nil {
			return nil, err
		}
	}
	page, err := pagination(filter)
	if err != nil {
		return nil, err
	}

	rows, err := at.backend.db.Query(
		selectAssociation+where.String()+" ORDER BY sort_order, created_at, association_id"+page,
		where.args...)
	if err != nil {
		return nil, fmt.Errorf("fetching associations: %w", err)
	}
	defer rows.Close()

	var out []*types.PageAssociation
	for rows.Next() {
		a, err := scanAssociation(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating association: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating associations: %w", err)
	}
	return out, nil
}

func (at *associationsTable) dump() ([]json.RawMessage, error) {
	as, err := at.fetch(nil)
	if err != nil {
		return nil, err
	}
	return marshalRecords(as)
}

func (at *associationsTable) load(tx *sql.Tx, raw json.RawMessage) error {
	var a types.PageAssociation
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	if a.AssociationID == "" {
		return types.ErrInvalidID
	}
	if !types.ValidAssociationType(a.AssociationType) || a.SourceID == "" || a.DestID == "" {
		return types.ErrInvalidData
	}
	return insertAssociation(tx, &a, false)
}

func insertAssociation(db execer, a *types.PageAssociation, upsert bool) error {
	query := `INSERT INTO page_associations
		(association_id, source_id, dest_id, association_type, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	if upsert {
		query += `
		ON CONFLICT(association_id) DO UPDATE SET
			source_id = excluded.source_id,
			dest_id = excluded.dest_id,
			association_type = excluded.association_type,
			sort_order = excluded.sort_order`
	}
	if _, err := db.Exec(query,
		a.AssociationID, a.SourceID, a.DestID, a.AssociationType, a.Order,
		formatTime(a.CreatedAt)); err != nil {
		return fmt.Errorf("persisting association: %w", err)
	}
	return nil
}

func scanAssociation(row rowScanner) (*types.PageAssociation, error) {
	var a types.PageAssociation
	var createdAt string
	if err := row.Scan(&a.AssociationID, &a.SourceID, &a.DestID, &a.AssociationType,
		&a.Order, &createdAt); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}
