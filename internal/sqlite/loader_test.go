// Unit tests for JSONL loading with forward compatibility.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func countRows(t *testing.T, b *Backend, table string) int {
	t.Helper()
	var n int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestLoadJSONLUnknownFields(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		jsonl    string
		table    string
		wantRows int
		checkSQL string
		checkVal string
	}{
		{
			name:     "pages with unknown fields load successfully",
			file:     "pages.jsonl",
			jsonl:    `{"id":"home","type_id":"page","properties":{"title":"Home","page-type-id":"landing"},"templates":[{"template_id":"t1"}],"created_at":"2025-01-15T10:30:00Z","updated_at":"2025-01-15T10:30:00Z","future_field":"unknown"}` + "\n",
			table:    "pages",
			wantRows: 1,
			checkSQL: "SELECT page_type_id FROM pages WHERE page_id = 'home'",
			checkVal: "landing",
		},
		{
			name:     "templates with unknown fields load successfully",
			file:     "templates.jsonl",
			jsonl:    `{"template_id":"t1","title":"Main","template_type":"layout","description":"","created_at":"2025-01-15T10:30:00Z","engine":"v2"}` + "\n",
			table:    "templates",
			wantRows: 1,
			checkSQL: "SELECT template_type FROM templates WHERE template_id = 't1'",
			checkVal: "layout",
		},
		{
			name:     "page types with unknown fields load successfully",
			file:     "page_types.jsonl",
			jsonl:    `{"page_type_id":"landing","title":"Landing","description":"","created_at":"2025-01-15T10:30:00Z","icon":"rocket"}` + "\n",
			table:    "page_types",
			wantRows: 1,
			checkSQL: "SELECT title FROM page_types WHERE page_type_id = 'landing'",
			checkVal: "Landing",
		},
		{
			name:     "associations with unknown fields load successfully",
			file:     "page_associations.jsonl",
			jsonl:    `{"association_id":"a1","source_id":"home","dest_id":"about","association_type":"child","order":2,"created_at":"2025-01-15T10:30:00Z","weight":0.5}` + "\n",
			table:    "page_associations",
			wantRows: 1,
			checkSQL: "SELECT dest_id FROM page_associations WHERE association_id = 'a1'",
			checkVal: "about",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFixture(t, tmpDir, tt.file, tt.jsonl)

			b := attachBackend(t, testConfig(tmpDir))
			assert.Equal(t, tt.wantRows, countRows(t, b, tt.table))

			var got string
			require.NoError(t, b.db.QueryRow(tt.checkSQL).Scan(&got))
			assert.Equal(t, tt.checkVal, got)
		})
	}
}

func TestLoadJSONLSkipsInvalidRecords(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "page_associations.jsonl",
		`{"association_id":"a1","source_id":"home","dest_id":"about","association_type":"child","created_at":"2025-01-15T10:30:00Z"}
{"association_id":"a2","source_id":"home","dest_id":"about","association_type":"child","created_at":"2025-01-15T10:31:00Z"}
{"association_id":"a3","source_id":"home","dest_id":"blog","association_type":"sibling","created_at":"2025-01-15T10:32:00Z"}
{"association_id":"","source_id":"home","dest_id":"blog","association_type":"child","created_at":"2025-01-15T10:33:00Z"}
{not json
{"association_id":"a5","source_id":"home","dest_id":"blog","association_type":"child","created_at":"2025-01-15T10:34:00Z"}
`)

	b := attachBackend(t, testConfig(tmpDir))

	rows, err := getTable(t, b, types.TablePageAssociations).Fetch(nil)
	require.NoError(t, err)
	var ids []string
	for _, r := range rows {
		ids = append(ids, r.(*types.PageAssociation).AssociationID)
	}
	assert.Equal(t, []string{"a1", "a5"}, ids,
		"duplicate edge, unknown type, empty id and malformed line are skipped")
}

func TestLoadJSONLPageDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "pages.jsonl",
		`{"id":"bare","created_at":"2025-01-15T10:30:00Z","updated_at":"2025-01-15T10:30:00Z"}`+"\n")

	b := attachBackend(t, testConfig(tmpDir))

	got, err := getTable(t, b, types.TablePages).Get("bare")
	require.NoError(t, err)
	p := got.(*types.Page)
	assert.Equal(t, types.PageTypeID, p.TypeID())
	assert.Equal(t, types.DefaultPageTypeID, p.PageTypeID())
	assert.Empty(t, p.TemplateBindings())
}

func TestLoadJSONLEmptyAndMissingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFixture(t, tmpDir, "pages.jsonl", "")

	b := attachBackend(t, testConfig(tmpDir))
	for _, name := range types.StandardTableNames {
		assert.Zero(t, countRows(t, b, name), name)
	}
}
