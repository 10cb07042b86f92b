package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func TestTemplatesTable_CRUD(t *testing.T) {
	b := attachBackend(t, testConfig(t.TempDir()))
	tbl := getTable(t, b, types.TableTemplates)

	tmpl := &types.TemplateInstance{TemplateID: "main", Title: "Main", TemplateType: "layout"}
	id, err := tbl.Set("", tmpl)
	require.NoError(t, err)
	assert.Equal(t, "main", id)
	assert.False(t, tmpl.CreatedAt.IsZero())

	tmpl.Description = "Site layout"
	_, err = tbl.Set("", tmpl)
	require.NoError(t, err)

	got, err := tbl.Get("main")
	require.NoError(t, err)
	assert.Equal(t, "Site layout", got.(*types.TemplateInstance).Description)

	generated, err := tbl.Set("", &types.TemplateInstance{Title: "Anonymous", TemplateType: "partial"})
	require.NoError(t, err)
	assert.NotEmpty(t, generated)

	rows, err := tbl.Fetch(types.Filter{"template_type": "layout"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "main", rows[0].(*types.TemplateInstance).TemplateID)

	require.NoError(t, tbl.Delete("main"))
	_, err = tbl.Get("main")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete("main"), types.ErrNotFound)

	_, err = tbl.Set("", "not a template")
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestPageTypesTable_CRUD(t *testing.T) {
	b := attachBackend(t, testConfig(t.TempDir()))
	tbl := getTable(t, b, types.TablePageTypes)

	for _, id := range []string{"landing", "article"} {
		_, err := tbl.Set(id, &types.PageType{Title: id})
		require.NoError(t, err)
	}

	got, err := tbl.Get("landing")
	require.NoError(t, err)
	pt := got.(*types.PageType)
	assert.Equal(t, "landing", pt.PageTypeID)
	assert.Equal(t, "landing", pt.Title)

	rows, err := tbl.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "article", rows[0].(*types.PageType).PageTypeID, "ordered by id")

	require.NoError(t, tbl.Delete("article"))
	_, err = tbl.Get("article")
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = tbl.Get("")
	assert.ErrorIs(t, err, types.ErrInvalidID)
}
