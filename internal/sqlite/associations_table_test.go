package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func TestAssociationsTable_Set(t *testing.T) {
	b := attachBackend(t, testConfig(t.TempDir()))
	tbl := getTable(t, b, types.TablePageAssociations)

	a := &types.PageAssociation{SourceID: "root", DestID: "a", AssociationType: types.ChildAssociationType}
	id, err := tbl.Set("", a)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, a.AssociationID)

	tests := []struct {
		name string
		data any
		want error
	}{
		{name: "wrong entity", data: &types.PageType{}, want: types.ErrInvalidData},
		{name: "unknown type", data: &types.PageAssociation{SourceID: "root", DestID: "b", AssociationType: "sibling"}, want: types.ErrInvalidData},
		{name: "missing source", data: &types.PageAssociation{DestID: "b", AssociationType: types.ChildAssociationType}, want: types.ErrInvalidData},
		{name: "missing dest", data: &types.PageAssociation{SourceID: "root", AssociationType: types.ChildAssociationType}, want: types.ErrInvalidData},
		{name: "duplicate edge", data: &types.PageAssociation{SourceID: "root", DestID: "a", AssociationType: types.ChildAssociationType}, want: types.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Set("", tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("update keeps id", func(t *testing.T) {
		a.Order = 5
		got, err := tbl.Set(id, a)
		require.NoError(t, err)
		assert.Equal(t, id, got)

		stored, err := tbl.Get(id)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.(*types.PageAssociation).Order)
	})
}

func TestAssociationsTable_FetchOrder(t *testing.T) {
	b := attachBackend(t, testConfig(t.TempDir()))
	tbl := getTable(t, b, types.TablePageAssociations)

	edges := []struct {
		source, dest string
		order        int
	}{
		{"root", "c", 2},
		{"root", "a", 0},
		{"root", "b", 0},
		{"a", "c", 0},
	}
	for _, e := range edges {
		_, err := tbl.Set("", &types.PageAssociation{
			SourceID: e.source, DestID: e.dest, AssociationType: types.ChildAssociationType, Order: e.order,
		})
		require.NoError(t, err)
	}

	dests := func(filter types.Filter) []string {
		rows, err := tbl.Fetch(filter)
		require.NoError(t, err)
		var out []string
		for _, r := range rows {
			out = append(out, r.(*types.PageAssociation).DestID)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, dests(types.Filter{"source_id": "root"}),
		"sort order first, then creation time")
	assert.Len(t, dests(types.Filter{"dest_id": "c"}), 2)
	assert.Len(t, dests(types.Filter{"association_type": types.ChildAssociationType}), 4)
	assert.Empty(t, dests(types.Filter{"source_id": "nobody"}))

	_, err := tbl.Fetch(types.Filter{"source_id": 1})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestAssociationsTable_Delete(t *testing.T) {
	b := attachBackend(t, testConfig(t.TempDir()))
	tbl := getTable(t, b, types.TablePageAssociations)

	id, err := tbl.Set("", &types.PageAssociation{SourceID: "root", DestID: "a", AssociationType: types.ChildAssociationType})
	require.NoError(t, err)

	require.NoError(t, tbl.Delete(id))
	_, err = tbl.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, tbl.Delete(id), types.ErrNotFound)

	// The edge can be recreated once removed.
	_, err = tbl.Set("", &types.PageAssociation{SourceID: "root", DestID: "a", AssociationType: types.ChildAssociationType})
	assert.NoError(t, err)
}
