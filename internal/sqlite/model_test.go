package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func newTestModel(t *testing.T, cfg types.Config) *Model {
	t.Helper()
	return NewModel(attachBackend(t, cfg), cfg)
}

func pageIDs(pages []*types.Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.ID())
	}
	return out
}

func TestModel_ResolvesPageReferences(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.DefaultFormatID = "web"
	m := newTestModel(t, cfg)

	_, err := m.SaveTemplate(&types.TemplateInstance{TemplateID: "t-web", Title: "Web"})
	require.NoError(t, err)
	_, err = m.SaveTemplate(&types.TemplateInstance{TemplateID: "t-print", Title: "Print"})
	require.NoError(t, err)
	_, err = m.SavePageType(&types.PageType{PageTypeID: "landing", Title: "Landing"})
	require.NoError(t, err)

	p := types.NewPage("home", cfg.FormatID())
	p.SetTemplateID("t-web", "web")
	p.SetTemplateID("t-print", "print")
	p.SetTemplateID("t-gone", "pdf")
	p.SetPageTypeID("landing")
	_, err = m.SavePage(p)
	require.NoError(t, err)

	got, err := m.GetPage("home")
	require.NoError(t, err)

	templates, err := got.Templates(m)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "Web", templates["web"].Title)
	assert.Equal(t, "Print", templates["print"].Title)

	tmpl, err := got.Template(m, "")
	require.NoError(t, err)
	require.NotNil(t, tmpl)
	assert.Equal(t, "t-web", tmpl.TemplateID)

	pt, err := got.PageType(m)
	require.NoError(t, err)
	require.NotNil(t, pt)
	assert.Equal(t, "Landing", pt.Title)

	_, err = m.GetPage("missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestModel_ChildPages(t *testing.T) {
	m := newTestModel(t, testConfig(t.TempDir()))

	for _, id := range []string{"root", "a", "b", "c"} {
		_, err := m.SavePage(types.NewPage(id, ""))
		require.NoError(t, err)
	}
	_, err := m.Associate("root", "c", types.ChildAssociationType, 1)
	require.NoError(t, err)
	_, err = m.Associate("root", "a", types.ChildAssociationType, 0)
	require.NoError(t, err)
	_, err = m.Associate("root", "b", types.ChildAssociationType, 0)
	require.NoError(t, err)
	_, err = m.Associate("a", "c", types.ChildAssociationType, 0)
	require.NoError(t, err)
	_, err = m.Associate("root", "ghost", types.ChildAssociationType, 9)
	require.NoError(t, err)

	root, err := m.GetPage("root")
	require.NoError(t, err)

	children, err := root.ChildPages(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, pageIDs(children), "missing destination is skipped")

	leaf, err := m.GetPage("b")
	require.NoError(t, err)
	children, err = leaf.ChildPages(m)
	require.NoError(t, err)
	assert.NotNil(t, children)
	assert.Empty(t, children)

	require.NoError(t, m.DeletePage("c"))
	children, err = root.ChildPages(m)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, pageIDs(children))

	parents, err := m.FindPageAssociations("", "a", "")
	require.NoError(t, err)
	require.Len(t, parents, 1)
	src, err := parents[0].SourcePage(m)
	require.NoError(t, err)
	assert.Equal(t, "root", src.ID())
}

func TestModel_ListAndDelete(t *testing.T) {
	m := newTestModel(t, testConfig(t.TempDir()))

	for _, id := range []string{"a", "b", "c"} {
		_, err := m.SavePage(types.NewPage(id, ""))
		require.NoError(t, err)
	}

	all, err := m.ListPages("", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, pageIDs(all))

	paged, err := m.ListPages("", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, pageIDs(paged))

	generic, err := m.ListPages(types.DefaultPageTypeID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, generic, 3)

	a, err := m.Associate("a", "b", types.ChildAssociationType, 0)
	require.NoError(t, err)
	require.NoError(t, m.DeleteAssociation(a.AssociationID))
	assert.ErrorIs(t, m.DeleteAssociation(a.AssociationID), types.ErrNotFound)

	_, err = m.SaveTemplate(&types.TemplateInstance{TemplateID: "t"})
	require.NoError(t, err)
	templates, err := m.ListTemplates()
	require.NoError(t, err)
	assert.Len(t, templates, 1)

	pageTypes, err := m.ListPageTypes()
	require.NoError(t, err)
	assert.Empty(t, pageTypes)
}

func TestModel_DetachedStore(t *testing.T) {
	cfg := testConfig(t.TempDir())
	b := NewBackend()
	m := NewModel(b, cfg)

	_, err := m.GetPage("home")
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	_, err = m.FindPageAssociations("home", "", types.ChildAssociationType)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	p := types.NewPage("home", "")
	_, err = p.ChildPages(m)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.Equal(t, types.DefaultFormatID, m.Config().FormatID())
}
