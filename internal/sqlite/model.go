package sqlite

import (
	"fmt"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

var (
	_ types.Model          = (*Model)(nil)
	_ types.RequestContext = (*Model)(nil)
)

// Model resolves pages, templates, page types and associations through the
// tables of an attached Store. It also serves as the RequestContext handed
// to page operations.
type Model struct {
	store types.Store
	cfg   types.Config
}

// NewModel returns a Model reading from store under cfg.
func NewModel(store types.Store, cfg types.Config) *Model {
	return &Model{store: store, cfg: cfg}
}

// Model returns m.
func (m *Model) Model() types.Model { return m }

// Config returns the configuration in effect.
func (m *Model) Config() types.Config { return m.cfg }

func (m *Model) table(name string) (types.Table, error) {
	t, err := m.store.GetTable(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	return t, nil
}

// getEntity fetches id from the named table and asserts its type.
func getEntity[T any](m *Model, table, id string) (*T, error) {
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	v, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	e, ok := v.(*T)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected entity %T", table, v)
	}
	return e, nil
}

// GetPage returns the page with the given id.
func (m *Model) GetPage(id string) (*types.Page, error) {
	return getEntity[types.Page](m, types.TablePages, id)
}

// GetTemplate returns the template instance with the given id.
func (m *Model) GetTemplate(id string) (*types.TemplateInstance, error) {
	return getEntity[types.TemplateInstance](m, types.TableTemplates, id)
}

// GetPageType returns the page type with the given id.
func (m *Model) GetPageType(id string) (*types.PageType, error) {
	return getEntity[types.PageType](m, types.TablePageTypes, id)
}

// FindPageAssociations returns associations matching the arguments, in
// sibling order. An empty argument matches any value.
func (m *Model) FindPageAssociations(sourceID, destID, associationType string) ([]*types.PageAssociation, error) {
	filter := types.Filter{}
	if sourceID != "" {
		filter["source_id"] = sourceID
	}
	if destID != "" {
		filter["dest_id"] = destID
	}
	if associationType != "" {
		filter["association_type"] = associationType
	}
	return fetchEntities[types.PageAssociation](m, types.TablePageAssociations, filter)
}

func fetchEntities[T any](m *Model, table string, filter types.Filter) ([]*T, error) {
	t, err := m.table(table)
	if err != nil {
		return nil, err
	}
	vs, err := t.Fetch(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(vs))
	for _, v := range vs {
		e, ok := v.(*T)
		if !ok {
			return nil, fmt.Errorf("%s: unexpected entity %T", table, v)
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *Model) set(table, id string, v any) (string, error) {
	t, err := m.table(table)
	if err != nil {
		return "", err
	}
	return t.Set(id, v)
}

// SavePage creates or replaces a page and returns its id.
func (m *Model) SavePage(p *types.Page) (string, error) {
	return m.set(types.TablePages, p.ID(), p)
}

// DeletePage removes a page together with its associations.
func (m *Model) DeletePage(id string) error {
	t, err := m.table(types.TablePages)
	if err != nil {
		return err
	}
	return t.Delete(id)
}

// ListPages returns pages in creation order. An empty pageTypeID lists
// every page; a non-positive limit means no limit.
func (m *Model) ListPages(pageTypeID string, limit, offset int) ([]*types.Page, error) {
	filter := types.Filter{"limit": limit, "offset": offset}
	if pageTypeID != "" {
		filter["page_type_id"] = pageTypeID
	}
	return fetchEntities[types.Page](m, types.TablePages, filter)
}

// SaveTemplate creates or updates a template instance and returns its id.
func (m *Model) SaveTemplate(t *types.TemplateInstance) (string, error) {
	return m.set(types.TableTemplates, t.TemplateID, t)
}

// ListTemplates returns every template instance ordered by id.
func (m *Model) ListTemplates() ([]*types.TemplateInstance, error) {
	return fetchEntities[types.TemplateInstance](m, types.TableTemplates, nil)
}

// SavePageType creates or updates a page type and returns its id.
func (m *Model) SavePageType(pt *types.PageType) (string, error) {
	return m.set(types.TablePageTypes, pt.PageTypeID, pt)
}

// ListPageTypes returns every page type ordered by id.
func (m *Model) ListPageTypes() ([]*types.PageType, error) {
	return fetchEntities[types.PageType](m, types.TablePageTypes, nil)
}

// Associate links sourceID to destID with the given association type and
// sibling order, returning the association.
func (m *Model) Associate(sourceID, destID, associationType string, order int) (*types.PageAssociation, error) {
	a := &types.PageAssociation{
		SourceID:        sourceID,
		DestID:          destID,
		AssociationType: associationType,
		Order:           order,
	}
	if _, err := m.set(types.TablePageAssociations, "", a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAssociation removes an association by id.
func (m *Model) DeleteAssociation(id string) error {
	t, err := m.table(types.TablePageAssociations)
	if err != nil {
		return err
	}
	return t.Delete(id)
}
