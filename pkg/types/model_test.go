package types

// fakeModel is an in-memory Model and RequestContext for page tests.
type fakeModel struct {
	cfg       Config
	pages     map[string]*Page
	templates map[string]*TemplateInstance
	pageTypes map[string]*PageType
	assocs    []*PageAssociation
	err       error
}

func newFakeModel() *fakeModel {
	return &fakeModel{
		cfg:       Config{Backend: BackendSQLite, DefaultFormatID: "html"},
		pages:     make(map[string]*Page),
		templates: make(map[string]*TemplateInstance),
		pageTypes: make(map[string]*PageType),
	}
}

func (m *fakeModel) Model() Model   { return m }
func (m *fakeModel) Config() Config { return m.cfg }

func (m *fakeModel) GetPage(id string) (*Page, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.pages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *fakeModel) GetTemplate(id string) (*TemplateInstance, error) {
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (m *fakeModel) GetPageType(id string) (*PageType, error) {
	if m.err != nil {
		return nil, m.err
	}
	pt, ok := m.pageTypes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return pt, nil
}

func (m *fakeModel) FindPageAssociations(sourceID, destID, associationType string) ([]*PageAssociation, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*PageAssociation
	for _, a := range m.assocs {
		if sourceID != "" && a.SourceID != sourceID {
			continue
		}
		if destID != "" && a.DestID != destID {
			continue
		}
		if associationType != "" && a.AssociationType != associationType {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *fakeModel) addPage(id string) *Page {
	p := NewPage(id, m.cfg.DefaultFormatID)
	m.pages[id] = p
	return p
}

func (m *fakeModel) link(source, dest string) {
	m.assocs = append(m.assocs, &PageAssociation{
		AssociationID:   source + "->" + dest,
		SourceID:        source,
		DestID:          dest,
		AssociationType: ChildAssociationType,
	})
}
