package types

import (
	"fmt"
	"time"
)

// Page object type and document names.
const (
	PageTypeID           = "page"
	PropTemplateInstance = "template-instance"
	AttrFormatID         = "format-id"
	PropPageTypeID       = "page-type-id"
	PropAuthentication   = "authentication"
	DefaultPageTypeID    = "generic"
)

// TemplateBinding binds a template instance to an output format. An empty
// FormatID binds the default format.
type TemplateBinding struct {
	FormatID   string `json:"format_id,omitempty"`
	TemplateID string `json:"template_id"`
}

// Page is one page of a site. It wraps a persisted Object and keeps the
// template bindings in document order.
//
// Format ids equal to the default format id the page was built with are
// normalized to the empty format id, so the default format is always
// stored as an unqualified binding.
//
// A Page is not safe for concurrent mutation.
type Page struct {
	obj           *Object
	bindings      []TemplateBinding
	defaultFormat string
}

// NewPage returns an empty page with the default page type.
func NewPage(id, defaultFormatID string) *Page {
	return PageFromObject(NewObject(id, PageTypeID), nil, defaultFormatID)
}

// PageFromObject wraps an existing object and its template bindings.
// Bindings naming the default format are normalized to the empty format id.
// The page type property is set to DefaultPageTypeID when the object has
// none.
func PageFromObject(obj *Object, bindings []TemplateBinding, defaultFormatID string) *Page {
	if obj.TypeID == "" {
		obj.TypeID = PageTypeID
	}
	p := &Page{
		obj:           obj,
		bindings:      append([]TemplateBinding(nil), bindings...),
		defaultFormat: defaultFormatID,
	}
	for i := range p.bindings {
		p.bindings[i].FormatID = p.normalizeFormat(p.bindings[i].FormatID)
	}
	if _, ok := obj.Property(PropPageTypeID); !ok {
		p.SetPageTypeID(DefaultPageTypeID)
	}
	return p
}

// Object returns the persisted object backing the page.
func (p *Page) Object() *Object { return p.obj }

// ID returns the page id.
func (p *Page) ID() string { return p.obj.ID }

// TypeID returns the object type id, always PageTypeID.
func (p *Page) TypeID() string { return p.obj.TypeID }

// DefaultFormatID returns the format id treated as the default format.
func (p *Page) DefaultFormatID() string { return p.defaultFormat }

// UpdatedAt returns the time of the last mutation.
func (p *Page) UpdatedAt() time.Time { return p.obj.UpdatedAt }

// Title returns the page title property.
func (p *Page) Title() string {
	v, _ := p.obj.Property(PropTitle)
	return v
}

// SetTitle sets the page title property.
func (p *Page) SetTitle(title string) { p.obj.SetProperty(PropTitle, title) }

// Description returns the page description property.
func (p *Page) Description() string {
	v, _ := p.obj.Property(PropDescription)
	return v
}

// SetDescription sets the page description property.
func (p *Page) SetDescription(desc string) { p.obj.SetProperty(PropDescription, desc) }

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	return &Page{
		obj:           p.obj.Clone(),
		bindings:      append([]TemplateBinding(nil), p.bindings...),
		defaultFormat: p.defaultFormat,
	}
}

func (p *Page) normalizeFormat(formatID string) string {
	if formatID != "" && formatID == p.defaultFormat {
		return ""
	}
	return formatID
}

// templateIndex returns the position of the first binding for formatID,
// or -1.
func (p *Page) templateIndex(formatID string) int {
	formatID = p.normalizeFormat(formatID)
	for i, b := range p.bindings {
		if b.FormatID == formatID {
			return i
		}
	}
	return -1
}

// TemplateBindings returns a copy of the template bindings in document order.
func (p *Page) TemplateBindings() []TemplateBinding {
	return append([]TemplateBinding(nil), p.bindings...)
}

// TemplateID returns the template id bound to formatID. An empty formatID
// selects the default format.
func (p *Page) TemplateID(formatID string) (string, bool) {
	i := p.templateIndex(formatID)
	if i < 0 {
		return "", false
	}
	return p.bindings[i].TemplateID, true
}

// SetTemplateID binds templateID to formatID, overwriting the first existing
// binding for that format or appending a new one. Duplicate bindings that
// already exist for the format are left in place.
func (p *Page) SetTemplateID(templateID, formatID string) {
	if i := p.templateIndex(formatID); i >= 0 {
		p.bindings[i].TemplateID = templateID
	} else {
		p.bindings = append(p.bindings, TemplateBinding{
			FormatID:   p.normalizeFormat(formatID),
			TemplateID: templateID,
		})
	}
	p.obj.UpdatedAt = time.Now().UTC()
}

// RemoveTemplateID removes the first binding for formatID. No-op when the
// format is not bound.
func (p *Page) RemoveTemplateID(formatID string) {
	i := p.templateIndex(formatID)
	if i < 0 {
		return
	}
	p.bindings = append(p.bindings[:i], p.bindings[i+1:]...)
	p.obj.UpdatedAt = time.Now().UTC()
}

// Templates resolves every binding through the request's model, keyed by
// format id. Unqualified bindings are keyed under the configured default
// format id; when several bind the same format the last one wins, and a
// last binding whose template does not resolve leaves the format out.
func (p *Page) Templates(rc RequestContext) (map[string]*TemplateInstance, error) {
	result := make(map[string]*TemplateInstance, len(p.bindings))
	for _, b := range p.bindings {
		formatID := b.FormatID
		if formatID == "" {
			formatID = rc.Config().FormatID()
		}
		var t *TemplateInstance
		if b.TemplateID != "" {
			found, err := rc.Model().GetTemplate(b.TemplateID)
			if t, err = resolveAbsent(found, err); err != nil {
				return nil, fmt.Errorf("resolving template %s: %w", b.TemplateID, err)
			}
		}
		if t == nil {
			delete(result, formatID)
			continue
		}
		result[formatID] = t
	}
	return result, nil
}

// Template resolves the template bound to formatID. Returns nil without
// error when no template is bound or the bound template does not exist.
func (p *Page) Template(rc RequestContext, formatID string) (*TemplateInstance, error) {
	id, ok := p.TemplateID(formatID)
	if !ok || id == "" {
		return nil, nil
	}
	t, err := rc.Model().GetTemplate(id)
	return resolveAbsent(t, err)
}

// PageTypeID returns the page type id property.
func (p *Page) PageTypeID() string {
	v, _ := p.obj.Property(PropPageTypeID)
	return v
}

// SetPageTypeID sets the page type id property. The value is not validated.
func (p *Page) SetPageTypeID(pageTypeID string) {
	p.obj.SetProperty(PropPageTypeID, pageTypeID)
}

// PageType resolves the page type through the request's model. Returns nil
// without error when the page has no page type id or it does not resolve.
func (p *Page) PageType(rc RequestContext) (*PageType, error) {
	id := p.PageTypeID()
	if id == "" {
		return nil, nil
	}
	pt, err := rc.Model().GetPageType(id)
	return resolveAbsent(pt, err)
}

// Authentication returns the authentication the page requires. A missing
// or empty property means AuthNone. A stored value that is not a known
// level returns an error wrapping ErrInvalidAuthentication.
func (p *Page) Authentication() (Authentication, error) {
	v, _ := p.obj.Property(PropAuthentication)
	a, err := ParseAuthentication(v)
	if err != nil {
		return "", fmt.Errorf("page %s: %w", p.ID(), err)
	}
	return a, nil
}

// SetAuthentication validates s and stores its canonical form. The page is
// left unchanged when s is not a known level.
func (p *Page) SetAuthentication(s string) error {
	a, err := ParseAuthentication(s)
	if err != nil {
		return err
	}
	p.obj.SetProperty(PropAuthentication, a.String())
	return nil
}

// ChildPages returns the destination pages of this page's child
// associations, in the order the model returns the associations.
// Destinations that no longer exist are skipped.
func (p *Page) ChildPages(rc RequestContext) ([]*Page, error) {
	assocs, err := rc.Model().FindPageAssociations(p.ID(), "", ChildAssociationType)
	if err != nil {
		return nil, fmt.Errorf("finding child associations of %s: %w", p.ID(), err)
	}
	pages := make([]*Page, 0, len(assocs))
	for _, a := range assocs {
		child, err := a.DestPage(rc)
		if err != nil {
			return nil, fmt.Errorf("resolving child page %s: %w", a.DestID, err)
		}
		if child == nil {
			continue
		}
		pages = append(pages, child)
	}
	return pages, nil
}
