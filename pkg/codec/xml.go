package codec

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

const (
	rootElement = "page"
	idElement   = "id"
)

var _ types.PageCodec = XML{}

// XML encodes pages as <page> documents. Each simple child element of the
// root is a property; repeated <template-instance> elements carry the
// template bindings with an optional format-id attribute.
type XML struct {
	// Indent is the per-level indent used by EncodePage. Empty means two
	// spaces.
	Indent string
}

type xmlDocument struct {
	XMLName  xml.Name
	Elements []xmlElement `xml:",any"`
}

type xmlElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
}

type xmlOutDocument struct {
	XMLName  xml.Name `xml:"page"`
	Elements []xmlOutElement
}

type xmlOutElement struct {
	XMLName  xml.Name
	FormatID string `xml:"format-id,attr,omitempty"`
	Text     string `xml:",chardata"`
}

// DecodePage parses a <page> document.
func (XML) DecodePage(id string, data []byte, defaultFormatID string) (*types.Page, error) {
	var doc xmlDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	if doc.XMLName.Local != rootElement {
		return nil, fmt.Errorf("%w: root element <%s>, want <%s>",
			types.ErrInvalidDocument, doc.XMLName.Local, rootElement)
	}

	obj := types.NewObject(id, types.PageTypeID)
	var bindings []types.TemplateBinding
	// Text is kept verbatim so values round-trip through EncodePage.
	for _, el := range doc.Elements {
		text := el.Text
		switch el.XMLName.Local {
		case types.PropTemplateInstance:
			bindings = append(bindings, types.TemplateBinding{
				FormatID:   attrValue(el.Attrs, types.AttrFormatID),
				TemplateID: text,
			})
		case idElement:
			if obj.ID == "" {
				obj.ID = text
			}
		default:
			obj.Properties[el.XMLName.Local] = text
		}
	}
	if obj.ID == "" {
		return nil, fmt.Errorf("%w: no page id", types.ErrInvalidDocument)
	}
	return types.PageFromObject(obj, bindings, defaultFormatID), nil
}

// EncodePage renders p as a <page> document: the id, then properties in
// name order, then template bindings in order.
func (c XML) EncodePage(p *types.Page) ([]byte, error) {
	obj := p.Object()
	out := xmlOutDocument{}
	out.Elements = append(out.Elements, xmlOutElement{
		XMLName: xml.Name{Local: idElement},
		Text:    obj.ID,
	})
	for _, name := range obj.PropertyNames() {
		out.Elements = append(out.Elements, xmlOutElement{
			XMLName: xml.Name{Local: name},
			Text:    obj.Properties[name],
		})
	}
	for _, b := range p.TemplateBindings() {
		out.Elements = append(out.Elements, xmlOutElement{
			XMLName:  xml.Name{Local: types.PropTemplateInstance},
			FormatID: b.FormatID,
			Text:     b.TemplateID,
		})
	}

	indent := c.Indent
	if indent == "" {
		indent = "  "
	}
	body, err := xml.MarshalIndent(out, "", indent)
	if err != nil {
		return nil, fmt.Errorf("encoding page %s: %w", obj.ID, err)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
