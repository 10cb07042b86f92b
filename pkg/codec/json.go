package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

var _ types.PageCodec = JSON{}

// JSON encodes pages as single-line JSON records.
type JSON struct{}

// Record is the JSON shape of a page.
type Record struct {
	ID         string                  `json:"id"`
	TypeID     string                  `json:"type_id"`
	Properties map[string]string       `json:"properties"`
	Templates  []types.TemplateBinding `json:"templates"`
	CreatedAt  time.Time               `json:"created_at"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

// RecordOf returns the JSON record for p.
func RecordOf(p *types.Page) Record {
	obj := p.Object()
	props := obj.Properties
	if props == nil {
		props = map[string]string{}
	}
	bindings := p.TemplateBindings()
	if bindings == nil {
		bindings = []types.TemplateBinding{}
	}
	return Record{
		ID:         obj.ID,
		TypeID:     obj.TypeID,
		Properties: props,
		Templates:  bindings,
		CreatedAt:  obj.CreatedAt,
		UpdatedAt:  obj.UpdatedAt,
	}
}

// Page builds a page from the record.
func (r Record) Page(defaultFormatID string) *types.Page {
	obj := &types.Object{
		ID:         r.ID,
		TypeID:     r.TypeID,
		Properties: make(map[string]string, len(r.Properties)),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	for k, v := range r.Properties {
		obj.Properties[k] = v
	}
	return types.PageFromObject(obj, r.Templates, defaultFormatID)
}

// EncodePage renders p as a JSON record.
func (JSON) EncodePage(p *types.Page) ([]byte, error) {
	data, err := json.Marshal(RecordOf(p))
	if err != nil {
		return nil, fmt.Errorf("encoding page %s: %w", p.ID(), err)
	}
	return data, nil
}

// DecodePage parses a JSON record.
func (JSON) DecodePage(id string, data []byte, defaultFormatID string) (*types.Page, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidDocument, err)
	}
	if id != "" {
		r.ID = id
	}
	if r.ID == "" {
		return nil, fmt.Errorf("%w: no page id", types.ErrInvalidDocument)
	}
	return r.Page(defaultFormatID), nil
}
