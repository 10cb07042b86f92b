// PageAssociation entity represents typed edges between pages.
package types

import "time"

// Association type constants.
const (
	ChildAssociationType = "child" // parent page → child page
)

// validAssociationTypes is the set of recognized association types.
var validAssociationTypes = map[string]bool{
	ChildAssociationType: true,
}

// ValidAssociationType reports whether t is a recognized association type.
func ValidAssociationType(t string) bool {
	return validAssociationTypes[t]
}

// PageAssociation represents a directed edge between two pages.
type PageAssociation struct {
	// AssociationID is a UUID v7, generated on creation.
	AssociationID string `json:"association_id"`

	// SourceID is the page the edge starts from.
	SourceID string `json:"source_id"`

	// DestID is the page the edge points to.
	DestID string `json:"dest_id"`

	// AssociationType is the relationship type (child).
	AssociationType string `json:"association_type"`

	// Order positions the destination among siblings; lower sorts first.
	Order int `json:"order"`

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time `json:"created_at"`
}

// DestPage resolves the destination page through the model. Returns nil
// without error when the destination no longer exists.
func (a *PageAssociation) DestPage(rc RequestContext) (*Page, error) {
	p, err := rc.Model().GetPage(a.DestID)
	return resolveAbsent(p, err)
}

// SourcePage resolves the source page through the model.
func (a *PageAssociation) SourcePage(rc RequestContext) (*Page, error) {
	p, err := rc.Model().GetPage(a.SourceID)
	return resolveAbsent(p, err)
}
