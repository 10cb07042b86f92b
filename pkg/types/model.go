package types

import "errors"

// Model resolves model objects by identifier. Implementations return
// ErrNotFound when no object exists with the given id.
type Model interface {
	// GetPage returns the page with the given id.
	GetPage(id string) (*Page, error)

	// GetTemplate returns the template instance with the given id.
	GetTemplate(id string) (*TemplateInstance, error)

	// GetPageType returns the page type with the given id.
	GetPageType(id string) (*PageType, error)

	// FindPageAssociations returns associations matching the arguments. An
	// empty argument matches any value.
	FindPageAssociations(sourceID, destID, associationType string) ([]*PageAssociation, error)
}

// RequestContext gives model objects access to the model and to the
// configuration in effect for the current request.
type RequestContext interface {
	Model() Model
	Config() Config
}

// resolveAbsent turns ErrNotFound into a nil result.
func resolveAbsent[T any](v *T, err error) (*T, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
