// Package types defines the Page model object, the entities it refers to
// (template instances, page types, page associations), the collaborator
// interfaces it resolves them through (Model, RequestContext), and the
// Store and Table interfaces with their standard errors.
//
// A Page is a value that wraps a generic persisted Object. Accessors on the
// Page read and mutate the Object in place; persistence belongs to the Store.
package types
