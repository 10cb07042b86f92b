package types

import (
	"sort"
	"time"
)

// Object is the persisted-entity capability shared by model objects. It
// carries identity, the object type and an open set of string properties.
// Pages, and any future model object, wrap an Object instead of
// inheriting from a base type.
type Object struct {
	ID         string            `json:"id"`
	TypeID     string            `json:"type_id"`
	Properties map[string]string `json:"properties"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Standard object properties.
const (
	PropTitle       = "title"
	PropDescription = "description"
)

// NewObject returns an empty Object of the given type.
func NewObject(id, typeID string) *Object {
	now := time.Now().UTC()
	return &Object{
		ID:         id,
		TypeID:     typeID,
		Properties: make(map[string]string),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Property returns the value stored under name and whether it was set.
func (o *Object) Property(name string) (string, bool) {
	if o.Properties == nil {
		return "", false
	}
	v, ok := o.Properties[name]
	return v, ok
}

// SetProperty stores value under name.
func (o *Object) SetProperty(name, value string) {
	if o.Properties == nil {
		o.Properties = make(map[string]string)
	}
	o.Properties[name] = value
	o.UpdatedAt = time.Now().UTC()
}

// RemoveProperty deletes name. Removing an unset property is a no-op.
func (o *Object) RemoveProperty(name string) {
	if _, ok := o.Properties[name]; !ok {
		return
	}
	delete(o.Properties, name)
	o.UpdatedAt = time.Now().UTC()
}

// PropertyNames returns the set property names in ascending order.
func (o *Object) PropertyNames() []string {
	names := make([]string, 0, len(o.Properties))
	for k := range o.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	c := *o
	c.Properties = make(map[string]string, len(o.Properties))
	for k, v := range o.Properties {
		c.Properties[k] = v
	}
	return &c
}
