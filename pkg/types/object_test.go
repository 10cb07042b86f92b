package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectProperties(t *testing.T) {
	o := NewObject("o1", PageTypeID)

	_, ok := o.Property("missing")
	assert.False(t, ok)

	o.SetProperty("b", "2")
	o.SetProperty("a", "1")
	v, ok := o.Property("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	assert.Equal(t, []string{"a", "b"}, o.PropertyNames())

	o.RemoveProperty("a")
	_, ok = o.Property("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, o.PropertyNames())
}

func TestObjectRemoveMissingPropertyKeepsTimestamp(t *testing.T) {
	o := NewObject("o1", PageTypeID)
	o.UpdatedAt = time.Now().Add(-time.Hour)
	before := o.UpdatedAt

	o.RemoveProperty("never-set")
	assert.Equal(t, before, o.UpdatedAt)
}

func TestObjectNilPropertiesMap(t *testing.T) {
	o := &Object{ID: "o1"}
	_, ok := o.Property("x")
	assert.False(t, ok)

	o.SetProperty("x", "y")
	v, _ := o.Property("x")
	assert.Equal(t, "y", v)
}

func TestObjectClone(t *testing.T) {
	o := NewObject("o1", PageTypeID)
	o.SetProperty("k", "v")

	c := o.Clone()
	c.SetProperty("k", "changed")

	v, _ := o.Property("k")
	assert.Equal(t, "v", v, "clone must not share the property map")
}
