package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

const homeDocument = `<?xml version="1.0" encoding="UTF-8"?>
<page>
  <id>home</id>
  <title>Home</title>
  <page-type-id>landing</page-type-id>
  <authentication>USER</authentication>
  <custom-flag>on</custom-flag>
  <template-instance>home-template</template-instance>
  <template-instance format-id="print">home-print</template-instance>
  <template-instance format-id="">home-extra</template-instance>
</page>
`

func TestXMLDecodePage(t *testing.T) {
	p, err := XML{}.DecodePage("", []byte(homeDocument), "html")
	require.NoError(t, err)

	assert.Equal(t, "home", p.ID())
	assert.Equal(t, "Home", p.Title())
	assert.Equal(t, "landing", p.PageTypeID())

	auth, err := p.Authentication()
	require.NoError(t, err)
	assert.Equal(t, types.AuthUser, auth)

	v, ok := p.Object().Property("custom-flag")
	assert.True(t, ok)
	assert.Equal(t, "on", v)

	assert.Equal(t, []types.TemplateBinding{
		{TemplateID: "home-template"},
		{FormatID: "print", TemplateID: "home-print"},
		{TemplateID: "home-extra"},
	}, p.TemplateBindings())

	got, _ := p.TemplateID("html")
	assert.Equal(t, "home-template", got, "empty format attribute is the default format")
}

func TestXMLDecodePageIDOverride(t *testing.T) {
	p, err := XML{}.DecodePage("other", []byte(homeDocument), "html")
	require.NoError(t, err)
	assert.Equal(t, "other", p.ID())
}

func TestXMLDecodePageDefaultsPageType(t *testing.T) {
	p, err := XML{}.DecodePage("", []byte(`<page><id>bare</id></page>`), "html")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultPageTypeID, p.PageTypeID())
	assert.Empty(t, p.TemplateBindings())
}

func TestXMLDecodePageErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not xml", doc: "{}"},
		{name: "wrong root", doc: "<template><id>x</id></template>"},
		{name: "missing id", doc: "<page><title>x</title></page>"},
		{name: "truncated", doc: "<page><id>x</id>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := XML{}.DecodePage("", []byte(tt.doc), "html")
			assert.ErrorIs(t, err, types.ErrInvalidDocument)
		})
	}
}

func TestXMLRoundTrip(t *testing.T) {
	p, err := XML{}.DecodePage("", []byte(homeDocument), "html")
	require.NoError(t, err)

	data, err := XML{}.EncodePage(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<template-instance format-id="print">home-print</template-instance>`)
	assert.Contains(t, string(data), `<template-instance>home-template</template-instance>`)

	again, err := XML{}.DecodePage("", data, "html")
	require.NoError(t, err)
	assert.Equal(t, p.ID(), again.ID())
	assert.Equal(t, p.Object().Properties, again.Object().Properties)
	assert.Equal(t, p.TemplateBindings(), again.TemplateBindings())
}

func TestXMLEncodeEscapesText(t *testing.T) {
	p := types.NewPage("p", "html")
	p.SetTitle(`Fish & "Chips" <daily>`)

	data, err := XML{}.EncodePage(p)
	require.NoError(t, err)

	again, err := XML{}.DecodePage("", data, "html")
	require.NoError(t, err)
	assert.Equal(t, `Fish & "Chips" <daily>`, again.Title())
}

func TestXMLRoundTripKeepsSurroundingSpace(t *testing.T) {
	p := types.NewPage("p", "html")
	p.SetPageTypeID("  Landing ")
	p.SetTitle(" Home ")
	p.SetTemplateID(" t1 ", "")

	data, err := XML{}.EncodePage(p)
	require.NoError(t, err)

	again, err := XML{}.DecodePage("", data, "html")
	require.NoError(t, err)
	assert.Equal(t, "  Landing ", again.PageTypeID())
	assert.Equal(t, " Home ", again.Title())
	got, ok := again.TemplateID("")
	require.True(t, ok)
	assert.Equal(t, " t1 ", got)
}
