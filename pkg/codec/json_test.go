package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func TestJSONRoundTrip(t *testing.T) {
	p := types.NewPage("about", "html")
	p.SetTitle("About")
	require.NoError(t, p.SetAuthentication("guest"))
	p.SetTemplateID("about-html", "")
	p.SetTemplateID("about-print", "print")

	data, err := JSON{}.EncodePage(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\n")

	again, err := JSON{}.DecodePage("", data, "html")
	require.NoError(t, err)
	assert.Equal(t, "about", again.ID())
	assert.Equal(t, types.PageTypeID, again.TypeID())
	assert.Equal(t, p.Object().Properties, again.Object().Properties)
	assert.Equal(t, p.TemplateBindings(), again.TemplateBindings())
	assert.True(t, p.Object().CreatedAt.Equal(again.Object().CreatedAt))
}

func TestJSONEncodeEmptyPage(t *testing.T) {
	p := types.NewPage("empty", "html")
	data, err := JSON{}.EncodePage(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"templates":[]`)
}

func TestJSONDecodeErrors(t *testing.T) {
	_, err := JSON{}.DecodePage("", []byte("<page/>"), "html")
	assert.ErrorIs(t, err, types.ErrInvalidDocument)

	_, err = JSON{}.DecodePage("", []byte(`{"properties":{}}`), "html")
	assert.ErrorIs(t, err, types.ErrInvalidDocument)
}
