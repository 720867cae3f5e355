package xmlnode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const streamsDoc = `<?xml version="1.0"?>
<streams>
	<!-- model-owned streams -->
	<immutable_stream name="restart" type="input output" filename_template="restarts/rst.$Y.nc"/>
	<stream name="output" type="output" output_interval="6:00:00">
		<var name="u"/>
	</stream>
	<stream name="diags" type="output"/>
</streams>`

func TestParse(t *testing.T) {
	t.Run("Should build an element tree with attributes in order", func(t *testing.T) {
		doc, err := ParseBytes([]byte(streamsDoc), "streams.atmosphere")
		require.NoError(t, err)
		root := doc.Root()
		assert.Equal(t, "streams", root.Name())
		assert.Equal(t, "streams.atmosphere", doc.Source())

		immutable := root.Children("immutable_stream")
		require.Len(t, immutable, 1)
		assert.Equal(t, "restart", immutable[0].Attribute("name"))
		assert.Equal(t, "restarts/rst.$Y.nc", immutable[0].Attribute("filename_template"))

		streams := root.Children("stream")
		require.Len(t, streams, 2)
		assert.Equal(t, "output", streams[0].Attribute("name"))
		assert.Equal(t, "diags", streams[1].Attribute("name"))
		assert.Len(t, streams[0].Children("var"), 1)
	})

	t.Run("Should report missing attributes as empty", func(t *testing.T) {
		doc, err := ParseBytes([]byte(streamsDoc), "")
		require.NoError(t, err)
		diags := doc.Root().Children("stream")[1]
		assert.False(t, diags.HasAttribute("output_interval"))
		assert.Equal(t, "", diags.Attribute("output_interval"))
	})

	t.Run("Should distinguish empty attributes from absent ones", func(t *testing.T) {
		doc, err := ParseBytes([]byte(`<streams><stream name="s" precision=""/></streams>`), "")
		require.NoError(t, err)
		s := doc.Root().Children("stream")[0]
		assert.True(t, s.HasAttribute("precision"))
		assert.Equal(t, map[string]string{"name": "s", "precision": ""}, s.Attributes())
	})

	t.Run("Should fail on malformed XML", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<streams><stream name="a"></streams>`), "broken.xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"broken.xml"`)
	})

	t.Run("Should fail when the document has no root", func(t *testing.T) {
		_, err := Parse(strings.NewReader(`<?xml version="1.0"?>`), "")
		require.ErrorIs(t, err, ErrNoRoot)
	})
}

func TestElement(t *testing.T) {
	t.Run("Should let later attributes override earlier ones", func(t *testing.T) {
		el := NewElement("stream", Attr{Key: "name", Value: "a"}, Attr{Key: "name", Value: "b"})
		assert.Equal(t, "b", el.Attribute("name"))
		assert.Len(t, el.Attributes(), 1)
	})

	t.Run("Should filter children by tag", func(t *testing.T) {
		root := NewElement("streams").Append(
			NewElement("stream", Attr{Key: "name", Value: "a"}),
			NewElement("immutable_stream", Attr{Key: "name", Value: "b"}),
			NewElement("stream", Attr{Key: "name", Value: "c"}),
		)
		got := root.Children("stream")
		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Attribute("name"))
		assert.Equal(t, "c", got[1].Attribute("name"))
		assert.Empty(t, root.Children("missing"))
	})

	t.Run("Should return a copy of the attribute map", func(t *testing.T) {
		el := NewElement("stream", Attr{Key: "name", Value: "a"})
		attrs := el.Attributes()
		attrs["name"] = "mutated"
		assert.Equal(t, "a", el.Attribute("name"))
	})
}
