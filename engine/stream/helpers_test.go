package stream

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amstokely/xml-stream-parser/pkg/xmlnode"
)

func mustCatalog(t *testing.T, doc string) *Catalog {
	t.Helper()
	parsed, err := xmlnode.ParseBytes([]byte(doc), "test")
	require.NoError(t, err)
	return NewCatalog(parsed.Root())
}

func mustRecord(t *testing.T, catalog *Catalog, name string) xmlnode.Node {
	t.Helper()
	node, ok := catalog.Lookup(name)
	require.True(t, ok, "stream %q not in catalog", name)
	return node
}

func mustLoad(t *testing.T, catalog *Catalog, name string) Resolved {
	t.Helper()
	r, err := Load(mustRecord(t, catalog, name), catalog)
	require.NoError(t, err)
	return r
}
