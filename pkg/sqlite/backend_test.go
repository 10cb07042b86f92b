package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/sitemodel/pkg/sqlite"
	"github.com/mesh-intelligence/sitemodel/pkg/types"
)

func TestNewBackendAndModel(t *testing.T) {
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	store := sqlite.NewBackend(sqlite.WithLogger(zap.NewNop()))
	require.NoError(t, store.Attach(cfg))
	defer store.Detach()

	m := sqlite.NewModel(store, cfg)

	root := types.NewPage("root", cfg.FormatID())
	child := types.NewPage("child", cfg.FormatID())
	child.SetTitle("Child")
	for _, p := range []*types.Page{root, child} {
		_, err := m.SavePage(p)
		require.NoError(t, err)
	}
	_, err := m.Associate("root", "child", types.ChildAssociationType, 0)
	require.NoError(t, err)

	children, err := root.ChildPages(m)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Child", children[0].Title())
}
