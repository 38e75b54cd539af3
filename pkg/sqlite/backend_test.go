package sqlite

import (
	"context"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func TestNewBackend(t *testing.T) {
	for _, b := range []interface {
		types.Store
		Attach(types.Config) error
		Detach() error
	}{NewBackend(), NewBackendWithLogger(btclog.Disabled)} {
		require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
		err := b.View(context.Background(), func(ctx context.Context, tx types.Tx) error {
			n, err := tx.OriginalCount()
			require.Equal(t, 0, n)
			return err
		})
		require.NoError(t, err)
		require.NoError(t, b.Detach())
	}
}
