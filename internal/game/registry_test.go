package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/poneglyph/internal/memory"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func TestArtifactRegistry(t *testing.T) {
	store := memory.NewStore()
	err := store.Update(context.Background(), func(_ context.Context, tx types.Tx) error {
		r := NewArtifactRegistry(tx)
		for i := 0; i < 2; i++ {
			_, err := r.RegisterOriginal()
			require.NoError(t, err)
		}

		c, err := r.RegisterCopy(1)
		require.NoError(t, err)
		assert.Equal(t, types.ArtifactID(2), c.ID)

		kind, err := r.KindOf(c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.KindCopy, kind)

		ref, err := r.OriginalRefOf(c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.ArtifactID(1), ref)

		_, err = r.OriginalRefOf(0)
		assert.ErrorIs(t, err, types.ErrNotCopy)

		_, err = r.RegisterCopy(c.ID)
		assert.ErrorIs(t, err, types.ErrNotOriginal)

		_, err = r.RegisterCopy(9)
		assert.ErrorIs(t, err, types.ErrUnknownArtifact)

		_, err = r.KindOf(9)
		assert.ErrorIs(t, err, types.ErrUnknownArtifact)

		_, err = r.RegisterOriginal()
		assert.ErrorIs(t, err, types.ErrAlreadyInitialized)

		originals, err := r.Originals()
		require.NoError(t, err)
		assert.Len(t, originals, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestStakeLedger(t *testing.T) {
	store := memory.NewStore()
	err := store.Update(context.Background(), func(_ context.Context, tx types.Tx) error {
		l := NewStakeLedger(tx)

		amount, err := l.Amount(0)
		require.NoError(t, err)
		requireAmount(t, "0", amount)

		total, err := l.Credit(0, dec("2.5"))
		require.NoError(t, err)
		requireAmount(t, "2.5", total)

		total, err = l.Credit(0, dec("0.5"))
		require.NoError(t, err)
		requireAmount(t, "3", total)

		_, err = l.Credit(0, dec("0"))
		assert.ErrorIs(t, err, types.ErrInvalidAmount)

		require.NoError(t, l.Reset(0, dec("1")))
		amount, err = l.Amount(0)
		require.NoError(t, err)
		requireAmount(t, "1", amount)

		assert.ErrorIs(t, l.Reset(0, dec("-1")), types.ErrInvalidAmount)
		return nil
	})
	require.NoError(t, err)
}
