package game

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/poneglyph/internal/memory"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func TestVictorious(t *testing.T) {
	originals := []types.Artifact{
		types.NewOriginal(0), types.NewOriginal(1), types.NewOriginal(2), types.NewOriginal(3),
	}
	tests := []struct {
		name string
		held []types.Artifact
		want bool
	}{
		{
			name: "one original and copies of the rest",
			held: []types.Artifact{types.NewOriginal(1), types.NewCopy(4, 0), types.NewCopy(5, 2), types.NewCopy(6, 3)},
			want: true,
		},
		{
			name: "extra copies do not matter",
			held: []types.Artifact{types.NewOriginal(1), types.NewCopy(4, 0), types.NewCopy(5, 2), types.NewCopy(6, 3), types.NewCopy(7, 1), types.NewCopy(8, 0)},
			want: true,
		},
		{
			name: "missing one copy",
			held: []types.Artifact{types.NewOriginal(1), types.NewCopy(4, 0), types.NewCopy(5, 2)},
			want: false,
		},
		{
			name: "copy of own original does not replace another",
			held: []types.Artifact{types.NewOriginal(1), types.NewCopy(4, 1), types.NewCopy(5, 2), types.NewCopy(6, 3)},
			want: false,
		},
		{
			name: "copies only",
			held: []types.Artifact{types.NewCopy(4, 0), types.NewCopy(5, 1), types.NewCopy(6, 2), types.NewCopy(7, 3)},
			want: false,
		},
		{
			name: "two originals",
			held: []types.Artifact{types.NewOriginal(0), types.NewOriginal(1), types.NewCopy(5, 2), types.NewCopy(6, 3)},
			want: false,
		},
		{
			name: "nothing",
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, got := Victorious(originals, tt.held)
			assert.Equal(t, tt.want, got)
			if got {
				assert.Equal(t, types.ArtifactID(1), id)
			}
		})
	}
}

func TestCheckVictory_CollectionComplete(t *testing.T) {
	f := newFixture(t, []float64{0})
	ctx := context.Background()

	f.approve(t, bigmom, "3")
	_, err := f.game.Deposit(ctx, bigmom, 1, dec("3"))
	require.NoError(t, err)

	f.approve(t, luffy, "100")
	rec, err := f.game.ChallengeOriginal(ctx, luffy, 1, dec("1"))
	require.NoError(t, err)
	require.True(t, rec.ChallengerWon)

	f.approve(t, kaido, "100")
	_, err = f.game.Deposit(ctx, kaido, 2, dec("5"))
	require.NoError(t, err)
	_, err = f.game.MintCopy(ctx, luffy, 2, dec("5"))
	require.NoError(t, err)

	f.approve(t, shanks, "100")
	_, err = f.game.Deposit(ctx, shanks, 3, dec("0.005"))
	require.NoError(t, err)
	_, err = f.game.MintCopy(ctx, luffy, 3, dec("5"))
	require.NoError(t, err)

	won, err := f.game.CheckVictory(ctx, luffy)
	require.NoError(t, err)
	assert.False(t, won, "copy of original 0 still missing")
	assert.Empty(t, f.sink.events)

	f.approve(t, shirohige, "100")
	_, err = f.game.Deposit(ctx, shirohige, 0, dec("5"))
	require.NoError(t, err)
	_, err = f.game.MintCopy(ctx, luffy, 0, dec("5"))
	require.NoError(t, err)

	won, err = f.game.CheckVictory(ctx, luffy)
	require.NoError(t, err)
	assert.True(t, won)
	require.Len(t, f.sink.events, 1)
	assert.Equal(t, luffy, f.sink.events[0].Holder)
	assert.Equal(t, types.ArtifactID(1), f.sink.events[0].OriginalID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Victories))

	// Anyone may ask, and asking again changes nothing.
	artifacts, err := f.game.Artifacts(ctx)
	require.NoError(t, err)
	won, err = f.game.CheckVictory(ctx, luffy)
	require.NoError(t, err)
	assert.True(t, won)
	again, err := f.game.Artifacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, artifacts, again)
	assert.Len(t, f.sink.events, 2)
}

func TestCheckVictory_NotInitialized(t *testing.T) {
	g, err := New(newEmptyStore(), memory.NewLedger(), memory.NewRegistry())
	require.NoError(t, err)

	_, err = g.CheckVictory(context.Background(), luffy)
	assert.ErrorIs(t, err, types.ErrNotInitialized)
}

func TestCheckVictory_GenesisHolderIsNotVictorious(t *testing.T) {
	f := newFixture(t, nil)
	for _, p := range players {
		won, err := f.game.CheckVictory(context.Background(), p)
		require.NoError(t, err)
		assert.False(t, won, p)
	}
}

func TestHoldings_SkipsOnlyUnregisteredTokens(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// A token the registry knows but the store never registered.
	require.NoError(t, f.registry.Registry.Mint(ctx, 99, shirohige))
	held, err := f.game.HoldingsOf(ctx, shirohige)
	require.NoError(t, err)
	require.Len(t, held, 1)
	assert.Equal(t, types.ArtifactID(0), held[0].ID)
}

func TestHoldings_StoreFailureIsReturned(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.approve(t, luffy, "1")
	_, err := f.game.MintCopy(ctx, luffy, 0, dec("1"))
	require.NoError(t, err)

	g, err := New(&faultyStore{Store: f.store, failFrom: 4}, f.ledger, f.registry,
		WithEventSink(f.sink))
	require.NoError(t, err)

	_, err = g.HoldingsOf(ctx, luffy)
	assert.ErrorIs(t, err, errDiskIO)

	won, err := g.CheckVictory(ctx, luffy)
	assert.ErrorIs(t, err, errDiskIO)
	assert.False(t, won)
	assert.Empty(t, f.sink.events)
}
