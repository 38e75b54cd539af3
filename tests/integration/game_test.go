package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/poneglyph/internal/game"
	"github.com/mesh-intelligence/poneglyph/internal/random"
	"github.com/mesh-intelligence/poneglyph/internal/sqlite"
	pubsqlite "github.com/mesh-intelligence/poneglyph/pkg/sqlite"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var errRegistryDown = errors.New("registry unavailable")

// brokenTransfers fails every Transfer, leaving the rest of the registry
// working.
type brokenTransfers struct {
	*sqlite.Registry
}

func (brokenTransfers) Transfer(context.Context, types.ArtifactID, types.Address) error {
	return errRegistryDown
}

// world is a game running on one SQLite database.
type world struct {
	game    *game.Game
	backend *sqlite.Backend
	ledger  *sqlite.Ledger
	reg     *sqlite.Registry
	events  *sqlite.EventLog
}

func newWorld(t *testing.T, draws []float64, wrap func(*sqlite.Registry) types.OwnershipRegistry) *world {
	t.Helper()
	ctx := context.Background()

	backend := pubsqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })

	w := &world{
		backend: backend,
		ledger:  sqlite.NewLedger(backend),
		reg:     sqlite.NewRegistry(backend),
		events:  sqlite.NewEventLog(backend),
	}
	var registry types.OwnershipRegistry = w.reg
	if wrap != nil {
		registry = wrap(w.reg)
	}
	g, err := game.New(backend, w.ledger, registry,
		game.WithRandomness(random.NewSequence(draws...)),
		game.WithEventSink(w.events))
	require.NoError(t, err)
	w.game = g

	_, err = g.Genesis(ctx, "shirohige", "bigmom", "kaido", "shanks")
	require.NoError(t, err)
	for _, p := range []types.Address{"shirohige", "bigmom", "kaido", "shanks", "luffy"} {
		require.NoError(t, w.ledger.Fund(ctx, p, decimal.NewFromInt(100)))
		require.NoError(t, w.ledger.Approve(ctx, p, decimal.NewFromInt(100)))
	}
	return w
}

func (w *world) balance(t *testing.T, who types.Address) decimal.Decimal {
	t.Helper()
	b, err := w.ledger.BalanceOf(context.Background(), who)
	require.NoError(t, err)
	return b
}

func TestGame_ScenarioA_Deposit(t *testing.T) {
	w := newWorld(t, nil, nil)
	ctx := context.Background()

	_, err := w.game.Deposit(ctx, "shirohige", 0, decimal.NewFromInt(5))
	require.NoError(t, err)

	stake, err := w.game.StakeOf(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "5", stake.String())
	assert.Equal(t, "95", w.balance(t, "shirohige").String())
}

func TestGame_ScenarioB_MintCopy(t *testing.T) {
	w := newWorld(t, nil, nil)
	ctx := context.Background()
	require.NoError(t, w.ledger.Approve(ctx, "luffy", decimal.RequireFromString("2.5")))

	before, err := w.reg.TokensOf(ctx, "luffy")
	require.NoError(t, err)

	cp, err := w.game.MintCopy(ctx, "luffy", 0, decimal.RequireFromString("2.5"))
	require.NoError(t, err)

	after, err := w.reg.TokensOf(ctx, "luffy")
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)

	got, err := w.game.Artifact(ctx, cp.ID)
	require.NoError(t, err)
	assert.Equal(t, types.KindCopy, got.Kind)
	assert.Equal(t, types.ArtifactID(0), *got.OriginalRef)
}

func TestGame_ScenarioC_CopyOfCopy(t *testing.T) {
	w := newWorld(t, nil, nil)
	ctx := context.Background()

	cp, err := w.game.MintCopy(ctx, "luffy", 0, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.Equal(t, types.ArtifactID(4), cp.ID)
	_, err = w.game.Deposit(ctx, "luffy", 4, decimal.NewFromInt(1))
	require.NoError(t, err)

	_, err = w.game.MintCopy(ctx, "luffy", 4, decimal.NewFromInt(1))
	require.ErrorIs(t, err, types.ErrCopyOfCopy)
	assert.Equal(t, "Cannot mint copy from copy", err.Error())

	arts, err := w.game.Artifacts(ctx)
	require.NoError(t, err)
	assert.Len(t, arts, 5)
}

func TestGame_ScenarioD_AlreadyOwnOriginal(t *testing.T) {
	w := newWorld(t, []float64{0}, nil)
	ctx := context.Background()

	_, err := w.game.ChallengeOriginal(ctx, "kaido", 1, decimal.NewFromInt(10))
	require.ErrorIs(t, err, types.ErrAlreadyOwnsOriginal)
	assert.Equal(t, "Already own original", err.Error())
	assert.Equal(t, "100", w.balance(t, "kaido").String())
}

func TestGame_ScenarioE_Victory(t *testing.T) {
	w := newWorld(t, []float64{0.1}, nil)
	ctx := context.Background()

	rec, err := w.game.ChallengeOriginal(ctx, "luffy", 1, decimal.NewFromInt(3))
	require.NoError(t, err)
	require.True(t, rec.ChallengerWon)

	for _, id := range []types.ArtifactID{0, 2, 3} {
		_, err := w.game.MintCopy(ctx, "luffy", id, decimal.NewFromInt(1))
		require.NoError(t, err)
	}

	won, err := w.game.CheckVictory(ctx, "luffy")
	require.NoError(t, err)
	assert.True(t, won)

	events, err := w.events.Victories(ctx, "luffy")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.ArtifactID(1), events[0].OriginalID)

	// Merge on win: the new holder inherits challenge stake plus defense.
	stake, err := w.game.StakeOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "3", stake.String())
}

func TestGame_FailedTransferRollsBackEverything(t *testing.T) {
	w := newWorld(t, []float64{0}, func(r *sqlite.Registry) types.OwnershipRegistry {
		return brokenTransfers{r}
	})
	ctx := context.Background()

	_, err := w.game.Deposit(ctx, "bigmom", 1, decimal.NewFromInt(2))
	require.NoError(t, err)

	_, err = w.game.ChallengeOriginal(ctx, "luffy", 1, decimal.NewFromInt(6))
	require.ErrorIs(t, err, errRegistryDown)

	assert.Equal(t, "100", w.balance(t, "luffy").String())
	reserve, err := w.ledger.Reserve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", reserve.String())

	stake, err := w.game.StakeOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", stake.String())

	owner, err := w.reg.OwnerOf(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, types.Address("bigmom"), owner)

	contests, err := w.game.Contests(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, contests)
}
