package game

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/poneglyph/internal/memory"
	"github.com/mesh-intelligence/poneglyph/internal/metrics"
	"github.com/mesh-intelligence/poneglyph/internal/random"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

const (
	shirohige types.Address = "shirohige"
	bigmom    types.Address = "bigmom"
	kaido     types.Address = "kaido"
	shanks    types.Address = "shanks"
	luffy     types.Address = "luffy"
	kurohige  types.Address = "kurohige"
)

var players = []types.Address{shirohige, bigmom, kaido, shanks, luffy, kurohige}

// fixture mirrors a deployed game: four Originals handed to four players and
// every player funded with 100.
type fixture struct {
	game     *Game
	store    *memory.Store
	ledger   *memory.Ledger
	registry *flakyRegistry
	metrics  *metrics.Metrics
	sink     *recordingSink
}

func newFixture(t *testing.T, draws []float64, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		ledger:   memory.NewLedger(),
		registry: &flakyRegistry{Registry: memory.NewRegistry()},
		metrics:  metrics.New(),
		sink:     &recordingSink{},
	}
	all := append([]Option{
		WithRandomness(random.NewSequence(draws...)),
		WithMetrics(f.metrics),
		WithEventSink(f.sink),
	}, opts...)
	g, err := New(f.store, f.ledger, f.registry, all...)
	require.NoError(t, err)
	f.game = g

	ctx := context.Background()
	_, err = g.Genesis(ctx, shirohige, bigmom, kaido, shanks)
	require.NoError(t, err)
	for _, p := range players {
		require.NoError(t, f.ledger.Fund(p, dec("100")))
	}
	return f
}

func (f *fixture) approve(t *testing.T, who types.Address, amount string) {
	t.Helper()
	require.NoError(t, f.ledger.Approve(who, dec(amount)))
}

func (f *fixture) owner(t *testing.T, id types.ArtifactID) types.Address {
	t.Helper()
	owner, err := f.registry.OwnerOf(context.Background(), id)
	require.NoError(t, err)
	return owner
}

func (f *fixture) stake(t *testing.T, id types.ArtifactID) decimal.Decimal {
	t.Helper()
	amount, err := f.game.StakeOf(context.Background(), id)
	require.NoError(t, err)
	return amount
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "amount = %s, want %s", got, want)
}

var errRegistryDown = errors.New("registry unavailable")

// flakyRegistry fails Mint or Transfer on demand. With failMint set, mints
// of ids below failMintFrom still succeed.
type flakyRegistry struct {
	*memory.Registry
	failMint     bool
	failMintFrom types.ArtifactID
	failTransfer bool
}

func (r *flakyRegistry) Mint(ctx context.Context, id types.ArtifactID, to types.Address) error {
	if r.failMint && id >= r.failMintFrom {
		return errRegistryDown
	}
	return r.Registry.Mint(ctx, id, to)
}

func (r *flakyRegistry) Transfer(ctx context.Context, id types.ArtifactID, to types.Address) error {
	if r.failTransfer {
		return errRegistryDown
	}
	return r.Registry.Transfer(ctx, id, to)
}

type recordingSink struct {
	events []types.VictoryEvent
}

func (s *recordingSink) Victory(_ context.Context, ev types.VictoryEvent) error {
	s.events = append(s.events, ev)
	return nil
}

var errDiskIO = errors.New("disk I/O error")

// faultyStore fails artifact reads in views from failFrom upward.
type faultyStore struct {
	*memory.Store
	failFrom types.ArtifactID
}

func (s *faultyStore) View(ctx context.Context, fn func(ctx context.Context, tx types.Tx) error) error {
	return s.Store.View(ctx, func(ctx context.Context, tx types.Tx) error {
		return fn(ctx, faultyTx{Tx: tx, failFrom: s.failFrom})
	})
}

type faultyTx struct {
	types.Tx
	failFrom types.ArtifactID
}

func (t faultyTx) GetArtifact(id types.ArtifactID) (types.Artifact, error) {
	if id >= t.failFrom {
		return types.Artifact{}, errDiskIO
	}
	return t.Tx.GetArtifact(id)
}
