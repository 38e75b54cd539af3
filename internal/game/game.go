// Package game implements the ownership contest: stake accounting, copy
// issuance, stake-weighted challenges and the victory check.
//
// A Game serializes every mutating operation and runs it inside one
// Store.Update transaction. Value and ownership move through the
// collaborators passed to New; when a collaborator call succeeds and a later
// step fails, the effect is compensated before the transaction rolls back.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btclog"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/internal/metrics"
	"github.com/mesh-intelligence/poneglyph/internal/random"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// Operation names used for logs and metrics labels.
const (
	opGenesis   = "genesis"
	opDeposit   = "deposit"
	opMint      = "mint"
	opChallenge = "challenge"
)

// ErrHolderCount is returned by Genesis when the holder list does not match
// the configured number of Originals.
var ErrHolderCount = errors.New("genesis needs one holder or one holder per original")

// Game is the ownership state machine.
type Game struct {
	mu sync.RWMutex

	store    types.Store
	ledger   types.ValueLedger
	registry types.OwnershipRegistry
	rand     types.RandomnessSource
	sinks    []types.EventSink
	cfg      types.GameConfig
	log      btclog.Logger
	metrics  *metrics.Metrics
}

// Option configures a Game.
type Option func(*Game)

// WithConfig sets the game parameters.
func WithConfig(cfg types.GameConfig) Option {
	return func(g *Game) {
		g.cfg = cfg
	}
}

// WithRandomness sets the contest randomness source. The default draws from
// crypto/rand.
func WithRandomness(src types.RandomnessSource) Option {
	return func(g *Game) {
		g.rand = src
	}
}

// WithEventSink adds a receiver for victory events.
func WithEventSink(sink types.EventSink) Option {
	return func(g *Game) {
		g.sinks = append(g.sinks, sink)
	}
}

// WithLogger sets the game logger.
func WithLogger(log btclog.Logger) Option {
	return func(g *Game) {
		g.log = log
	}
}

// WithMetrics records operation counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Game) {
		g.metrics = m
	}
}

// New returns a Game over store using the given collaborators.
func New(store types.Store, ledger types.ValueLedger, registry types.OwnershipRegistry, opts ...Option) (*Game, error) {
	if store == nil || ledger == nil || registry == nil {
		return nil, errors.New("game: store, ledger and registry are required")
	}
	g := &Game{
		store:    store,
		ledger:   ledger,
		registry: registry,
		rand:     random.Crypto{},
		log:      btclog.Disabled,
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}
	return g, nil
}

// Config returns the effective game parameters.
func (g *Game) Config() types.GameConfig {
	return g.cfg
}

// operation is the per-call view handed to mutating operations.
type operation struct {
	tx        types.Tx
	artifacts *ArtifactRegistry
	stakes    *StakeLedger
	undo      []func(ctx context.Context) error
}

func newOperation(tx types.Tx) *operation {
	return &operation{
		tx:        tx,
		artifacts: NewArtifactRegistry(tx),
		stakes:    NewStakeLedger(tx),
	}
}

// compensate registers fn to run if the operation fails later.
func (op *operation) compensate(fn func(ctx context.Context) error) {
	op.undo = append(op.undo, fn)
}

// update runs fn as one serialized transaction.
func (g *Game) update(ctx context.Context, name string, fn func(ctx context.Context, op *operation) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.store.Update(ctx, func(ctx context.Context, tx types.Tx) error {
		op := newOperation(tx)
		if err := fn(ctx, op); err != nil {
			g.unwind(ctx, name, op)
			return err
		}
		return nil
	})
	if err != nil {
		g.log.Debugf("%s rejected: %v", name, err)
		if g.metrics != nil {
			g.metrics.Rejected.WithLabelValues(name).Inc()
		}
	}
	return err
}

// view runs fn in a read-only transaction.
func (g *Game) view(ctx context.Context, fn func(ctx context.Context, op *operation) error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.store.View(ctx, func(ctx context.Context, tx types.Tx) error {
		return fn(ctx, newOperation(tx))
	})
}

func (g *Game) unwind(ctx context.Context, name string, op *operation) {
	for i := len(op.undo) - 1; i >= 0; i-- {
		if err := op.undo[i](ctx); err != nil {
			g.log.Errorf("%s: compensation %d failed: %v", name, i, err)
		}
	}
}

// pull moves amount from caller into the game and registers the refund as
// compensation.
func (g *Game) pull(ctx context.Context, op *operation, from types.Address, amount decimal.Decimal) error {
	if err := g.ledger.Pull(ctx, from, amount); err != nil {
		if errors.Is(err, types.ErrTransferFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", types.ErrTransferFailed, err)
	}
	op.compensate(func(ctx context.Context) error {
		return g.ledger.Push(ctx, from, amount)
	})
	return nil
}

// ownerOf wraps registry lookups with the artifact id.
func (g *Game) ownerOf(ctx context.Context, id types.ArtifactID) (types.Address, error) {
	owner, err := g.registry.OwnerOf(ctx, id)
	if err != nil {
		return "", fmt.Errorf("owner of %d: %w", id, err)
	}
	return owner, nil
}
