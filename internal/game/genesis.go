package game

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// Genesis registers the Originals and mints them in the registry. With a
// single holder every Original goes to that holder; otherwise holders[i]
// receives Original i and len(holders) must equal the configured count.
//
// Ids the registry already assigns to the intended holder are left as they
// are. Every mint Genesis makes is burned again if a later step fails.
func (g *Game) Genesis(ctx context.Context, holders ...types.Address) ([]types.Artifact, error) {
	n := g.cfg.GetOriginals()
	if len(holders) != 1 && len(holders) != n {
		return nil, fmt.Errorf("%w: got %d holders for %d originals", ErrHolderCount, len(holders), n)
	}
	for _, h := range holders {
		if err := h.Validate(); err != nil {
			return nil, err
		}
	}

	var originals []types.Artifact
	err := g.update(ctx, opGenesis, func(ctx context.Context, op *operation) error {
		next, err := op.tx.NextArtifactID()
		if err != nil {
			return err
		}
		if next != 0 {
			return types.ErrAlreadyInitialized
		}
		for i := 0; i < n; i++ {
			a, err := op.artifacts.RegisterOriginal()
			if err != nil {
				return err
			}
			originals = append(originals, a)
		}
		for i, a := range originals {
			to := holders[0]
			if len(holders) > 1 {
				to = holders[i]
			}
			if owner, err := g.registry.OwnerOf(ctx, a.ID); err == nil && owner == to {
				continue
			}
			if err := g.registry.Mint(ctx, a.ID, to); err != nil {
				return fmt.Errorf("mint original %d: %w", a.ID, err)
			}
			id := a.ID
			op.compensate(func(ctx context.Context) error {
				return g.registry.Burn(ctx, id)
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g.log.Infof("genesis: registered %d originals", len(originals))
	return originals, nil
}

// Artifact returns the artifact with the given id.
func (g *Game) Artifact(ctx context.Context, id types.ArtifactID) (types.Artifact, error) {
	var a types.Artifact
	err := g.view(ctx, func(_ context.Context, op *operation) error {
		var err error
		a, err = op.artifacts.Get(id)
		return err
	})
	return a, err
}

// Artifacts lists every artifact in id order.
func (g *Game) Artifacts(ctx context.Context) ([]types.Artifact, error) {
	var out []types.Artifact
	err := g.view(ctx, func(_ context.Context, op *operation) error {
		var err error
		out, err = op.tx.ListArtifacts()
		return err
	})
	return out, err
}

// Originals lists the genesis set.
func (g *Game) Originals(ctx context.Context) ([]types.Artifact, error) {
	var out []types.Artifact
	err := g.view(ctx, func(_ context.Context, op *operation) error {
		var err error
		out, err = op.artifacts.Originals()
		return err
	})
	return out, err
}

// HoldingsOf lists the artifacts holder currently owns.
func (g *Game) HoldingsOf(ctx context.Context, holder types.Address) ([]types.Holding, error) {
	if err := holder.Validate(); err != nil {
		return nil, err
	}
	var out []types.Holding
	err := g.view(ctx, func(ctx context.Context, op *operation) error {
		held, err := g.holdings(ctx, op, holder)
		if err != nil {
			return err
		}
		for _, a := range held {
			out = append(out, types.Holding{Artifact: a, Holder: holder})
		}
		return nil
	})
	return out, err
}
