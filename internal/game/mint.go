package game

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// MintCopy issues a new Copy of originalID to caller. The fee is pulled from
// caller and credited to the Original's stake. Any positive fee is accepted.
func (g *Game) MintCopy(ctx context.Context, caller types.Address, originalID types.ArtifactID, fee decimal.Decimal) (types.Artifact, error) {
	if err := caller.Validate(); err != nil {
		return types.Artifact{}, err
	}

	var minted types.Artifact
	err := g.update(ctx, opMint, func(ctx context.Context, op *operation) error {
		kind, err := op.artifacts.KindOf(originalID)
		if err != nil {
			return err
		}
		if kind != types.KindOriginal {
			return types.ErrCopyOfCopy
		}
		if err := types.ValidateAmount(fee); err != nil {
			return err
		}
		if err := g.pull(ctx, op, caller, fee); err != nil {
			return err
		}
		if _, err := op.stakes.Credit(originalID, fee); err != nil {
			return err
		}
		minted, err = op.artifacts.RegisterCopy(originalID)
		if err != nil {
			return err
		}
		if err := g.registry.Mint(ctx, minted.ID, caller); err != nil {
			return fmt.Errorf("mint copy %d: %w", minted.ID, err)
		}
		return nil
	})
	if err != nil {
		return types.Artifact{}, err
	}

	g.log.Infof("mint: %s minted copy %d of %d for %s", caller, minted.ID, originalID, fee)
	if g.metrics != nil {
		g.metrics.Mints.Inc()
		g.metrics.AddStake(opMint, fee)
	}
	return minted, nil
}
