package game

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/internal/metrics"
	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// WinProbability returns stake / (stake + max(defense, floor)). The floor
// keeps an undefended Original from flipping with certainty.
func WinProbability(stake, defense, floor decimal.Decimal) decimal.Decimal {
	d := decimal.Max(defense, floor)
	total := stake.Add(d)
	if !total.IsPositive() {
		return decimal.Zero
	}
	return stake.Div(total)
}

// ChallengeOriginal contests the holder of originalID. The caller must hold
// no Original. The stake is pulled before the draw; the challenger wins when
// the draw falls below WinProbability.
func (g *Game) ChallengeOriginal(ctx context.Context, caller types.Address, originalID types.ArtifactID, stake decimal.Decimal) (types.ContestRecord, error) {
	if err := caller.Validate(); err != nil {
		return types.ContestRecord{}, err
	}

	var rec types.ContestRecord
	err := g.update(ctx, opChallenge, func(ctx context.Context, op *operation) error {
		target, err := op.artifacts.Get(originalID)
		if err != nil {
			return err
		}
		if !target.IsOriginal() {
			return fmt.Errorf("%w: %w: %d", types.ErrUnknownArtifact, types.ErrNotOriginal, originalID)
		}

		originals, err := op.artifacts.Originals()
		if err != nil {
			return err
		}
		var defender types.Address
		for _, o := range originals {
			owner, err := g.ownerOf(ctx, o.ID)
			if err != nil {
				return err
			}
			if owner == caller {
				return types.ErrAlreadyOwnsOriginal
			}
			if o.ID == originalID {
				defender = owner
			}
		}

		if err := types.ValidateAmount(stake); err != nil {
			return err
		}
		if err := g.pull(ctx, op, caller, stake); err != nil {
			return err
		}

		defense, err := op.stakes.Amount(originalID)
		if err != nil {
			return err
		}
		p := WinProbability(stake, defense, g.cfg.GetMinDefense())
		draw, err := g.rand.Draw(ctx)
		if err != nil {
			return fmt.Errorf("contest draw: %w", err)
		}
		won := decimal.NewFromFloat(draw).LessThan(p)

		rec = types.ContestRecord{
			ContestID:       uuid.Must(uuid.NewV7()).String(),
			OriginalID:      originalID,
			Challenger:      caller,
			Defender:        defender,
			ChallengerStake: stake,
			DefenderStake:   defense,
			WinProbability:  p,
			Draw:            draw,
			ChallengerWon:   won,
			CreatedAt:       time.Now().UTC(),
		}
		return g.settle(ctx, op, &rec)
	})
	if err != nil {
		return types.ContestRecord{}, err
	}

	outcome := metrics.OutcomeDefended
	if rec.ChallengerWon {
		outcome = metrics.OutcomeWon
	}
	g.log.Infof("challenge: %s vs %s on %d staked %s against %s, p=%s draw=%.6f: %s",
		caller, rec.Defender, originalID, stake, rec.DefenderStake, rec.WinProbability.StringFixed(6), rec.Draw, outcome)
	if g.metrics != nil {
		g.metrics.Challenges.WithLabelValues(outcome).Inc()
		g.metrics.AddStake(opChallenge, stake)
	}
	return rec, nil
}

// settle applies the stake policy, records the contest and moves ownership.
// Refunds run last since they cannot be compensated.
func (g *Game) settle(ctx context.Context, op *operation, rec *types.ContestRecord) error {
	var refundTo types.Address
	var refund decimal.Decimal

	switch {
	case rec.ChallengerWon && g.cfg.GetOnWin() == types.StakeReset:
		if err := op.stakes.Reset(rec.OriginalID, rec.ChallengerStake); err != nil {
			return err
		}
		refundTo, refund = rec.Defender, rec.DefenderStake
		rec.StakeAfter = rec.ChallengerStake
	case !rec.ChallengerWon && g.cfg.GetOnLoss() == types.StakeRefund:
		refundTo, refund = rec.Challenger, rec.ChallengerStake
		rec.StakeAfter = rec.DefenderStake
	default:
		total, err := op.stakes.Credit(rec.OriginalID, rec.ChallengerStake)
		if err != nil {
			return err
		}
		rec.StakeAfter = total
	}

	if err := op.tx.AppendContest(*rec); err != nil {
		return fmt.Errorf("record contest: %w", err)
	}

	if rec.ChallengerWon {
		if err := g.registry.Transfer(ctx, rec.OriginalID, rec.Challenger); err != nil {
			return fmt.Errorf("transfer %d: %w", rec.OriginalID, err)
		}
		defender, id := rec.Defender, rec.OriginalID
		op.compensate(func(ctx context.Context) error {
			return g.registry.Transfer(ctx, id, defender)
		})
	}

	if refund.IsPositive() {
		if err := g.ledger.Push(ctx, refundTo, refund); err != nil {
			return fmt.Errorf("%w: refund %s to %s: %w", types.ErrTransferFailed, refund, refundTo, err)
		}
	}
	return nil
}

// Contests returns the challenge history of originalID, oldest first. A
// negative id returns the history of every Original.
func (g *Game) Contests(ctx context.Context, originalID types.ArtifactID) ([]types.ContestRecord, error) {
	var out []types.ContestRecord
	err := g.view(ctx, func(_ context.Context, op *operation) error {
		if originalID >= 0 {
			if _, err := op.artifacts.Get(originalID); err != nil {
				return err
			}
		}
		var err error
		out, err = op.tx.ListContests(originalID)
		return err
	})
	return out, err
}
