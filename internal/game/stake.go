package game

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// StakeLedger keeps the accumulated stake of each artifact.
type StakeLedger struct {
	tx types.Tx
}

// NewStakeLedger returns a ledger bound to tx.
func NewStakeLedger(tx types.Tx) *StakeLedger {
	return &StakeLedger{tx: tx}
}

// Amount returns the recorded stake, zero when none.
func (l *StakeLedger) Amount(id types.ArtifactID) (decimal.Decimal, error) {
	return l.tx.GetStake(id)
}

// Credit adds amount and returns the new total.
func (l *StakeLedger) Credit(id types.ArtifactID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := types.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}
	cur, err := l.tx.GetStake(id)
	if err != nil {
		return decimal.Zero, err
	}
	total := cur.Add(amount)
	if err := l.tx.PutStake(id, total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Reset replaces the stake with amount.
func (l *StakeLedger) Reset(id types.ArtifactID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	return l.tx.PutStake(id, amount)
}

// Deposit pulls amount from caller and credits it to an artifact the caller
// holds. Returns the new stake total.
func (g *Game) Deposit(ctx context.Context, caller types.Address, id types.ArtifactID, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := caller.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := types.ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	var total decimal.Decimal
	err := g.update(ctx, opDeposit, func(ctx context.Context, op *operation) error {
		if _, err := op.artifacts.Get(id); err != nil {
			return err
		}
		owner, err := g.ownerOf(ctx, id)
		if err != nil {
			return err
		}
		if owner != caller {
			return fmt.Errorf("%w: %s does not hold %d", types.ErrNotHolder, caller, id)
		}
		if err := g.pull(ctx, op, caller, amount); err != nil {
			return err
		}
		total, err = op.stakes.Credit(id, amount)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}

	g.log.Infof("deposit: %s staked %s on %d (total %s)", caller, amount, id, total)
	if g.metrics != nil {
		g.metrics.Deposits.Inc()
		g.metrics.AddStake(opDeposit, amount)
	}
	return total, nil
}

// StakeOf returns the stake recorded against id.
func (g *Game) StakeOf(ctx context.Context, id types.ArtifactID) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := g.view(ctx, func(_ context.Context, op *operation) error {
		if _, err := op.artifacts.Get(id); err != nil {
			return err
		}
		var err error
		amount, err = op.stakes.Amount(id)
		return err
	})
	return amount, err
}

// Stakes lists every stake entry.
func (g *Game) Stakes(ctx context.Context) ([]types.StakeEntry, error) {
	var entries []types.StakeEntry
	err := g.view(ctx, func(_ context.Context, op *operation) error {
		var err error
		entries, err = op.tx.ListStakes()
		return err
	})
	return entries, err
}
