package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var _ types.ValueLedger = (*Ledger)(nil)

// Ledger is a fungible-token ledger kept in the game database. The game is
// its only spender; value it pulls sits in the reserve row.
type Ledger struct {
	backend *Backend
}

// NewLedger returns a ledger stored in b.
func NewLedger(b *Backend) *Ledger {
	return &Ledger{backend: b}
}

func amountOf(ctx context.Context, q querier, table string, addr types.Address) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := q.QueryRowContext(ctx, "SELECT amount FROM "+table+" WHERE address = ?", string(addr)).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("read %s of %s: %w", table, addr, err)
	}
	return amount, nil
}

func setAmount(ctx context.Context, q querier, table string, addr types.Address, amount decimal.Decimal) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO "+table+" (address, amount) VALUES (?, ?) ON CONFLICT(address) DO UPDATE SET amount = excluded.amount",
		string(addr), amount.String())
	if err != nil {
		return fmt.Errorf("write %s of %s: %w", table, addr, err)
	}
	return nil
}

func validateHolder(addr types.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	if addr == reserveAddress {
		return fmt.Errorf("%w: %s is reserved", types.ErrInvalidAddress, addr)
	}
	return nil
}

// Fund credits amount to the holder's balance.
func (l *Ledger) Fund(ctx context.Context, to types.Address, amount decimal.Decimal) error {
	if err := validateHolder(to); err != nil {
		return err
	}
	if err := types.ValidateAmount(amount); err != nil {
		return err
	}
	return l.backend.withConn(ctx, func(q querier) error {
		bal, err := amountOf(ctx, q, "balances", to)
		if err != nil {
			return err
		}
		return setAmount(ctx, q, "balances", to, bal.Add(amount))
	})
}

// Approve sets the amount the game may pull from owner, replacing the
// previous allowance.
func (l *Ledger) Approve(ctx context.Context, owner types.Address, amount decimal.Decimal) error {
	if err := validateHolder(owner); err != nil {
		return err
	}
	if amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	return l.backend.withConn(ctx, func(q querier) error {
		return setAmount(ctx, q, "allowances", owner, amount)
	})
}

// BalanceOf returns the holder's balance.
func (l *Ledger) BalanceOf(ctx context.Context, holder types.Address) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := l.backend.withConn(ctx, func(q querier) error {
		var err error
		out, err = amountOf(ctx, q, "balances", holder)
		return err
	})
	return out, err
}

// Allowance returns what the game may still pull from owner.
func (l *Ledger) Allowance(ctx context.Context, owner types.Address) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := l.backend.withConn(ctx, func(q querier) error {
		var err error
		out, err = amountOf(ctx, q, "allowances", owner)
		return err
	})
	return out, err
}

// Reserve returns the value currently held by the game.
func (l *Ledger) Reserve(ctx context.Context) (decimal.Decimal, error) {
	return l.BalanceOf(ctx, reserveAddress)
}

// Pull implements types.ValueLedger.
func (l *Ledger) Pull(ctx context.Context, from types.Address, amount decimal.Decimal) error {
	if err := types.ValidateAmount(amount); err != nil {
		return err
	}
	if err := validateHolder(from); err != nil {
		return err
	}
	return l.backend.withConn(ctx, func(q querier) error {
		allowance, err := amountOf(ctx, q, "allowances", from)
		if err != nil {
			return err
		}
		if allowance.LessThan(amount) {
			return fmt.Errorf("%w: %w: %s has %s, needs %s",
				types.ErrTransferFailed, types.ErrInsufficientAllowance, from, allowance, amount)
		}
		bal, err := amountOf(ctx, q, "balances", from)
		if err != nil {
			return err
		}
		if bal.LessThan(amount) {
			return fmt.Errorf("%w: %w: %s has %s, needs %s",
				types.ErrTransferFailed, types.ErrInsufficientBalance, from, bal, amount)
		}
		reserve, err := amountOf(ctx, q, "balances", reserveAddress)
		if err != nil {
			return err
		}
		if err := setAmount(ctx, q, "allowances", from, allowance.Sub(amount)); err != nil {
			return err
		}
		if err := setAmount(ctx, q, "balances", from, bal.Sub(amount)); err != nil {
			return err
		}
		return setAmount(ctx, q, "balances", reserveAddress, reserve.Add(amount))
	})
}

// Push implements types.ValueLedger.
func (l *Ledger) Push(ctx context.Context, to types.Address, amount decimal.Decimal) error {
	if err := types.ValidateAmount(amount); err != nil {
		return err
	}
	if err := validateHolder(to); err != nil {
		return err
	}
	return l.backend.withConn(ctx, func(q querier) error {
		reserve, err := amountOf(ctx, q, "balances", reserveAddress)
		if err != nil {
			return err
		}
		if reserve.LessThan(amount) {
			return fmt.Errorf("%w: %w: reserve %s, needs %s",
				types.ErrTransferFailed, types.ErrInsufficientBalance, reserve, amount)
		}
		bal, err := amountOf(ctx, q, "balances", to)
		if err != nil {
			return err
		}
		if err := setAmount(ctx, q, "balances", reserveAddress, reserve.Sub(amount)); err != nil {
			return err
		}
		return setAmount(ctx, q, "balances", to, bal.Add(amount))
	})
}
