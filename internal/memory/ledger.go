package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var _ types.ValueLedger = (*Ledger)(nil)

// Ledger is a fungible-token ledger with a single spender: the game.
// Allowances are what each holder has approved the game to pull.
type Ledger struct {
	mu         sync.Mutex
	balances   map[types.Address]decimal.Decimal
	allowances map[types.Address]decimal.Decimal
	reserve    decimal.Decimal
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		balances:   make(map[types.Address]decimal.Decimal),
		allowances: make(map[types.Address]decimal.Decimal),
	}
}

// Fund credits amount to the holder's balance.
func (l *Ledger) Fund(to types.Address, amount decimal.Decimal) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if err := types.ValidateAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] = l.balances[to].Add(amount)
	return nil
}

// Approve sets the amount the game may pull from owner. It replaces the
// previous allowance.
func (l *Ledger) Approve(owner types.Address, amount decimal.Decimal) error {
	if err := owner.Validate(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[owner] = amount
	return nil
}

// BalanceOf returns the holder's balance.
func (l *Ledger) BalanceOf(holder types.Address) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[holder]
}

// Allowance returns what the game may still pull from owner.
func (l *Ledger) Allowance(owner types.Address) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowances[owner]
}

// Reserve returns the value currently held by the game.
func (l *Ledger) Reserve() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserve
}

// Pull implements types.ValueLedger.
func (l *Ledger) Pull(_ context.Context, from types.Address, amount decimal.Decimal) error {
	if err := types.ValidateAmount(amount); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.allowances[from].LessThan(amount) {
		return fmt.Errorf("%w: %w: %s has %s, needs %s",
			types.ErrTransferFailed, types.ErrInsufficientAllowance, from, l.allowances[from], amount)
	}
	if l.balances[from].LessThan(amount) {
		return fmt.Errorf("%w: %w: %s has %s, needs %s",
			types.ErrTransferFailed, types.ErrInsufficientBalance, from, l.balances[from], amount)
	}
	l.allowances[from] = l.allowances[from].Sub(amount)
	l.balances[from] = l.balances[from].Sub(amount)
	l.reserve = l.reserve.Add(amount)
	return nil
}

// Push implements types.ValueLedger.
func (l *Ledger) Push(_ context.Context, to types.Address, amount decimal.Decimal) error {
	if err := types.ValidateAmount(amount); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.reserve.LessThan(amount) {
		return fmt.Errorf("%w: %w: reserve %s, needs %s",
			types.ErrTransferFailed, types.ErrInsufficientBalance, l.reserve, amount)
	}
	l.reserve = l.reserve.Sub(amount)
	l.balances[to] = l.balances[to].Add(amount)
	return nil
}
