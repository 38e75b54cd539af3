package types

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds backend selection and game parameters.
type Config struct {
	Backend string     `json:"backend" yaml:"backend"`
	DataDir string     `json:"data_dir" yaml:"data_dir"`
	Game    GameConfig `json:"game" yaml:"game"`
}

// GameConfig tunes genesis size and contest resolution.
type GameConfig struct {
	// Originals is the genesis count. Zero means DefaultOriginals.
	Originals int `json:"originals" yaml:"originals"`

	// MinDefense is the floor applied to a defender's stake when computing
	// the win probability. Empty means DefaultMinDefense.
	MinDefense string `json:"min_defense" yaml:"min_defense"`

	// OnWin is StakeMerge or StakeReset.
	OnWin string `json:"on_win" yaml:"on_win"`

	// OnLoss is StakeForfeit or StakeRefund.
	OnLoss string `json:"on_loss" yaml:"on_loss"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Stake disposition policies.
const (
	StakeMerge   = "merge"
	StakeReset   = "reset"
	StakeForfeit = "forfeit"
	StakeRefund  = "refund"
)

// Game defaults.
const (
	DefaultOriginals  = 4
	DefaultMinDefense = "1"
)

// Config validation errors.
var (
	ErrBackendEmpty      = errors.New("backend must not be empty")
	ErrBackendUnknown    = errors.New("unknown backend")
	ErrOriginalsInvalid  = errors.New("originals must be positive")
	ErrMinDefenseInvalid = errors.New("min defense must be a positive number")
	ErrPolicyUnknown     = errors.New("unknown stake policy")
)

var knownBackends = map[string]bool{
	BackendSQLite: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return c.Game.Validate()
}

// Validate checks the game parameters. Zero values are accepted and mean
// the defaults.
func (g GameConfig) Validate() error {
	if g.Originals < 0 {
		return ErrOriginalsInvalid
	}
	if g.MinDefense != "" {
		d, err := decimal.NewFromString(g.MinDefense)
		if err != nil || !d.IsPositive() {
			return fmt.Errorf("%w: %q", ErrMinDefenseInvalid, g.MinDefense)
		}
	}
	switch g.OnWin {
	case "", StakeMerge, StakeReset:
	default:
		return fmt.Errorf("%w: on_win %q", ErrPolicyUnknown, g.OnWin)
	}
	switch g.OnLoss {
	case "", StakeForfeit, StakeRefund:
	default:
		return fmt.Errorf("%w: on_loss %q", ErrPolicyUnknown, g.OnLoss)
	}
	return nil
}

// GetOriginals returns the genesis count with the default applied.
func (g GameConfig) GetOriginals() int {
	if g.Originals == 0 {
		return DefaultOriginals
	}
	return g.Originals
}

// GetMinDefense returns the defense floor with the default applied.
func (g GameConfig) GetMinDefense() decimal.Decimal {
	if g.MinDefense == "" {
		return decimal.RequireFromString(DefaultMinDefense)
	}
	d, err := decimal.NewFromString(g.MinDefense)
	if err != nil || !d.IsPositive() {
		return decimal.RequireFromString(DefaultMinDefense)
	}
	return d
}

// GetOnWin returns the win policy with the default applied.
func (g GameConfig) GetOnWin() string {
	if g.OnWin == "" {
		return StakeMerge
	}
	return g.OnWin
}

// GetOnLoss returns the loss policy with the default applied.
func (g GameConfig) GetOnLoss() string {
	if g.OnLoss == "" {
		return StakeForfeit
	}
	return g.OnLoss
}
