package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// ValueLedger moves fungible value between participants and the game.
type ValueLedger interface {
	// Pull moves amount from the from address into the game. It fails when
	// the game's allowance or the sender's balance is below amount.
	Pull(ctx context.Context, from Address, amount decimal.Decimal) error

	// Push returns amount held by the game to the given address.
	Push(ctx context.Context, to Address, amount decimal.Decimal) error
}

// OwnershipRegistry records who holds each artifact.
type OwnershipRegistry interface {
	// OwnerOf returns the current holder. Returns ErrNoOwner for an id that
	// was never minted.
	OwnerOf(ctx context.Context, id ArtifactID) (Address, error)

	// Mint records the first holder of a new artifact.
	Mint(ctx context.Context, id ArtifactID, to Address) error

	// Transfer moves an existing artifact to a new holder.
	Transfer(ctx context.Context, id ArtifactID, to Address) error

	// Burn removes a minted artifact. The game only burns to undo a mint of
	// an operation that failed. Returns ErrNoOwner for an id never minted.
	Burn(ctx context.Context, id ArtifactID) error

	// TokensOf lists the artifact ids the holder owns, in ascending order.
	TokensOf(ctx context.Context, holder Address) ([]ArtifactID, error)
}

// RandomnessSource supplies one uniformly distributed value in [0,1) per call.
type RandomnessSource interface {
	Draw(ctx context.Context) (float64, error)
}

// EventSink receives events emitted by the game.
type EventSink interface {
	Victory(ctx context.Context, ev VictoryEvent) error
}
