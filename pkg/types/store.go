package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store persists artifacts, stakes and contest history. Every game
// operation runs inside exactly one Update or View call.
type Store interface {
	// Update runs fn in a read-write transaction. If fn returns an error
	// nothing fn wrote is kept. The ctx passed to fn carries the transaction
	// so collaborators backed by the same store join it.
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the transactional view of a Store.
type Tx interface {
	// GetArtifact returns ErrUnknownArtifact when id is not registered.
	GetArtifact(id ArtifactID) (Artifact, error)

	// ListArtifacts returns every artifact in id order.
	ListArtifacts() ([]Artifact, error)

	// InsertArtifact stores a new artifact. The id must equal NextArtifactID.
	InsertArtifact(a Artifact) error

	// NextArtifactID returns the id the next artifact will receive.
	NextArtifactID() (ArtifactID, error)

	// OriginalCount returns the size of the genesis set.
	OriginalCount() (int, error)

	// GetStake returns the recorded stake; zero when no entry exists.
	GetStake(id ArtifactID) (decimal.Decimal, error)

	// PutStake overwrites the stake entry for id.
	PutStake(id ArtifactID, amount decimal.Decimal) error

	// ListStakes returns every stake entry in artifact order.
	ListStakes() ([]StakeEntry, error)

	// AppendContest records a resolved challenge.
	AppendContest(rec ContestRecord) error

	// ListContests returns contests for originalID, oldest first. A negative
	// originalID lists all contests.
	ListContests(originalID ArtifactID) ([]ContestRecord, error)
}
