package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContestRecord is the history entry written for every resolved challenge.
type ContestRecord struct {
	// ContestID is a UUID v7 generated at resolution.
	ContestID string `json:"contest_id"`

	OriginalID ArtifactID `json:"original_id"`
	Challenger Address    `json:"challenger"`
	Defender   Address    `json:"defender"`

	// ChallengerStake is the amount pulled from the challenger.
	ChallengerStake decimal.Decimal `json:"challenger_stake"`

	// DefenderStake is the recorded defense before resolution, without the floor.
	DefenderStake decimal.Decimal `json:"defender_stake"`

	// WinProbability is the challenger's chance to win.
	WinProbability decimal.Decimal `json:"win_probability"`

	// Draw is the uniform sample in [0,1) that decided the contest.
	Draw float64 `json:"draw"`

	ChallengerWon bool `json:"challenger_won"`

	// StakeAfter is the artifact's stake entry after disposition.
	StakeAfter decimal.Decimal `json:"stake_after"`

	CreatedAt time.Time `json:"created_at"`
}

// Winner returns the address that holds the Original after the contest.
func (r ContestRecord) Winner() Address {
	if r.ChallengerWon {
		return r.Challenger
	}
	return r.Defender
}
