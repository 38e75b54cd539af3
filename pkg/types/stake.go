package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// StakeEntry is the accumulated stake recorded against one artifact.
// Entries are created on the first credit and never removed.
type StakeEntry struct {
	ArtifactID ArtifactID      `json:"artifact_id"`
	Amount     decimal.Decimal `json:"amount"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ValidateAmount returns ErrInvalidAmount unless amount is strictly positive.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
