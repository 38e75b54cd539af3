package types

import "time"

// VictoryEvent is emitted when a holder owns one Original and a Copy of every
// other Original.
type VictoryEvent struct {
	EventID    string     `json:"event_id"`
	Holder     Address    `json:"holder"`
	OriginalID ArtifactID `json:"original_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
