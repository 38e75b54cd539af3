package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var _ types.EventSink = (*EventLog)(nil)

// EventLog persists victory events to the victories table.
type EventLog struct {
	backend *Backend
}

// NewEventLog returns an event log stored in b.
func NewEventLog(b *Backend) *EventLog {
	return &EventLog{backend: b}
}

// Victory implements types.EventSink.
func (e *EventLog) Victory(ctx context.Context, ev types.VictoryEvent) error {
	return e.backend.withConn(ctx, func(q querier) error {
		_, err := q.ExecContext(ctx,
			"INSERT INTO victories (event_id, holder, original_id, created_at) VALUES (?, ?, ?, ?)",
			ev.EventID, string(ev.Holder), int64(ev.OriginalID), formatTime(ev.CreatedAt))
		if err != nil {
			return fmt.Errorf("record victory %s: %w", ev.EventID, err)
		}
		return nil
	})
}

// Victories returns recorded events, oldest first. An empty holder lists
// every event.
func (e *EventLog) Victories(ctx context.Context, holder types.Address) ([]types.VictoryEvent, error) {
	query := "SELECT event_id, holder, original_id, created_at FROM victories"
	var args []any
	if holder != "" {
		query += " WHERE holder = ?"
		args = append(args, string(holder))
	}
	query += " ORDER BY created_at, event_id"

	var out []types.VictoryEvent
	err := e.backend.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("list victories: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				ev      types.VictoryEvent
				created string
			)
			if err := rows.Scan(&ev.EventID, &ev.Holder, &ev.OriginalID, &created); err != nil {
				return fmt.Errorf("scan victory: %w", err)
			}
			if ev.CreatedAt, err = parseTime(created); err != nil {
				return err
			}
			out = append(out, ev)
		}
		return rows.Err()
	})
	return out, err
}
