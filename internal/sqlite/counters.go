package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/poneglyph/internal/metrics"
)

// Counters accumulates metric counter totals across processes.
type Counters struct {
	backend *Backend
}

// NewCounters returns counter totals stored in b.
func NewCounters(b *Backend) *Counters {
	return &Counters{backend: b}
}

// Add adds each sample to its stored total.
func (c *Counters) Add(ctx context.Context, samples []metrics.Sample) error {
	if len(samples) == 0 {
		return nil
	}
	return c.backend.withConn(ctx, func(q querier) error {
		for _, s := range samples {
			_, err := q.ExecContext(ctx,
				`INSERT INTO counters (name, label, value) VALUES (?, ?, ?)
ON CONFLICT (name, label) DO UPDATE SET value = value + excluded.value`,
				s.Name, s.Label, s.Value)
			if err != nil {
				return fmt.Errorf("add counter %s{%s}: %w", s.Name, s.Label, err)
			}
		}
		return nil
	})
}

// All returns every stored total ordered by name and label.
func (c *Counters) All(ctx context.Context) ([]metrics.Sample, error) {
	var out []metrics.Sample
	err := c.backend.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx, "SELECT name, label, value FROM counters ORDER BY name, label")
		if err != nil {
			return fmt.Errorf("list counters: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var s metrics.Sample
			if err := rows.Scan(&s.Name, &s.Label, &s.Value); err != nil {
				return fmt.Errorf("scan counter: %w", err)
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	return out, err
}
