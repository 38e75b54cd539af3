package sqlite

import (
	"context"
	"testing"

	"github.com/mesh-intelligence/poneglyph/internal/metrics"
)

func TestCounters_AddAccumulates(t *testing.T) {
	b := newTestBackend(t)
	c := NewCounters(b)
	ctx := context.Background()

	if err := c.Add(ctx, nil); err != nil {
		t.Fatalf("Add with no samples failed: %v", err)
	}
	first := []metrics.Sample{
		{Name: "poneglyph_deposits_total", Value: 1},
		{Name: "poneglyph_rejected_total", Label: "mint", Value: 1},
	}
	if err := c.Add(ctx, first); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := c.Add(ctx, []metrics.Sample{{Name: "poneglyph_deposits_total", Value: 2}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all, err := c.All(ctx)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 counters, got %d", len(all))
	}
	if all[0].Name != "poneglyph_deposits_total" || all[0].Value != 3 {
		t.Errorf("expected deposits total 3, got %+v", all[0])
	}
	if all[1].Label != "mint" || all[1].Value != 1 {
		t.Errorf("expected rejected{mint} 1, got %+v", all[1])
	}
}
