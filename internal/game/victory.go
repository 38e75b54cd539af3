package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// Victorious reports whether held completes the collection: exactly one
// Original from originals and, for every other Original, at least one Copy
// derived from it. It returns the held Original on success.
func Victorious(originals []types.Artifact, held []types.Artifact) (types.ArtifactID, bool) {
	genesis := make(map[types.ArtifactID]bool, len(originals))
	for _, o := range originals {
		genesis[o.ID] = true
	}

	var owned []types.ArtifactID
	copied := make(map[types.ArtifactID]bool)
	for _, a := range held {
		switch {
		case a.IsOriginal() && genesis[a.ID]:
			owned = append(owned, a.ID)
		case a.IsCopy():
			copied[*a.OriginalRef] = true
		}
	}
	if len(owned) != 1 {
		return 0, false
	}
	for _, o := range originals {
		if o.ID != owned[0] && !copied[o.ID] {
			return 0, false
		}
	}
	return owned[0], true
}

// CheckVictory evaluates holder's collection and emits a VictoryEvent to
// every sink when it is complete. It never changes game state and may be
// called by anyone, any number of times.
func (g *Game) CheckVictory(ctx context.Context, holder types.Address) (bool, error) {
	if err := holder.Validate(); err != nil {
		return false, err
	}

	var original types.ArtifactID
	var won bool
	err := g.view(ctx, func(ctx context.Context, op *operation) error {
		originals, err := op.artifacts.Originals()
		if err != nil {
			return err
		}
		if len(originals) == 0 {
			return types.ErrNotInitialized
		}
		held, err := g.holdings(ctx, op, holder)
		if err != nil {
			return err
		}
		original, won = Victorious(originals, held)
		return nil
	})
	if err != nil || !won {
		return false, err
	}

	ev := types.VictoryEvent{
		EventID:    uuid.Must(uuid.NewV7()).String(),
		Holder:     holder,
		OriginalID: original,
		CreatedAt:  time.Now().UTC(),
	}
	for _, sink := range g.sinks {
		if err := sink.Victory(ctx, ev); err != nil {
			return true, fmt.Errorf("emit victory: %w", err)
		}
	}
	g.log.Infof("victory: %s holds original %d and a copy of every other", holder, original)
	if g.metrics != nil {
		g.metrics.Victories.Inc()
	}
	return true, nil
}

// holdings resolves the registry's token list for holder into artifacts.
// Tokens the store never registered are skipped; any other lookup failure
// is returned.
func (g *Game) holdings(ctx context.Context, op *operation, holder types.Address) ([]types.Artifact, error) {
	ids, err := g.registry.TokensOf(ctx, holder)
	if err != nil {
		return nil, fmt.Errorf("tokens of %s: %w", holder, err)
	}
	out := make([]types.Artifact, 0, len(ids))
	for _, id := range ids {
		a, err := op.artifacts.Get(id)
		if errors.Is(err, types.ErrUnknownArtifact) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("holding %d: %w", id, err)
		}
		out = append(out, a)
	}
	return out, nil
}
