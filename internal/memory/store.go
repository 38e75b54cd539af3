// Package memory provides in-process implementations of the game store and
// of the value ledger and ownership registry collaborators.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var _ types.Store = (*Store)(nil)

// Store keeps artifacts in an arena indexed by id. Update works on a copy of
// the state and swaps it in only when fn succeeds.
type Store struct {
	mu    sync.RWMutex
	state state
}

type state struct {
	artifacts []types.Artifact
	stakes    map[types.ArtifactID]types.StakeEntry
	contests  []types.ContestRecord
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{state: state{stakes: make(map[types.ArtifactID]types.StakeEntry)}}
}

func (s state) clone() state {
	c := state{
		artifacts: make([]types.Artifact, len(s.artifacts)),
		stakes:    make(map[types.ArtifactID]types.StakeEntry, len(s.stakes)),
		contests:  make([]types.ContestRecord, len(s.contests)),
	}
	copy(c.artifacts, s.artifacts)
	copy(c.contests, s.contests)
	for k, v := range s.stakes {
		c.stakes[k] = v
	}
	return c
}

// Update implements types.Store.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, tx types.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{state: s.state.clone()}
	if err := fn(ctx, t); err != nil {
		return err
	}
	s.state = t.state
	return nil
}

// View implements types.Store.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx types.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(ctx, &tx{state: s.state, readOnly: true})
}

type tx struct {
	state    state
	readOnly bool
}

var errReadOnly = fmt.Errorf("memory: write in read-only transaction")

func (t *tx) GetArtifact(id types.ArtifactID) (types.Artifact, error) {
	if id < 0 || int(id) >= len(t.state.artifacts) {
		return types.Artifact{}, fmt.Errorf("%w: %d", types.ErrUnknownArtifact, id)
	}
	return t.state.artifacts[id], nil
}

func (t *tx) ListArtifacts() ([]types.Artifact, error) {
	out := make([]types.Artifact, len(t.state.artifacts))
	copy(out, t.state.artifacts)
	return out, nil
}

func (t *tx) InsertArtifact(a types.Artifact) error {
	if t.readOnly {
		return errReadOnly
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if int(a.ID) != len(t.state.artifacts) {
		return fmt.Errorf("%w: id %d, next is %d", types.ErrInvalidID, a.ID, len(t.state.artifacts))
	}
	t.state.artifacts = append(t.state.artifacts, a)
	return nil
}

func (t *tx) NextArtifactID() (types.ArtifactID, error) {
	return types.ArtifactID(len(t.state.artifacts)), nil
}

func (t *tx) OriginalCount() (int, error) {
	n := 0
	for _, a := range t.state.artifacts {
		if a.IsOriginal() {
			n++
		}
	}
	return n, nil
}

func (t *tx) GetStake(id types.ArtifactID) (decimal.Decimal, error) {
	return t.state.stakes[id].Amount, nil
}

func (t *tx) PutStake(id types.ArtifactID, amount decimal.Decimal) error {
	if t.readOnly {
		return errReadOnly
	}
	if amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	t.state.stakes[id] = types.StakeEntry{ArtifactID: id, Amount: amount, UpdatedAt: time.Now().UTC()}
	return nil
}

func (t *tx) ListStakes() ([]types.StakeEntry, error) {
	out := make([]types.StakeEntry, 0, len(t.state.stakes))
	for _, e := range t.state.stakes {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ArtifactID < out[j].ArtifactID })
	return out, nil
}

func (t *tx) AppendContest(rec types.ContestRecord) error {
	if t.readOnly {
		return errReadOnly
	}
	t.state.contests = append(t.state.contests, rec)
	return nil
}

func (t *tx) ListContests(originalID types.ArtifactID) ([]types.ContestRecord, error) {
	var out []types.ContestRecord
	for _, rec := range t.state.contests {
		if originalID < 0 || rec.OriginalID == originalID {
			out = append(out, rec)
		}
	}
	return out, nil
}
