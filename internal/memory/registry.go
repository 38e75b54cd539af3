package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var _ types.OwnershipRegistry = (*Registry)(nil)

// Registry records one owner per artifact id.
type Registry struct {
	mu     sync.RWMutex
	owners map[types.ArtifactID]types.Address
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{owners: make(map[types.ArtifactID]types.Address)}
}

// OwnerOf implements types.OwnershipRegistry.
func (r *Registry) OwnerOf(_ context.Context, id types.ArtifactID) (types.Address, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owner, ok := r.owners[id]
	if !ok {
		return "", fmt.Errorf("%w: %d", types.ErrNoOwner, id)
	}
	return owner, nil
}

// Mint implements types.OwnershipRegistry.
func (r *Registry) Mint(_ context.Context, id types.ArtifactID, to types.Address) error {
	if err := to.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; ok {
		return fmt.Errorf("%w: %d", types.ErrAlreadyMinted, id)
	}
	r.owners[id] = to
	return nil
}

// Transfer implements types.OwnershipRegistry.
func (r *Registry) Transfer(_ context.Context, id types.ArtifactID, to types.Address) error {
	if err := to.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; !ok {
		return fmt.Errorf("%w: %d", types.ErrNoOwner, id)
	}
	r.owners[id] = to
	return nil
}

// Burn implements types.OwnershipRegistry.
func (r *Registry) Burn(_ context.Context, id types.ArtifactID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.owners[id]; !ok {
		return fmt.Errorf("%w: %d", types.ErrNoOwner, id)
	}
	delete(r.owners, id)
	return nil
}

// TokensOf implements types.OwnershipRegistry.
func (r *Registry) TokensOf(_ context.Context, holder types.Address) ([]types.ArtifactID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []types.ArtifactID
	for id, owner := range r.owners {
		if owner == holder {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
