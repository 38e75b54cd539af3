package game

import (
	"fmt"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// ArtifactRegistry answers identity questions about artifacts and issues
// Copy ids. It works on one store transaction.
type ArtifactRegistry struct {
	tx types.Tx
}

// NewArtifactRegistry returns a registry bound to tx.
func NewArtifactRegistry(tx types.Tx) *ArtifactRegistry {
	return &ArtifactRegistry{tx: tx}
}

// Get returns the artifact or ErrUnknownArtifact.
func (r *ArtifactRegistry) Get(id types.ArtifactID) (types.Artifact, error) {
	return r.tx.GetArtifact(id)
}

// KindOf returns KindOriginal or KindCopy.
func (r *ArtifactRegistry) KindOf(id types.ArtifactID) (string, error) {
	a, err := r.tx.GetArtifact(id)
	if err != nil {
		return "", err
	}
	return a.Kind, nil
}

// OriginalRefOf returns the Original a Copy derives from. Returns ErrNotCopy
// for Originals.
func (r *ArtifactRegistry) OriginalRefOf(id types.ArtifactID) (types.ArtifactID, error) {
	a, err := r.tx.GetArtifact(id)
	if err != nil {
		return 0, err
	}
	if !a.IsCopy() {
		return 0, fmt.Errorf("%w: %d", types.ErrNotCopy, id)
	}
	return *a.OriginalRef, nil
}

// Originals returns the genesis set in id order.
func (r *ArtifactRegistry) Originals() ([]types.Artifact, error) {
	n, err := r.tx.OriginalCount()
	if err != nil {
		return nil, err
	}
	out := make([]types.Artifact, 0, n)
	for i := 0; i < n; i++ {
		a, err := r.tx.GetArtifact(types.ArtifactID(i))
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// RegisterOriginal appends a genesis Original. Originals must be registered
// before any Copy.
func (r *ArtifactRegistry) RegisterOriginal() (types.Artifact, error) {
	next, err := r.tx.NextArtifactID()
	if err != nil {
		return types.Artifact{}, err
	}
	n, err := r.tx.OriginalCount()
	if err != nil {
		return types.Artifact{}, err
	}
	if int(next) != n {
		return types.Artifact{}, types.ErrAlreadyInitialized
	}
	a := types.NewOriginal(next)
	if err := r.tx.InsertArtifact(a); err != nil {
		return types.Artifact{}, err
	}
	return a, nil
}

// RegisterCopy issues the next Copy id derived from originalID.
func (r *ArtifactRegistry) RegisterCopy(originalID types.ArtifactID) (types.Artifact, error) {
	orig, err := r.tx.GetArtifact(originalID)
	if err != nil {
		return types.Artifact{}, err
	}
	if !orig.IsOriginal() {
		return types.Artifact{}, fmt.Errorf("%w: %d", types.ErrNotOriginal, originalID)
	}
	next, err := r.tx.NextArtifactID()
	if err != nil {
		return types.Artifact{}, err
	}
	a := types.NewCopy(next, originalID)
	if err := r.tx.InsertArtifact(a); err != nil {
		return types.Artifact{}, err
	}
	return a, nil
}
