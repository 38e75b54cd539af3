package types

import (
	"fmt"
	"strconv"
	"time"
)

// ArtifactID addresses an artifact. Originals use 0..N-1; copies are numbered
// from N upward in creation order.
type ArtifactID int64

// String returns the decimal form of the id.
func (id ArtifactID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseArtifactID parses a decimal artifact id.
func ParseArtifactID(s string) (ArtifactID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ArtifactID(n), nil
}

// Address identifies a participant on the ledger and the registry.
type Address string

// Validate returns ErrInvalidAddress for the empty address.
func (a Address) Validate() error {
	if a == "" {
		return ErrInvalidAddress
	}
	return nil
}

// Artifact kinds.
const (
	KindOriginal = "original"
	KindCopy     = "copy"
)

// Artifact is an Original or a Copy. Kind and OriginalRef never change after
// creation.
type Artifact struct {
	// ID is the stable integer id of the artifact.
	ID ArtifactID `json:"id"`

	// Kind is KindOriginal or KindCopy.
	Kind string `json:"kind"`

	// OriginalRef names the Original a Copy derives from; nil for Originals.
	OriginalRef *ArtifactID `json:"original_ref,omitempty"`

	// CreatedAt is the timestamp of registration.
	CreatedAt time.Time `json:"created_at"`
}

// IsOriginal reports whether the artifact is a genesis Original.
func (a Artifact) IsOriginal() bool {
	return a.Kind == KindOriginal
}

// IsCopy reports whether the artifact is a Copy.
func (a Artifact) IsCopy() bool {
	return a.Kind == KindCopy
}

// Validate checks the kind/originalRef pairing.
func (a Artifact) Validate() error {
	switch a.Kind {
	case KindOriginal:
		if a.OriginalRef != nil {
			return fmt.Errorf("%w: original %d carries an original ref", ErrInvalidData, a.ID)
		}
	case KindCopy:
		if a.OriginalRef == nil {
			return fmt.Errorf("%w: copy %d has no original ref", ErrInvalidData, a.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKind, a.Kind)
	}
	return nil
}

// NewOriginal returns a genesis Original.
func NewOriginal(id ArtifactID) Artifact {
	return Artifact{ID: id, Kind: KindOriginal, CreatedAt: time.Now().UTC()}
}

// NewCopy returns a Copy of original.
func NewCopy(id, original ArtifactID) Artifact {
	ref := original
	return Artifact{ID: id, Kind: KindCopy, OriginalRef: &ref, CreatedAt: time.Now().UTC()}
}

// Holding pairs an artifact with the address that currently owns it.
type Holding struct {
	Artifact
	Holder Address `json:"holder"`
}
