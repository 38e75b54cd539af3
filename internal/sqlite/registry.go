package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var _ types.OwnershipRegistry = (*Registry)(nil)

// Registry records artifact ownership in the owners table.
type Registry struct {
	backend *Backend
}

// NewRegistry returns a registry stored in b.
func NewRegistry(b *Backend) *Registry {
	return &Registry{backend: b}
}

func ownerOf(ctx context.Context, q querier, id types.ArtifactID) (types.Address, bool, error) {
	var owner string
	err := q.QueryRowContext(ctx, "SELECT address FROM owners WHERE artifact_id = ?", int64(id)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("owner of %d: %w", id, err)
	}
	return types.Address(owner), true, nil
}

// OwnerOf implements types.OwnershipRegistry.
func (r *Registry) OwnerOf(ctx context.Context, id types.ArtifactID) (types.Address, error) {
	var owner types.Address
	err := r.backend.withConn(ctx, func(q querier) error {
		addr, ok, err := ownerOf(ctx, q, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", types.ErrNoOwner, id)
		}
		owner = addr
		return nil
	})
	return owner, err
}

// Mint implements types.OwnershipRegistry.
func (r *Registry) Mint(ctx context.Context, id types.ArtifactID, to types.Address) error {
	if err := to.Validate(); err != nil {
		return err
	}
	return r.backend.withConn(ctx, func(q querier) error {
		_, ok, err := ownerOf(ctx, q, id)
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: %d", types.ErrAlreadyMinted, id)
		}
		_, err = q.ExecContext(ctx, "INSERT INTO owners (artifact_id, address) VALUES (?, ?)", int64(id), string(to))
		if err != nil {
			return fmt.Errorf("mint %d: %w", id, err)
		}
		return nil
	})
}

// Transfer implements types.OwnershipRegistry.
func (r *Registry) Transfer(ctx context.Context, id types.ArtifactID, to types.Address) error {
	if err := to.Validate(); err != nil {
		return err
	}
	return r.backend.withConn(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, "UPDATE owners SET address = ? WHERE artifact_id = ?", string(to), int64(id))
		if err != nil {
			return fmt.Errorf("transfer %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("transfer %d: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %d", types.ErrNoOwner, id)
		}
		return nil
	})
}

// Burn implements types.OwnershipRegistry.
func (r *Registry) Burn(ctx context.Context, id types.ArtifactID) error {
	return r.backend.withConn(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, "DELETE FROM owners WHERE artifact_id = ?", int64(id))
		if err != nil {
			return fmt.Errorf("burn %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("burn %d: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("%w: %d", types.ErrNoOwner, id)
		}
		return nil
	})
}

// TokensOf implements types.OwnershipRegistry.
func (r *Registry) TokensOf(ctx context.Context, holder types.Address) ([]types.ArtifactID, error) {
	var ids []types.ArtifactID
	err := r.backend.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx,
			"SELECT artifact_id FROM owners WHERE address = ? ORDER BY artifact_id", string(holder))
		if err != nil {
			return fmt.Errorf("tokens of %s: %w", holder, err)
		}
		defer rows.Close()
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("scan token: %w", err)
			}
			ids = append(ids, types.ArtifactID(id))
		}
		return rows.Err()
	})
	return ids, err
}
