// Tests for the SQLite backend lifecycle and transactions.
package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	defer b.Detach()

	dbPath := filepath.Join(tmpDir, DBFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("%s not created", DBFileName)
	}

	if err := b.Attach(config); err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}
}

func TestBackend_AttachInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{DataDir: t.TempDir()})
	if !errors.Is(err, types.ErrBackendEmpty) {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend()
	b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	err := b.View(context.Background(), func(context.Context, types.Tx) error { return nil })
	if err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_ReattachKeepsState(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}
	ctx := context.Background()

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	err := b.Update(ctx, func(ctx context.Context, tx types.Tx) error {
		return tx.InsertArtifact(types.NewOriginal(0))
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	b.Detach()

	b2 := NewBackend()
	if err := b2.Attach(config); err != nil {
		t.Fatalf("reattach failed: %v", err)
	}
	defer b2.Detach()

	b2.View(ctx, func(ctx context.Context, tx types.Tx) error {
		n, err := tx.OriginalCount()
		if err != nil {
			t.Fatalf("OriginalCount failed: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 original after reattach, got %d", n)
		}
		return nil
	})
}

func TestBackend_UpdateRollsBack(t *testing.T) {
	b := newTestBackend(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := b.Update(ctx, func(ctx context.Context, tx types.Tx) error {
		if err := tx.InsertArtifact(types.NewOriginal(0)); err != nil {
			return err
		}
		if err := tx.PutStake(0, decimal.NewFromInt(3)); err != nil {
			return err
		}
		// Collaborator writes through ctx join the transaction.
		if err := NewRegistry(b).Mint(ctx, 0, "shanks"); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("expected fn error returned unwrapped, got %v", err)
	}

	b.View(ctx, func(ctx context.Context, tx types.Tx) error {
		arts, _ := tx.ListArtifacts()
		if len(arts) != 0 {
			t.Errorf("expected no artifacts after rollback, got %d", len(arts))
		}
		stake, _ := tx.GetStake(0)
		if !stake.IsZero() {
			t.Errorf("expected zero stake after rollback, got %s", stake)
		}
		return nil
	})
	if _, err := NewRegistry(b).OwnerOf(ctx, 0); !errors.Is(err, types.ErrNoOwner) {
		t.Errorf("expected registry mint rolled back, got %v", err)
	}
}

func TestBackend_ViewIsReadOnly(t *testing.T) {
	b := newTestBackend(t)
	err := b.View(context.Background(), func(ctx context.Context, tx types.Tx) error {
		return tx.InsertArtifact(types.NewOriginal(0))
	})
	if err != errReadOnly {
		t.Errorf("expected errReadOnly, got %v", err)
	}
}
