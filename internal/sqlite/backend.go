// Package sqlite implements the SQLite storage backend for the game, plus a
// local value ledger and ownership registry stored in the same database.
//
// Update binds its *sql.Tx to the context it hands to the callback. The local
// Ledger and Registry pick the transaction up from that context, so a game
// operation and its collaborator effects commit or roll back together.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/btcsuite/btclog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// DBFileName is the database file created inside DataDir.
const DBFileName = "poneglyph.db"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      btclog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the storage logger.
func WithLogger(log btclog.Logger) Option {
	return func(b *Backend) {
		b.log = log
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: btclog.Disabled}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens (or creates) the database in config.DataDir and applies the
// schema. Existing state is kept.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return err
	}
	// One connection: every statement of an operation goes through the
	// transaction carried in its context.
	db.SetMaxOpenConns(1)

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true
	b.log.Debugf("attached %s", dbPath)
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.db.Close(); err != nil {
		return err
	}
	b.db = nil
	b.attached = false
	b.log.Debugf("detached")
	return nil
}

// Config returns the configuration passed to Attach.
func (b *Backend) Config() types.Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// txFrom returns the transaction bound to ctx by Update or View.
func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// Update implements types.Store.
func (b *Backend) Update(ctx context.Context, fn func(ctx context.Context, tx types.Tx) error) error {
	return b.run(ctx, false, fn)
}

// View implements types.Store. The transaction is always rolled back.
func (b *Backend) View(ctx context.Context, fn func(ctx context.Context, tx types.Tx) error) error {
	return b.run(ctx, true, fn)
}

func (b *Backend) run(ctx context.Context, readOnly bool, fn func(ctx context.Context, tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	if _, nested := txFrom(ctx); nested {
		return fmt.Errorf("sqlite: nested transaction")
	}

	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	txCtx := context.WithValue(ctx, txKey{}, sqlTx)

	if err := fn(txCtx, &storeTx{ctx: txCtx, q: sqlTx, readOnly: readOnly}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			b.log.Errorf("rollback: %v", rbErr)
		}
		return err
	}
	if readOnly {
		return sqlTx.Rollback()
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// withConn runs fn on the transaction carried by ctx, or in a fresh
// transaction when there is none. Used by the local ledger and registry.
func (b *Backend) withConn(ctx context.Context, fn func(q querier) error) error {
	if tx, ok := txFrom(ctx); ok {
		return fn(tx)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
