package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

var errReadOnly = errors.New("sqlite: write in read-only transaction")

// storeTx implements types.Tx on one *sql.Tx.
type storeTx struct {
	ctx      context.Context
	q        querier
	readOnly bool
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", types.ErrInvalidData, s)
	}
	return t, nil
}

func (t *storeTx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (types.Artifact, error) {
	var (
		a       types.Artifact
		ref     sql.NullInt64
		created string
	)
	if err := row.Scan(&a.ID, &a.Kind, &ref, &created); err != nil {
		return types.Artifact{}, err
	}
	if ref.Valid {
		id := types.ArtifactID(ref.Int64)
		a.OriginalRef = &id
	}
	ts, err := parseTime(created)
	if err != nil {
		return types.Artifact{}, err
	}
	a.CreatedAt = ts
	return a, nil
}

func (t *storeTx) GetArtifact(id types.ArtifactID) (types.Artifact, error) {
	row := t.q.QueryRowContext(t.ctx,
		"SELECT artifact_id, kind, original_ref, created_at FROM artifacts WHERE artifact_id = ?", int64(id))
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Artifact{}, fmt.Errorf("%w: %d", types.ErrUnknownArtifact, id)
	}
	if err != nil {
		return types.Artifact{}, fmt.Errorf("get artifact %d: %w", id, err)
	}
	return a, nil
}

func (t *storeTx) ListArtifacts() ([]types.Artifact, error) {
	rows, err := t.q.QueryContext(t.ctx,
		"SELECT artifact_id, kind, original_ref, created_at FROM artifacts ORDER BY artifact_id")
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	var out []types.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (t *storeTx) InsertArtifact(a types.Artifact) error {
	if err := t.writable(); err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}
	next, err := t.NextArtifactID()
	if err != nil {
		return err
	}
	if a.ID != next {
		return fmt.Errorf("%w: id %d, next is %d", types.ErrInvalidID, a.ID, next)
	}

	var ref sql.NullInt64
	if a.OriginalRef != nil {
		ref = sql.NullInt64{Int64: int64(*a.OriginalRef), Valid: true}
	}
	_, err = t.q.ExecContext(t.ctx,
		"INSERT INTO artifacts (artifact_id, kind, original_ref, created_at) VALUES (?, ?, ?, ?)",
		int64(a.ID), a.Kind, ref, formatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert artifact %d: %w", a.ID, err)
	}
	return nil
}

func (t *storeTx) NextArtifactID() (types.ArtifactID, error) {
	var n int64
	err := t.q.QueryRowContext(t.ctx, "SELECT COALESCE(MAX(artifact_id) + 1, 0) FROM artifacts").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next artifact id: %w", err)
	}
	return types.ArtifactID(n), nil
}

func (t *storeTx) OriginalCount() (int, error) {
	var n int
	err := t.q.QueryRowContext(t.ctx,
		"SELECT COUNT(*) FROM artifacts WHERE kind = ?", types.KindOriginal).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count originals: %w", err)
	}
	return n, nil
}

func (t *storeTx) GetStake(id types.ArtifactID) (decimal.Decimal, error) {
	var amount decimal.Decimal
	err := t.q.QueryRowContext(t.ctx,
		"SELECT amount FROM stakes WHERE artifact_id = ?", int64(id)).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("get stake %d: %w", id, err)
	}
	return amount, nil
}

func (t *storeTx) PutStake(id types.ArtifactID, amount decimal.Decimal) error {
	if err := t.writable(); err != nil {
		return err
	}
	if amount.IsNegative() {
		return types.ErrInvalidAmount
	}
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO stakes (artifact_id, amount, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(artifact_id) DO UPDATE SET amount = excluded.amount, updated_at = excluded.updated_at`,
		int64(id), amount.String(), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("put stake %d: %w", id, err)
	}
	return nil
}

func (t *storeTx) ListStakes() ([]types.StakeEntry, error) {
	rows, err := t.q.QueryContext(t.ctx,
		"SELECT artifact_id, amount, updated_at FROM stakes ORDER BY artifact_id")
	if err != nil {
		return nil, fmt.Errorf("list stakes: %w", err)
	}
	defer rows.Close()

	var out []types.StakeEntry
	for rows.Next() {
		var (
			e       types.StakeEntry
			updated string
		)
		if err := rows.Scan(&e.ArtifactID, &e.Amount, &updated); err != nil {
			return nil, fmt.Errorf("scan stake: %w", err)
		}
		if e.UpdatedAt, err = parseTime(updated); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (t *storeTx) AppendContest(rec types.ContestRecord) error {
	if err := t.writable(); err != nil {
		return err
	}
	won := 0
	if rec.ChallengerWon {
		won = 1
	}
	_, err := t.q.ExecContext(t.ctx,
		`INSERT INTO contests (contest_id, seq, original_id, challenger, defender,
		    challenger_stake, defender_stake, win_probability, draw, challenger_won,
		    stake_after, created_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq) + 1, 0) FROM contests), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ContestID, int64(rec.OriginalID), string(rec.Challenger), string(rec.Defender),
		rec.ChallengerStake.String(), rec.DefenderStake.String(), rec.WinProbability.String(),
		rec.Draw, won, rec.StakeAfter.String(), formatTime(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("append contest %s: %w", rec.ContestID, err)
	}
	return nil
}

func (t *storeTx) ListContests(originalID types.ArtifactID) ([]types.ContestRecord, error) {
	query := `SELECT contest_id, original_id, challenger, defender, challenger_stake,
	    defender_stake, win_probability, draw, challenger_won, stake_after, created_at
	    FROM contests`
	var args []any
	if originalID >= 0 {
		query += " WHERE original_id = ?"
		args = append(args, int64(originalID))
	}
	query += " ORDER BY seq"

	rows, err := t.q.QueryContext(t.ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contests: %w", err)
	}
	defer rows.Close()

	var out []types.ContestRecord
	for rows.Next() {
		var (
			rec     types.ContestRecord
			won     int
			created string
		)
		err := rows.Scan(&rec.ContestID, &rec.OriginalID, &rec.Challenger, &rec.Defender,
			&rec.ChallengerStake, &rec.DefenderStake, &rec.WinProbability, &rec.Draw, &won,
			&rec.StakeAfter, &created)
		if err != nil {
			return nil, fmt.Errorf("scan contest: %w", err)
		}
		rec.ChallengerWon = won != 0
		if rec.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
