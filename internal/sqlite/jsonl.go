package sqlite

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

// Export file names written by Export.
const (
	artifactsJSONL = "artifacts.jsonl"
	stakesJSONL    = "stakes.jsonl"
	contestsJSONL  = "contests.jsonl"
	victoriesJSONL = "victories.jsonl"
)

// Export writes the game state to dir as one JSONL file per table. Each file
// is replaced atomically. Ownership lives in the registry and is exported
// with the artifacts as holdings.
func (b *Backend) Export(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	files := make(map[string][]json.RawMessage)
	err := b.View(ctx, func(ctx context.Context, tx types.Tx) error {
		artifacts, err := tx.ListArtifacts()
		if err != nil {
			return err
		}
		registry := NewRegistry(b)
		for _, a := range artifacts {
			h := types.Holding{Artifact: a}
			if owner, err := registry.OwnerOf(ctx, a.ID); err == nil {
				h.Holder = owner
			}
			if err := appendRecord(files, artifactsJSONL, h); err != nil {
				return err
			}
		}

		stakes, err := tx.ListStakes()
		if err != nil {
			return err
		}
		for _, s := range stakes {
			if err := appendRecord(files, stakesJSONL, s); err != nil {
				return err
			}
		}

		contests, err := tx.ListContests(-1)
		if err != nil {
			return err
		}
		for _, c := range contests {
			if err := appendRecord(files, contestsJSONL, c); err != nil {
				return err
			}
		}

		victories, err := NewEventLog(b).Victories(ctx, "")
		if err != nil {
			return err
		}
		for _, v := range victories {
			if err := appendRecord(files, victoriesJSONL, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	for _, name := range []string{artifactsJSONL, stakesJSONL, contestsJSONL, victoriesJSONL} {
		if err := writeJSONL(filepath.Join(dir, name), files[name]); err != nil {
			return err
		}
	}
	b.log.Infof("exported state to %s", dir)
	return nil
}

func appendRecord(files map[string][]json.RawMessage, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", name, err)
	}
	files[name] = append(files[name], data)
	return nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail(fmt.Errorf("writing record: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
