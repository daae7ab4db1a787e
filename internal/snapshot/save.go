package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/declmig/declmig/internal/diff"
	"github.com/declmig/declmig/internal/emit"
	"github.com/declmig/declmig/internal/schema"
	"github.com/declmig/declmig/internal/sqlcheck"
)

// SaveResult reports what Save did.
type SaveResult struct {
	// Saved is false when the model matched the last snapshot and
	// nothing was committed.
	Saved   bool
	Version int
	UpSQL   string
	DownSQL string
}

// Save diffs the model against the most recent committed snapshot and,
// if the diff is non-empty, commits a new snapshot at the next version.
// An empty diff is a no-op. Emitted SQL is validated with the
// PostgreSQL parser before anything is written.
func (s *Store) Save(m schema.Model) (SaveResult, error) {
	last, lastModel, err := s.LastSaved()
	if err != nil {
		return SaveResult{}, err
	}

	ops := diff.Compute(lastModel, m)
	if len(ops) == 0 {
		return SaveResult{Saved: false, Version: last}, nil
	}

	up, down := emit.Render(ops)

	if err := sqlcheck.Validate(up); err != nil {
		return SaveResult{}, fmt.Errorf("up.sql: %w", err)
	}

	if err := sqlcheck.Validate(down); err != nil {
		return SaveResult{}, fmt.Errorf("down.sql: %w", err)
	}

	version := last + 1
	if err := s.commit(version, m, up, down); err != nil {
		return SaveResult{}, err
	}

	return SaveResult{
		Saved:   true,
		Version: version,
		UpSQL:   up,
		DownSQL: down,
	}, nil
}

// Hint performs the same diff computation as Save and renders the SQL
// for inspection without committing anything. It is read-only and safe
// to call repeatedly.
func (s *Store) Hint(m schema.Model) (up, down string, err error) {
	_, lastModel, err := s.LastSaved()
	if err != nil {
		return "", "", err
	}

	up, down = emit.Render(diff.Compute(lastModel, m))

	return up, down, nil
}

// commit writes one snapshot unit. The unit directory is created fresh;
// snapshots are append-only and never rewritten.
func (s *Store) commit(version int, m schema.Model, up, down string) error {
	dir := filepath.Join(s.dir, strconv.Itoa(version))
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating snapshot unit %s: %w", dir, err)
	}

	data, err := schema.Marshal(m)
	if err != nil {
		return err
	}

	files := map[string][]byte{
		modelFile: data,
		upFile:    []byte(up + "\n"),
		downFile:  []byte(down + "\n"),
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, content, filePerm); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	return nil
}
