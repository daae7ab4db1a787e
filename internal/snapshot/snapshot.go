// Package snapshot persists the declared schema model as a numbered,
// append-only history of snapshots on disk. Each snapshot holds the
// serialized model plus the forward and backward SQL reaching it from
// the previous version; an unversioned "current" unit holds the latest
// declared-but-unsaved model.
//
// Directory layout:
//
//	<dir>/current/model.json
//	<dir>/0/{model.json,up.sql,down.sql}
//	<dir>/1/{model.json,up.sql,down.sql}
//	...
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/declmig/declmig/internal/schema"
)

// File names inside a snapshot unit.
const (
	modelFile = "model.json"
	upFile    = "up.sql"
	downFile  = "down.sql"

	currentName = "current"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Snapshot is one immutable, versioned record of the declared schema
// plus the SQL needed to reach it from the previous version.
type Snapshot struct {
	Version int
	Model   schema.Model
	UpSQL   string
	DownSQL string
}

// Store owns the on-disk snapshot history rooted at a directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created
// lazily on the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// WriteCurrent persists the declared model as the unversioned current
// unit, overwriting any previous one.
func (s *Store) WriteCurrent(m schema.Model) error {
	dir := filepath.Join(s.dir, currentName)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating current unit %s: %w", dir, err)
	}

	data, err := schema.Marshal(m)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, modelFile)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("writing current model %s: %w", path, err)
	}

	return nil
}

// Current reads the declared-but-unsaved model.
func (s *Store) Current() (schema.Model, error) {
	path := filepath.Join(s.dir, currentName, modelFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return schema.Model{}, fmt.Errorf("%s: %w", path, ErrNoCurrentModel)
		}

		return schema.Model{}, fmt.Errorf("reading current model %s: %w", path, err)
	}

	return schema.Unmarshal(data)
}

// Versions returns the contiguous list of saved snapshot versions,
// counting up from 0 until the first missing unit.
func (s *Store) Versions() []int {
	var versions []int

	for v := 0; ; v++ {
		info, err := os.Stat(filepath.Join(s.dir, strconv.Itoa(v)))
		if err != nil || !info.IsDir() {
			return versions
		}

		versions = append(versions, v)
	}
}

// LastSaved returns the most recent committed snapshot's version and
// model. When no snapshot exists it returns version -1 and the empty
// model, which makes the first save diff against nothing.
func (s *Store) LastSaved() (int, schema.Model, error) {
	versions := s.Versions()
	if len(versions) == 0 {
		return -1, schema.NewModel(), nil
	}

	last := versions[len(versions)-1]

	snap, err := s.Load(last)
	if err != nil {
		return 0, schema.Model{}, err
	}

	return last, snap.Model, nil
}

// Load reads one committed snapshot unit.
func (s *Store) Load(version int) (Snapshot, error) {
	dir := filepath.Join(s.dir, strconv.Itoa(version))

	if _, err := os.Stat(dir); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %d: %w", version, ErrSnapshotNotFound)
	}

	data, err := os.ReadFile(filepath.Join(dir, modelFile))
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot %d model: %w", version, err)
	}

	model, err := schema.Unmarshal(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %d: %w", version, err)
	}

	up, err := os.ReadFile(filepath.Join(dir, upFile))
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot %d up.sql: %w", version, err)
	}

	down, err := os.ReadFile(filepath.Join(dir, downFile))
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot %d down.sql: %w", version, err)
	}

	return Snapshot{
		Version: version,
		Model:   model,
		UpSQL:   string(up),
		DownSQL: string(down),
	}, nil
}

// Latest returns the highest committed snapshot, or ok=false when the
// history is empty.
func (s *Store) Latest() (Snapshot, bool, error) {
	versions := s.Versions()
	if len(versions) == 0 {
		return Snapshot{}, false, nil
	}

	snap, err := s.Load(versions[len(versions)-1])
	if err != nil {
		return Snapshot{}, false, err
	}

	return snap, true, nil
}
