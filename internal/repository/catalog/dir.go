package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/miner-runner/internal/domain/library"
)

// Repository defines snapshot operations over the artifact directory.
type Repository interface {
	Snapshot(ctx context.Context) (library.Set, error)
}

// DirRepository snapshots a single directory, non-recursively.
// Identity is filename-only: a file rewritten in place under the same name
// is invisible to consecutive snapshots.
type DirRepository struct {
	// dir is the artifact directory to list.
	dir string
	// ignored holds filenames excluded from snapshots, such as the
	// rendered index page living next to the artifacts.
	ignored map[string]struct{}
}

// NewDirRepository creates a repository listing the provided directory.
// The named files are excluded from every snapshot.
func NewDirRepository(dir string, ignore ...string) *DirRepository {
	ignored := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		ignored[name] = struct{}{}
	}

	return &DirRepository{
		dir:     filepath.Clean(dir),
		ignored: ignored,
	}
}

// Snapshot lists the directory and returns the filename set. Subdirectories
// and ignored names are skipped. A missing directory yields an empty set so
// the first run against a fresh checkout still works.
func (r *DirRepository) Snapshot(_ context.Context) (library.Set, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return library.NewSet(), nil
		}

		return nil, fmt.Errorf("list artifact directory: %w", err)
	}

	set := make(library.Set, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if _, skip := r.ignored[name]; skip {
			continue
		}

		set.Add(name)
	}

	return set, nil
}
