package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dumproll/dumproll/internal/domain"
)

// LocalStore is the on-disk directory holding finished artifacts. The
// backup run is its sole writer and deleter.
type LocalStore struct {
	dir string
}

// NewLocalStore opens the backup directory, creating it if absent.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Dir returns the backup directory path.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Path returns the absolute path a filename maps to inside the store.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// List returns the names of stored artifacts, i.e. every *.sql.gz file
// in the backup directory.
func (s *LocalStore) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+domain.ArtifactSuffix))
	if err != nil {
		return nil, fmt.Errorf("list backup directory: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	return names, nil
}

// Delete removes one artifact file.
func (s *LocalStore) Delete(name string) error {
	return os.Remove(s.Path(name))
}

// Sweep deletes every stored artifact whose embedded date fell out of
// the retention window and returns the number deleted. The sweep is
// best-effort: names that carry no parsable date are skipped, failed
// deletes are logged, and neither aborts the remaining entries.
func (s *LocalStore) Sweep(today time.Time, window domain.RetentionWindow) int {
	names, err := s.List()
	if err != nil {
		log.Error("local retention sweep could not list backups", "dir", s.dir, "error", err)
		return 0
	}

	deleted := 0
	for _, name := range names {
		date, err := domain.ParseArtifactDate(name)
		if err != nil {
			log.Warn("skipping file without embedded date", "name", name, "error", err)
			continue
		}
		if !window.Expired(date, today) {
			continue
		}
		if err := s.Delete(name); err != nil {
			log.Error("failed to delete expired local backup", "name", name, "error", err)
			continue
		}
		log.Info("deleted expired local backup", "name", name)
		deleted++
	}

	return deleted
}
