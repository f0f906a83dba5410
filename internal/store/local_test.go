package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumproll/dumproll/internal/domain"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "backups"))
	require.NoError(t, err)
	return s
}

func writeArtifact(t *testing.T, s *LocalStore, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.Path(name), []byte("gz"), 0o600))
}

func TestNewLocalStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	s, err := NewLocalStore(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())
	assert.DirExists(t, dir)
}

func TestListOnlyReturnsArtifacts(t *testing.T) {
	s := newTestStore(t)
	writeArtifact(t, s, "shopdb_20240310.sql.gz")
	writeArtifact(t, s, "shopdb_20240309.sql.gz")
	require.NoError(t, os.WriteFile(s.Path("notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(s.Path("shopdb_20240310.sql"), []byte("x"), 0o600))

	names, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"shopdb_20240310.sql.gz", "shopdb_20240309.sql.gz"}, names)
}

func TestSweepDeletesOnlyExpiredArtifacts(t *testing.T) {
	s := newTestStore(t)
	writeArtifact(t, s, "shopdb_20240306.sql.gz")
	writeArtifact(t, s, "shopdb_20240307.sql.gz")
	writeArtifact(t, s, "shopdb_20240310.sql.gz")

	today := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	deleted := s.Sweep(today, domain.RetentionWindow{Days: 3})

	assert.Equal(t, 1, deleted)
	assert.NoFileExists(t, s.Path("shopdb_20240306.sql.gz"))
	assert.FileExists(t, s.Path("shopdb_20240307.sql.gz"))
	assert.FileExists(t, s.Path("shopdb_20240310.sql.gz"))
}

func TestSweepSkipsForeignFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path("notes.sql.gz"), []byte("x"), 0o600))
	writeArtifact(t, s, "shopdb_20200101.sql.gz")

	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	deleted := s.Sweep(today, domain.RetentionWindow{Days: 3})

	assert.Equal(t, 1, deleted)
	assert.FileExists(t, s.Path("notes.sql.gz"))
}

func TestSweepIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	writeArtifact(t, s, "shopdb_20240301.sql.gz")
	writeArtifact(t, s, "shopdb_20240310.sql.gz")

	today := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	window := domain.RetentionWindow{Days: 3}

	assert.Equal(t, 1, s.Sweep(today, window))
	assert.Equal(t, 0, s.Sweep(today, window))
}
