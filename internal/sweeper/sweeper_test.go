package sweeper_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/filemat/internal/filesystem"
	"github.com/NamanBalaji/filemat/internal/materializer"
	"github.com/NamanBalaji/filemat/internal/sweeper"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	stale := writeAged(t, dir, "filemat-111.tmp", 2*time.Hour)
	fresh := writeAged(t, dir, "filemat-222.tmp", time.Minute)
	other := writeAged(t, dir, "unrelated.tmp", 2*time.Hour)

	res, err := sweeper.New(dir, nil).Sweep(context.Background(), time.Hour)
	require.NoError(t, err)

	assert.Equal(t, sweeper.Result{Scanned: 2, Removed: 1}, res)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, other)
}

func TestSweep_LeavesLiveMaterialization(t *testing.T) {
	dir := t.TempDir()
	open := func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("live")), nil
	}
	m := materializer.NewTempFile("live", open, materializer.WithTempDir(dir))
	defer m.Release()

	live, err := m.File(context.Background())
	require.NoError(t, err)

	leaked := writeAged(t, dir, "filemat-leaked.tmp", 48*time.Hour)

	res, err := sweeper.New(dir, nil).Sweep(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, sweeper.Result{Scanned: 2, Removed: 1}, res)
	assert.NoFileExists(t, leaked)
	assert.FileExists(t, live)
}

func TestSweep_MissingDir(t *testing.T) {
	res, err := sweeper.New(filepath.Join(t.TempDir(), "nope"), nil).Sweep(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, sweeper.Result{}, res)
}

type denyRemoveFS struct {
	*filesystem.OSFileSystem
}

func (denyRemoveFS) Remove(string) error { return errors.New("permission denied") }

func TestSweep_RemoveFailureCounted(t *testing.T) {
	dir := t.TempDir()
	path := writeAged(t, dir, "filemat-333.tmp", 2*time.Hour)

	res, err := sweeper.New(dir, denyRemoveFS{filesystem.NewOSFileSystem()}).Sweep(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, sweeper.Result{Scanned: 1, Failed: 1}, res)
	assert.FileExists(t, path)
}

func TestSweep_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeAged(t, dir, "filemat-444.tmp", 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sweeper.New(dir, nil).Sweep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, path)
}
