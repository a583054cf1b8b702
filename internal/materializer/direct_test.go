package materializer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/materializer"
)

func TestDirect_ExistingFileUntouched(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "data", "doc.bin")
	require.NoError(t, os.MkdirAll(filepath.Dir(docPath), 0o755))
	content := []byte("already on disk")
	require.NoError(t, os.WriteFile(docPath, content, 0o644))

	m := materializer.NewDirect("doc", docPath)

	path, err := m.File(context.Background())
	require.NoError(t, err)
	assert.Equal(t, docPath, path)

	again, err := m.File(context.Background())
	require.NoError(t, err)
	assert.Equal(t, path, again)

	m.Release()
	m.Release()

	got, err := os.ReadFile(docPath)
	require.NoError(t, err, "backing file must survive release")
	assert.Equal(t, content, got)
	assert.Equal(t, materializer.Released, m.State())
}

func TestDirect_Missing(t *testing.T) {
	m := materializer.NewDirect("doc", filepath.Join(t.TempDir(), "missing.bin"))
	defer m.Release()

	_, err := m.File(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	cat, _ := errors.GetCategory(err)
	assert.Equal(t, errors.CategoryResource, cat)
}

func TestDirect_Directory(t *testing.T) {
	m := materializer.NewDirect("dir", t.TempDir())
	defer m.Release()

	_, err := m.File(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotRegular))
}

func TestDirect_FileAfterRelease(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "doc.bin")
	require.NoError(t, os.WriteFile(docPath, []byte("x"), 0o644))

	m := materializer.NewDirect("doc", docPath)
	assert.Equal(t, materializer.Materialized, m.State())
	m.Release()

	_, err := m.File(context.Background())
	assert.True(t, errors.Is(err, errors.ErrReleased))
}
