package materializer_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync/atomic"
	"testing"

	"github.com/NamanBalaji/filemat/internal/filesystem"
	"github.com/NamanBalaji/filemat/internal/materializer"
)

// countingOpener serves data and counts how often it was opened.
func countingOpener(data []byte, calls *int32) materializer.Opener {
	return func(context.Context) (io.ReadCloser, error) {
		atomic.AddInt32(calls, 1)
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// brokenReader yields prefix and then fails, like a storage read cut short.
type brokenReader struct {
	prefix []byte
	err    error
	done   bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, r.prefix), nil
	}
	return 0, r.err
}

func (r *brokenReader) Close() error { return nil }

type failingFile struct {
	filesystem.File
	err error
}

func (f *failingFile) Write([]byte) (int, error) { return 0, f.err }

type faultyFS struct {
	*filesystem.OSFileSystem
	createErr error
	writeErr  error
	removeErr error
	removes   int32
}

func newFaultyFS() *faultyFS {
	return &faultyFS{OSFileSystem: filesystem.NewOSFileSystem()}
}

func (f *faultyFS) CreateTemp(dir, pattern string) (filesystem.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	file, err := f.OSFileSystem.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	if f.writeErr != nil {
		return &failingFile{File: file, err: f.writeErr}, nil
	}
	return file, nil
}

func (f *faultyFS) Remove(path string) error {
	atomic.AddInt32(&f.removes, 1)
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.OSFileSystem.Remove(path)
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
