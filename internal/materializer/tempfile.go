package materializer

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/filesystem"
	"github.com/NamanBalaji/filemat/internal/logger"
)

const copyBufferSize = 32 * 1024

// TempFile copies content into a private temp file on first use and removes
// it on Release.
type TempFile struct {
	mu      sync.Mutex
	name    string
	open    Opener
	fs      filesystem.FileSystem
	tempDir string
	state   State
	path    string
}

// NewTempFile returns a lazy temp-file materializer. Nothing touches the
// disk until the first File call.
func NewTempFile(name string, open Opener, opts ...Option) *TempFile {
	o := buildOptions(opts)
	return &TempFile{
		name:    name,
		open:    open,
		fs:      o.fs,
		tempDir: o.tempDir,
		state:   Unmaterialized,
	}
}

// NewEagerTempFile materializes during construction. On error nothing is
// left on disk and no materializer is returned.
func NewEagerTempFile(ctx context.Context, name string, open Opener, opts ...Option) (*TempFile, error) {
	t := NewTempFile(name, open, opts...)
	if _, err := t.File(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// File implements FileMaterializer.
func (t *TempFile) File(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case Released:
		return "", errors.NewReleasedError(t.name)
	case Materialized:
		return t.path, nil
	}

	path, err := t.materialize(ctx)
	if err != nil {
		logger.Errorf("Failed to materialize %s: %v", t.name, err)
		return "", err
	}

	t.path = path
	t.state = Materialized
	logger.Debugf("Materialized %s at %s", t.name, path)

	return path, nil
}

// Release implements FileMaterializer.
func (t *TempFile) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.state
	t.state = Released
	if prev != Materialized {
		return
	}

	if err := t.fs.Remove(t.path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("%v", &errors.ReleaseError{Err: err, Resource: t.name, Path: t.path})
		return
	}

	logger.Debugf("Released %s, removed %s", t.name, t.path)
}

// State reports the current lifecycle state.
func (t *TempFile) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *TempFile) materialize(ctx context.Context) (string, error) {
	if t.open == nil {
		return "", errors.NewStorageError(errors.ErrUnsupported, t.name)
	}
	if err := ctx.Err(); err != nil {
		return "", errors.NewContextError(err, t.name)
	}

	rc, err := t.open(ctx)
	if err != nil {
		return "", errors.NewStorageError(err, t.name)
	}
	defer rc.Close()

	file, err := t.fs.CreateTemp(t.tempDir, TempPattern)
	if err != nil {
		return "", errors.NewIOError(err, t.name, t.tempDir)
	}
	path := file.Name()

	if err := t.copyLoop(ctx, file, rc); err != nil {
		file.Close()
		t.discard(path)
		return "", err
	}

	if err := file.Sync(); err != nil {
		file.Close()
		t.discard(path)
		return "", errors.NewIOError(err, t.name, path)
	}

	if err := file.Close(); err != nil {
		t.discard(path)
		return "", errors.NewIOError(err, t.name, path)
	}

	return path, nil
}

// copyLoop keeps read and write failures apart so the caller can tell a
// storage fault from a disk fault.
func (t *TempFile) copyLoop(ctx context.Context, dst io.Writer, src io.Reader) error {
	buffer := make([]byte, copyBufferSize)

	for {
		if err := ctx.Err(); err != nil {
			return errors.NewContextError(err, t.name)
		}

		n, err := src.Read(buffer)
		if n > 0 {
			if _, writeErr := dst.Write(buffer[:n]); writeErr != nil {
				return errors.NewIOError(writeErr, t.name, "")
			}
		}

		if err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.NewStorageError(err, t.name)
		}
	}
}

func (t *TempFile) discard(path string) {
	if err := t.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warnf("Failed to remove partial file %s for %s: %v", path, t.name, err)
	}
}
