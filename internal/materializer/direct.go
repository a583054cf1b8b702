package materializer

import (
	"context"
	"os"
	"sync"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/filesystem"
)

// Direct hands out the path of content that already lives in a file.
// It never creates, modifies or removes anything.
type Direct struct {
	mu       sync.Mutex
	name     string
	path     string
	fs       filesystem.FileSystem
	released bool
}

// NewDirect wraps an existing file. The file is checked on each File call.
func NewDirect(name, path string, opts ...Option) *Direct {
	o := buildOptions(opts)
	return &Direct{
		name: name,
		path: path,
		fs:   o.fs,
	}
}

// File implements FileMaterializer.
func (d *Direct) File(_ context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return "", errors.NewReleasedError(d.name)
	}

	info, err := d.fs.Stat(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewResourceError(errors.ErrNotFound, d.name, d.path)
		}
		return "", errors.NewIOError(err, d.name, d.path)
	}

	if !info.Mode().IsRegular() {
		return "", errors.NewResourceError(errors.ErrNotRegular, d.name, d.path)
	}

	return d.path, nil
}

// Release implements FileMaterializer. The backing file is left alone.
func (d *Direct) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.released = true
}

// State reports the current lifecycle state. Direct materializers have no
// unmaterialized phase.
func (d *Direct) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return Released
	}
	return Materialized
}
