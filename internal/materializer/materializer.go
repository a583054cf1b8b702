// Package materializer turns resource content into a file on disk for the
// duration of a caller's work.
//
// A FileMaterializer is obtained for one resource, File is called any number
// of times, and Release is called once when the caller is done. Release is
// idempotent and never fails, so it is safe in deferred cleanup. With wraps
// the whole sequence and releases on every exit path.
package materializer

import (
	"context"
	"io"

	"github.com/NamanBalaji/filemat/internal/filesystem"
)

// TempPattern is the name pattern of every temp file created by this package.
const TempPattern = "filemat-*.tmp"

// FileMaterializer exposes a resource's binary content as a readable file.
type FileMaterializer interface {
	// File returns a path to the content. Repeated calls before Release
	// refer to the same content and never redo materialization. The caller
	// may read the path but must not write to it or use it after Release.
	// Failures are reported as *errors.MaterializationError.
	File(ctx context.Context) (string, error)

	// Release reclaims anything created to back the file. Calls after the
	// first are no-ops. Cleanup failures are logged, never returned.
	Release()
}

// Opener streams the content to materialize.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// State tracks a materializer through its lifecycle.
type State int32

const (
	Unmaterialized State = iota
	Materialized
	Released
)

func (s State) String() string {
	switch s {
	case Unmaterialized:
		return "unmaterialized"
	case Materialized:
		return "materialized"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

type options struct {
	fs      filesystem.FileSystem
	tempDir string
}

// Option configures a materializer.
type Option func(*options)

// WithFileSystem replaces the OS filesystem, mostly for fault injection.
func WithFileSystem(fs filesystem.FileSystem) Option {
	return func(o *options) {
		if fs != nil {
			o.fs = fs
		}
	}
}

// WithTempDir sets where temp files are created. Empty means os.TempDir.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

func buildOptions(opts []Option) options {
	o := options{fs: filesystem.NewOSFileSystem()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
