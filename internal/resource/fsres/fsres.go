package fsres

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/NamanBalaji/filemat/internal/filesystem"
	"github.com/NamanBalaji/filemat/internal/materializer"
	"github.com/NamanBalaji/filemat/internal/resource"
)

// FileResource is a resource whose content already is a file on disk.
type FileResource struct {
	id   uuid.UUID
	path string
}

// New returns a resource for path. The ID is derived from the absolute path
// so the same file always maps to the same ID.
func New(path string) (*FileResource, error) {
	abs, err := filesystem.Abs(path)
	if err != nil {
		return nil, err
	}

	return &FileResource{
		id:   uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+abs)),
		path: abs,
	}, nil
}

func (f *FileResource) ID() uuid.UUID { return f.id }

func (f *FileResource) Kind() resource.Kind { return resource.KindFile }

func (f *FileResource) Name() string { return filepath.Base(f.path) }

// LocalPath implements resource.FileBacked.
func (f *FileResource) LocalPath() string { return f.path }

// Open implements resource.Opener.
func (f *FileResource) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(f.path)
}

// FileMaterializer hands out the file itself; release never removes it.
func (f *FileResource) FileMaterializer(opts ...materializer.Option) materializer.FileMaterializer {
	return materializer.NewDirect(f.Name(), f.path, opts...)
}
