package filesystem

import (
	"io"
	"os"
	"path/filepath"
)

// File is the handle returned by CreateTemp.
type File interface {
	io.Writer
	io.Closer
	Name() string
	Sync() error
}

// FileSystem is the set of file operations materializers depend on.
type FileSystem interface {
	CreateTemp(dir, pattern string) (File, error)
	Remove(path string) error
	Stat(path string) (os.FileInfo, error)
	EnsureDirectory(path string) error
}

// OSFileSystem implements the FileSystem interface using OS file operations
type OSFileSystem struct{}

// NewOSFileSystem creates a new OS filesystem
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// CreateTemp creates a new private temp file in dir
func (fs *OSFileSystem) CreateTemp(dir, pattern string) (File, error) {
	if dir != "" {
		if err := fs.EnsureDirectory(dir); err != nil {
			return nil, err
		}
	}

	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Remove deletes a file
func (fs *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

// Stat gets file info
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// EnsureDirectory ensures a directory exists
func (fs *OSFileSystem) EnsureDirectory(path string) error {
	return os.MkdirAll(path, 0o700)
}

// FileExists checks if a file exists
func FileExists(fs FileSystem, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Abs returns an absolute, cleaned form of path.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
