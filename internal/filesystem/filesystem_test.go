package filesystem_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NamanBalaji/filemat/internal/filesystem"
)

func TestCreateTemp(t *testing.T) {
	fs := filesystem.NewOSFileSystem()
	dir := filepath.Join(t.TempDir(), "subdir")

	file, err := fs.CreateTemp(dir, "filemat-*.tmp")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}

	if _, err := file.Write([]byte("hello world")); err != nil {
		t.Fatalf("Writing to file failed: %v", err)
	}
	if err := file.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("Closing file failed: %v", err)
	}

	if filepath.Dir(file.Name()) != dir {
		t.Errorf("expected file in %s, got %s", dir, file.Name())
	}
	if !strings.HasPrefix(filepath.Base(file.Name()), "filemat-") {
		t.Errorf("unexpected temp name %s", file.Name())
	}

	exists, err := filesystem.FileExists(fs, file.Name())
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Fatalf("Expected file to exist after creation")
	}
}

func TestRemove(t *testing.T) {
	fs := filesystem.NewOSFileSystem()
	filePath := filepath.Join(t.TempDir(), "testfile.txt")

	if err := os.WriteFile(filePath, []byte("to be deleted"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := fs.Remove(filePath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	exists, err := filesystem.FileExists(fs, filePath)
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Errorf("Expected file to be deleted")
	}

	if err := fs.Remove(filePath); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error on second remove, got %v", err)
	}
}

func TestStat(t *testing.T) {
	fs := filesystem.NewOSFileSystem()
	filePath := filepath.Join(t.TempDir(), "testfile.txt")
	content := []byte("file info test")
	if err := os.WriteFile(filePath, content, 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	info, err := fs.Stat(filePath)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != int64(len(content)) {
		t.Errorf("Expected file size %d, got %d", len(content), info.Size())
	}
}

func TestEnsureDirectory(t *testing.T) {
	fs := filesystem.NewOSFileSystem()
	dirPath := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := fs.EnsureDirectory(dirPath); err != nil {
		t.Fatalf("EnsureDirectory failed: %v", err)
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		t.Fatalf("Stat on directory failed: %v", err)
	}
	if !info.IsDir() {
		t.Errorf("Expected %s to be a directory", dirPath)
	}
}

func TestAbs(t *testing.T) {
	got, err := filesystem.Abs("a/../b")
	if err != nil {
		t.Fatalf("Abs failed: %v", err)
	}
	if !filepath.IsAbs(got) || filepath.Base(got) != "b" {
		t.Errorf("unexpected Abs result %q", got)
	}
}
