package fsres_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/NamanBalaji/filemat/internal/resource"
	"github.com/NamanBalaji/filemat/internal/resource/fsres"
)

func TestFileResource(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "doc.bin")
	if err := os.WriteFile(docPath, []byte("content"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	r, err := fsres.New(docPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if r.Kind() != resource.KindFile {
		t.Errorf("expected kind %s, got %s", resource.KindFile, r.Kind())
	}
	if r.Name() != "doc.bin" {
		t.Errorf("expected name doc.bin, got %s", r.Name())
	}
	if r.LocalPath() != docPath {
		t.Errorf("expected path %s, got %s", docPath, r.LocalPath())
	}

	again, err := fsres.New(filepath.Join(dir, ".", "doc.bin"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if again.ID() != r.ID() {
		t.Errorf("same file should map to the same ID")
	}

	rc, err := r.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestFileResource_MaterializerLeavesFile(t *testing.T) {
	docPath := filepath.Join(t.TempDir(), "doc.bin")
	if err := os.WriteFile(docPath, []byte("keep"), 0o644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	r, err := fsres.New(docPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	m := r.FileMaterializer()
	path, err := m.File(context.Background())
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	if path != docPath {
		t.Errorf("expected %s, got %s", docPath, path)
	}

	m.Release()
	m.Release()

	if _, err := os.Stat(docPath); err != nil {
		t.Errorf("backing file should survive release: %v", err)
	}
}
