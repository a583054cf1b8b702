package errors_test

import (
	stdErrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/NamanBalaji/filemat/internal/errors"
)

func TestMaterializationErrorError(t *testing.T) {
	baseErr := stdErrors.New("underlying error")
	me := &errors.MaterializationError{
		Err:       baseErr,
		Category:  errors.CategoryIO,
		Timestamp: time.Now(),
		Resource:  "doc.bin",
	}
	expected := "[IO] materialize doc.bin: underlying error"
	if me.Error() != expected {
		t.Errorf("expected %q, got %q", expected, me.Error())
	}

	me.Path = "/tmp/filemat-1.tmp"
	expected2 := "[IO] materialize doc.bin (/tmp/filemat-1.tmp): underlying error"
	if me.Error() != expected2 {
		t.Errorf("expected %q, got %q", expected2, me.Error())
	}
}

func TestMaterializationErrorUnwrap(t *testing.T) {
	baseErr := stdErrors.New("base error")
	me := errors.NewStorageError(baseErr, "blob")
	if !errors.Is(me, baseErr) {
		t.Errorf("expected underlying error %v, got %v", baseErr, stdErrors.Unwrap(me))
	}

	wrapped := fmt.Errorf("outer: %w", me)
	if !errors.IsMaterializationError(wrapped) {
		t.Error("expected wrapped error to be a MaterializationError")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *errors.MaterializationError
		category errors.ErrorCategory
	}{
		{"io", errors.NewIOError(stdErrors.New("disk full"), "r", "/tmp/x"), errors.CategoryIO},
		{"storage", errors.NewStorageError(stdErrors.New("read failed"), "r"), errors.CategoryStorage},
		{"resource", errors.NewResourceError(errors.ErrNotFound, "r", "/data/doc.bin"), errors.CategoryResource},
		{"context", errors.NewContextError(stdErrors.New("context canceled"), "r"), errors.CategoryContext},
		{"released", errors.NewReleasedError("r"), errors.CategoryReleased},
		{"nil cause", errors.NewIOError(nil, "r", ""), errors.CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, tt.err.Category)
			}
			if tt.err.Resource != "r" {
				t.Errorf("expected resource %q, got %q", "r", tt.err.Resource)
			}
			if tt.err.Timestamp.IsZero() {
				t.Error("Timestamp not set")
			}
			if tt.err.Err == nil {
				t.Error("expected a non-nil cause")
			}
		})
	}
}

func TestNewReleasedError(t *testing.T) {
	err := errors.NewReleasedError("blob")
	if !errors.Is(err, errors.ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestCategoryHelpers(t *testing.T) {
	ioErr := errors.NewIOError(stdErrors.New("io error"), "file.txt", "")
	if !errors.IsIOError(ioErr) {
		t.Error("Expected error to be identified as I/O error")
	}
	if errors.IsStorageError(ioErr) {
		t.Error("Did not expect I/O error to be identified as storage error")
	}

	storageErr := errors.NewStorageError(stdErrors.New("bucket missing"), "blob")
	if !errors.IsStorageError(storageErr) {
		t.Error("Expected error to be identified as storage error")
	}

	cat, ok := errors.GetCategory(storageErr)
	if !ok || cat != errors.CategoryStorage {
		t.Errorf("expected STORAGE category, got %s (ok=%v)", cat, ok)
	}

	if _, ok := errors.GetCategory(stdErrors.New("plain")); ok {
		t.Error("Expected no category for a plain error")
	}
}

func TestReleaseError(t *testing.T) {
	cause := stdErrors.New("permission denied")
	re := &errors.ReleaseError{Err: cause, Resource: "blob", Path: "/tmp/x"}
	if re.Error() != "release blob (/tmp/x): permission denied" {
		t.Errorf("unexpected message %q", re.Error())
	}
	if !errors.Is(re, cause) {
		t.Error("ReleaseError should unwrap to its cause")
	}
}
