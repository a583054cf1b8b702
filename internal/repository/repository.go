package repository

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/resource"
)

var (
	// ErrBlobNotFound is returned when a blob cannot be found
	ErrBlobNotFound = fmt.Errorf("blob %w", errors.ErrNotFound)
	// ErrChecksumMismatch means stored bytes no longer match their digest
	ErrChecksumMismatch = errors.New("blob checksum mismatch")
)

// Repository stores binary blobs and hands them out as resources.
type Repository interface {
	Save(name string, r io.Reader) (resource.Info, error)
	Find(id uuid.UUID) (*BlobResource, error)
	FindAll() ([]resource.Info, error)
	Delete(id uuid.UUID) error
	Close() error
}

// blobReader fetches raw content for a stored blob.
type blobReader interface {
	readBlob(id uuid.UUID) ([]byte, error)
}

// BlobResource is a blob held in a database. Content is read from the
// store on every Open and verified against the stored digest.
type BlobResource struct {
	info  resource.Info
	store blobReader
}

func (b *BlobResource) ID() uuid.UUID { return b.info.ID }

func (b *BlobResource) Kind() resource.Kind { return resource.KindBlob }

func (b *BlobResource) Name() string { return b.info.Name }

func (b *BlobResource) Info() resource.Info { return b.info }

// Open implements resource.Opener.
func (b *BlobResource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := b.store.readBlob(b.info.ID)
	if err != nil {
		return nil, err
	}

	if digest(data) != b.info.SHA256 {
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, b.info.ID)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

// readAll drains r and builds the metadata for a new blob.
func readAll(name string, r io.Reader) ([]byte, resource.Info, error) {
	if r == nil {
		return nil, resource.Info{}, errors.New("cannot save nil reader")
	}
	if name == "" {
		return nil, resource.Info{}, errors.New("blob name cannot be empty")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, resource.Info{}, fmt.Errorf("failed to read blob content: %w", err)
	}

	return data, resource.Info{
		ID:        uuid.New(),
		Name:      name,
		Size:      int64(len(data)),
		SHA256:    digest(data),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}, nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
