package resource

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the backend a resource comes from.
type Kind string

const (
	KindBlob Kind = "blob" // database blob
	KindFile Kind = "file" // file already on disk
	KindHTTP Kind = "http" // remote object
)

// Resource is an addressable entity that may carry binary content.
// Capabilities are discovered through the optional interfaces below.
type Resource interface {
	ID() uuid.UUID
	Kind() Kind
	Name() string
}

// Opener is implemented by resources whose content can be streamed.
type Opener interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileBacked is implemented by resources that already live in a file.
type FileBacked interface {
	LocalPath() string
}

// Info is the metadata stored alongside a blob.
type Info struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"created_at"`
}
