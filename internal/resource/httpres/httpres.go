package httpres

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"

	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/logger"
	"github.com/NamanBalaji/filemat/internal/resource"
	httpPkg "github.com/NamanBalaji/filemat/pkg/http"
)

// Resource is a remote object reachable over HTTP(S). Its content is
// streamed on Open and never cached.
type Resource struct {
	id     uuid.UUID
	url    string
	meta   httpPkg.Metadata
	client *httpPkg.Client
}

// New validates rawURL and probes it with HEAD for a name and size. Servers
// that reject HEAD still produce a usable resource named from the URL.
func New(ctx context.Context, client *httpPkg.Client, rawURL string) (*Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	if client == nil {
		client = httpPkg.NewClient()
	}

	meta, err := client.Head(ctx, rawURL, nil)
	if err != nil {
		if httpPkg.IsMissing(err) {
			return nil, fmt.Errorf("%w: %s", errors.ErrNotFound, rawURL)
		}
		logger.Warnf("HEAD failed for %s, naming from URL: %v", rawURL, err)
		meta = httpPkg.Metadata{Name: httpPkg.FilenameFromURL(u), Size: -1}
	}

	return &Resource{
		id:     uuid.NewSHA1(uuid.NameSpaceURL, []byte(rawURL)),
		url:    rawURL,
		meta:   meta,
		client: client,
	}, nil
}

func (r *Resource) ID() uuid.UUID { return r.id }

func (r *Resource) Kind() resource.Kind { return resource.KindHTTP }

func (r *Resource) Name() string { return r.meta.Name }

// Size is the advertised length, or -1 when unknown.
func (r *Resource) Size() int64 { return r.meta.Size }

func (r *Resource) URL() string { return r.url }

// Open implements resource.Opener. The body is read to completion by the
// materializer and closed afterwards.
func (r *Resource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url, nil)
	if err != nil {
		if httpPkg.IsMissing(err) {
			return nil, fmt.Errorf("%w: %v", errors.ErrNotFound, err)
		}
		return nil, err
	}

	return resp.Body, nil
}
