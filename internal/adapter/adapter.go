package adapter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/NamanBalaji/filemat/internal/logger"
	"github.com/NamanBalaji/filemat/internal/materializer"
	"github.com/NamanBalaji/filemat/internal/resource"
)

var (
	ErrDuplicateKind = errors.New("kind already registered")
	ErrInvalidKind   = errors.New("invalid resource kind")
)

// Provider is implemented by resources that build their own materializer.
type Provider interface {
	FileMaterializer(opts ...materializer.Option) materializer.FileMaterializer
}

// Builder creates a materializer for a resource of a registered kind.
// Returning false means the resource does not support the capability.
type Builder func(r resource.Resource, opts ...materializer.Option) (materializer.FileMaterializer, bool)

// As is the typed capability query: it reports whether r provides T.
func As[T any](r resource.Resource) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	v, ok := r.(T)
	return v, ok
}

// Options controls a Registry.
type Options struct {
	AllowOverwrite bool
	// Eager makes Adapt materialize temp files before returning.
	Eager            bool
	MaterializerOpts []materializer.Option
}

// Registry maps resource kinds to materializer builders and falls back to
// the capabilities a resource exposes on its own.
type Registry struct {
	builders sync.Map // key: resource.Kind, value: Builder
	options  Options
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{options: opts}
}

// Register adds a builder for kind.
func (reg *Registry) Register(kind resource.Kind, builder Builder) error {
	if kind == "" || builder == nil {
		return fmt.Errorf("%w: cannot register empty kind or nil builder", ErrInvalidKind)
	}

	if !reg.options.AllowOverwrite {
		if _, exists := reg.builders.Load(kind); exists {
			return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
		}
	}

	reg.builders.Store(kind, builder)
	return nil
}

// IsRegistered checks if kind has a builder.
func (reg *Registry) IsRegistered(kind resource.Kind) bool {
	_, ok := reg.builders.Load(kind)
	return ok
}

// ListKinds returns registered kinds in sorted order.
func (reg *Registry) ListKinds() []resource.Kind {
	var kinds []resource.Kind
	reg.builders.Range(func(k, _ any) bool {
		kinds = append(kinds, k.(resource.Kind))
		return true
	})
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// FileMaterializer returns a lazy materializer for r, or false when r
// cannot be represented as a file. Lookup order: registered builder for
// the kind, the resource's own Provider, FileBacked, then Opener.
func (reg *Registry) FileMaterializer(r resource.Resource) (materializer.FileMaterializer, bool) {
	if r == nil {
		return nil, false
	}
	opts := reg.options.MaterializerOpts

	if b, ok := reg.builders.Load(r.Kind()); ok {
		return b.(Builder)(r, opts...)
	}

	if p, ok := As[Provider](r); ok {
		return p.FileMaterializer(opts...), true
	}

	if fb, ok := As[resource.FileBacked](r); ok {
		return materializer.NewDirect(r.Name(), fb.LocalPath(), opts...), true
	}

	if o, ok := As[resource.Opener](r); ok {
		return materializer.NewTempFile(r.Name(), o.Open, opts...), true
	}

	logger.Debugf("Resource %s (%s) has no file representation", r.ID(), r.Kind())
	return nil, false
}

// Adapt is FileMaterializer plus the registry's eager policy. ok is false when
// the capability is absent; err is only set when eager materialization fails,
// in which case nothing is left to release.
func (reg *Registry) Adapt(ctx context.Context, r resource.Resource) (m materializer.FileMaterializer, ok bool, err error) {
	m, ok = reg.FileMaterializer(r)
	if !ok || !reg.options.Eager {
		return m, ok, nil
	}

	if _, err := m.File(ctx); err != nil {
		m.Release()
		return nil, true, err
	}

	return m, true, nil
}

// TempFileBuilder streams any Opener resource into a temp file.
func TempFileBuilder(r resource.Resource, opts ...materializer.Option) (materializer.FileMaterializer, bool) {
	o, ok := As[resource.Opener](r)
	if !ok {
		return nil, false
	}
	return materializer.NewTempFile(r.Name(), o.Open, opts...), true
}

// DirectBuilder exposes FileBacked resources in place.
func DirectBuilder(r resource.Resource, opts ...materializer.Option) (materializer.FileMaterializer, bool) {
	fb, ok := As[resource.FileBacked](r)
	if !ok {
		return nil, false
	}
	return materializer.NewDirect(r.Name(), fb.LocalPath(), opts...), true
}

// NewDefaultRegistry registers the builders for the built-in kinds.
func NewDefaultRegistry(opts Options) *Registry {
	reg := NewRegistry(opts)
	_ = reg.Register(resource.KindBlob, TempFileBuilder)
	_ = reg.Register(resource.KindHTTP, TempFileBuilder)
	_ = reg.Register(resource.KindFile, DirectBuilder)
	return reg
}
