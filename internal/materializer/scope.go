package materializer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// With resolves m, hands the path to fn and releases m however fn exits,
// including by panic.
func With(ctx context.Context, m FileMaterializer, fn func(path string) error) error {
	defer m.Release()

	path, err := m.File(ctx)
	if err != nil {
		return err
	}

	return fn(path)
}

// MaterializeAll resolves every materializer concurrently. Paths are returned
// in argument order. If any fails, all of them are released and the first
// error is returned.
func MaterializeAll(ctx context.Context, ms ...FileMaterializer) ([]string, error) {
	paths := make([]string, len(ms))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range ms {
		i, m := i, m
		g.Go(func() error {
			path, err := m.File(gctx)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ReleaseAll(ms...)
		return nil, err
	}

	return paths, nil
}

// ReleaseAll releases every materializer, skipping nils.
func ReleaseAll(ms ...FileMaterializer) {
	for _, m := range ms {
		if m != nil {
			m.Release()
		}
	}
}
