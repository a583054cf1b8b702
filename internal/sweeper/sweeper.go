// Package sweeper reclaims temp files that were materialized but never
// released, for example after a crash.
package sweeper

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NamanBalaji/filemat/internal/filesystem"
	"github.com/NamanBalaji/filemat/internal/logger"
	"github.com/NamanBalaji/filemat/internal/materializer"
)

const maxParallelRemovals = 8

// Result summarises one sweep.
type Result struct {
	Scanned int
	Removed int
	Failed  int
}

// Sweeper removes stale materializer temp files from one directory.
type Sweeper struct {
	dir string
	fs  filesystem.FileSystem
	now func() time.Time
}

// New creates a sweeper for dir.
func New(dir string, fs filesystem.FileSystem) *Sweeper {
	if fs == nil {
		fs = filesystem.NewOSFileSystem()
	}
	return &Sweeper{dir: dir, fs: fs, now: time.Now}
}

// Sweep removes temp files last modified more than olderThan ago. Files
// still in use by a live materializer are younger than any sane olderThan.
// A failed removal is logged and counted; only a failure to list the
// directory or a cancelled context is returned.
func (s *Sweeper) Sweep(ctx context.Context, olderThan time.Duration) (Result, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{}, nil
		}
		return Result{}, err
	}

	cutoff := s.now().Add(-olderThan)

	var (
		scanned int
		removed atomic.Int64
		failed  atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRemovals)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(materializer.TempPattern, entry.Name()); !ok {
			continue
		}
		scanned++

		path := filepath.Join(s.dir, entry.Name())
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			info, err := s.fs.Stat(path)
			if err != nil {
				if !os.IsNotExist(err) {
					failed.Add(1)
					logger.Warnf("Failed to stat %s: %v", path, err)
				}
				return nil
			}
			if info.ModTime().After(cutoff) {
				return nil
			}

			if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
				failed.Add(1)
				logger.Warnf("Failed to sweep %s: %v", path, err)
				return nil
			}

			removed.Add(1)
			logger.Debugf("Swept stale temp file %s", path)
			return nil
		})
	}

	err = g.Wait()

	res := Result{
		Scanned: scanned,
		Removed: int(removed.Load()),
		Failed:  int(failed.Load()),
	}
	logger.Infof("Sweep of %s: scanned=%d removed=%d failed=%d", s.dir, res.Scanned, res.Removed, res.Failed)

	return res, err
}
