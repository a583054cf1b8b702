// Package cli wires the filemat command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NamanBalaji/filemat/internal/adapter"
	"github.com/NamanBalaji/filemat/internal/config"
	"github.com/NamanBalaji/filemat/internal/errors"
	"github.com/NamanBalaji/filemat/internal/filesystem"
	"github.com/NamanBalaji/filemat/internal/logger"
	"github.com/NamanBalaji/filemat/internal/materializer"
	"github.com/NamanBalaji/filemat/internal/repository"
	"github.com/NamanBalaji/filemat/internal/resource"
	"github.com/NamanBalaji/filemat/internal/resource/fsres"
	"github.com/NamanBalaji/filemat/internal/resource/httpres"
	httpPkg "github.com/NamanBalaji/filemat/pkg/http"
)

type app struct {
	configPath string
	debug      bool

	cfg      *config.Config
	repo     repository.Repository
	registry *adapter.Registry
	client   *httpPkg.Client
}

// Execute runs the command line until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "filemat",
		Short:         "Materialize stored and remote resources as local files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.putCommand(),
		a.listCommand(),
		a.removeCommand(),
		a.catCommand(),
		a.execCommand(),
		a.sweepCommand(),
		a.kindsCommand(),
	)

	return root
}

// run wraps a RunE so resources opened by setup are always torn down.
// PersistentPostRun would be skipped when the command fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.teardown()
		return fn(cmd, args)
	}
}

func (a *app) setup() error {
	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = config.Load(a.configPath)
	} else {
		cfg, err = config.GetConfig()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	if err := logger.InitLogging(a.debug || cfg.Log.Debug, cfg.Log.File); err != nil {
		return err
	}

	a.client = httpPkg.NewClient(httpPkg.WithResponseHeaderTimeout(cfg.Http.ResponseHeaderTimeout))
	a.registry = adapter.NewDefaultRegistry(adapter.Options{
		Eager:            cfg.Eager,
		MaterializerOpts: []materializer.Option{materializer.WithTempDir(cfg.TempDir)},
	})

	logger.Debugf("Loaded config: backend=%s dataDir=%s tempDir=%s", cfg.Backend, cfg.DataDir, cfg.TempDir)
	return nil
}

func (a *app) teardown() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			logger.Errorf("Failed to close repository: %v", err)
		}
		a.repo = nil
	}
	logger.Close()
}

// repository opens the configured blob store on first use.
func (a *app) repository() (repository.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}

	fs := filesystem.NewOSFileSystem()
	if err := fs.EnsureDirectory(a.cfg.DataDir); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var (
		repo repository.Repository
		err  error
	)
	switch a.cfg.Backend {
	case config.BackendSQLite:
		repo, err = repository.NewSQLiteRepository(a.cfg.DatabasePath())
	default:
		repo, err = repository.NewBboltRepository(a.cfg.DatabasePath())
	}
	if err != nil {
		return nil, err
	}

	a.repo = repo
	return repo, nil
}

// resolve turns a command line reference into a resource: a stored blob ID,
// an http(s) URL or a local path.
func (a *app) resolve(ctx context.Context, ref string) (resource.Resource, error) {
	if id, err := uuid.Parse(ref); err == nil {
		repo, err := a.repository()
		if err != nil {
			return nil, err
		}
		blob, err := repo.Find(id)
		if err != nil {
			return nil, err
		}
		return blob, nil
	}

	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return httpres.New(ctx, a.client, ref)
	}

	return fsres.New(ref)
}

// materializer resolves ref and adapts it to a file materializer.
func (a *app) materializer(ctx context.Context, ref string) (materializer.FileMaterializer, error) {
	r, err := a.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	m, ok, err := a.registry.Adapt(ctx, r)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", ref, errors.ErrUnsupported)
	}

	return m, nil
}
