package cli

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/NamanBalaji/filemat/internal/materializer"
	"github.com/NamanBalaji/filemat/internal/sweeper"
)

// placeholder in exec arguments replaced with the materialized path.
const placeholder = "{}"

func (a *app) putCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "put <file>",
		Short: "Store a file as a blob and print its ID",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&name, "name", "", "blob name (default: base name of file)")

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		repo, err := a.repository()
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if name == "" {
			name = filepath.Base(args[0])
		}

		info, err := repo.Save(name, f)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), info.ID)
		return nil
	})

	return cmd
}

func (a *app) listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored blobs",
		Args:    cobra.NoArgs,
	}

	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		repo, err := a.repository()
		if err != nil {
			return err
		}

		infos, err := repo.FindAll()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSIZE\tSHA256\tCREATED")
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%d\t%.12s\t%s\n",
				info.ID, info.Name, info.Size, info.SHA256, info.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	})

	return cmd
}

func (a *app) removeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove"},
		Short:   "Delete stored blobs",
		Args:    cobra.MinimumNArgs(1),
	}

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		repo, err := a.repository()
		if err != nil {
			return err
		}

		for _, arg := range args {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid blob ID %q: %w", arg, err)
			}
			if err := repo.Delete(id); err != nil {
				return fmt.Errorf("delete %s: %w", id, err)
			}
		}
		return nil
	})

	return cmd
}

func (a *app) catCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cat <ref>...",
		Short: "Materialize resources and write their content to stdout",
		Long:  "A reference is a stored blob ID, an http(s) URL or a local path.",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ms := make([]materializer.FileMaterializer, 0, len(args))
		for _, ref := range args {
			m, err := a.materializer(ctx, ref)
			if err != nil {
				materializer.ReleaseAll(ms...)
				return err
			}
			ms = append(ms, m)
		}
		defer materializer.ReleaseAll(ms...)

		paths, err := materializer.MaterializeAll(ctx, ms...)
		if err != nil {
			return err
		}

		for _, path := range paths {
			if err := copyFile(cmd.OutOrStdout(), path); err != nil {
				return err
			}
		}
		return nil
	})

	return cmd
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func (a *app) execCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <ref> -- <command> [args...]",
		Short: "Run a command against a resource's local file",
		Long: "Materializes the resource, runs the command with every " + placeholder +
			" argument replaced by the file path (or the path appended when there is none)," +
			" then releases the file.",
		Args: cobra.MinimumNArgs(2),
	}

	cmd.RunE = a.run(func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		m, err := a.materializer(ctx, args[0])
		if err != nil {
			return err
		}

		return materializer.With(ctx, m, func(path string) error {
			argv := substitute(args[1:], path)
			c := exec.CommandContext(ctx, argv[0], argv[1:]...)
			c.Stdin = cmd.InOrStdin()
			c.Stdout = cmd.OutOrStdout()
			c.Stderr = cmd.ErrOrStderr()
			return c.Run()
		})
	})

	return cmd
}

func substitute(argv []string, path string) []string {
	out := make([]string, 0, len(argv)+1)
	found := false
	for _, arg := range argv {
		if strings.Contains(arg, placeholder) {
			found = true
			arg = strings.ReplaceAll(arg, placeholder, path)
		}
		out = append(out, arg)
	}
	if !found {
		out = append(out, path)
	}
	return out
}

func (a *app) sweepCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove temp files left behind by interrupted runs",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "minimum age of files to remove (default: sweep.maxAge)")

	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		if olderThan <= 0 {
			olderThan = a.cfg.Sweep.MaxAge
		}

		res, err := sweeper.New(a.cfg.TempDir, nil).Sweep(cmd.Context(), olderThan)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d of %d temp files", res.Removed, res.Scanned)
		if res.Failed > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", res.Failed)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	})

	return cmd
}

func (a *app) kindsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List resource kinds with a registered materializer",
		Args:  cobra.NoArgs,
	}

	cmd.RunE = a.run(func(cmd *cobra.Command, _ []string) error {
		for _, kind := range a.registry.ListKinds() {
			fmt.Fprintln(cmd.OutOrStdout(), kind)
		}
		return nil
	})

	return cmd
}
