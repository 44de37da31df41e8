package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skel-dev/skel/internal/config"
	"github.com/skel-dev/skel/internal/manifest"
	"github.com/skel-dev/skel/internal/scaffold"
	"github.com/skel-dev/skel/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// buildOptions is the resolved input of a build run.
type buildOptions struct {
	Root     string
	Manifest string
	Policy   scaffold.Policy
	DryRun   bool
	Progress bool
}

var (
	buildRoot         string
	buildManifest     string
	buildSkipExisting bool
	buildDryRun       bool
	buildProgress     bool
)

func init() {
	buildCmd.Flags().StringVar(&buildRoot, "root", "", "Directory to build into (default: current directory)")
	buildCmd.Flags().StringVarP(&buildManifest, "manifest", "m", "", "Manifest file (default: built-in layout)")
	buildCmd.Flags().BoolVar(&buildSkipExisting, "skip-existing", false, "Keep files that already exist instead of truncating them")
	buildCmd.Flags().BoolVar(&buildDryRun, "dry-run", false, "Show what would be created without touching the disk")
	buildCmd.Flags().BoolVar(&buildProgress, "progress", false, "Print one line per directory and file")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Create the project skeleton",
	Long: `Create every directory and file of a manifest under the root directory.

Existing directories are left alone. Existing files are truncated to the
manifest content unless --skip-existing is given or overwrite is set to
"skip" in the config. Running build twice yields the same tree.`,
	Example: `  skel build
  skel build --root ./app --progress
  skel build --manifest layout.yaml --skip-existing
  skel build --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveBuildOptions(cmd)
		if err != nil {
			return err
		}
		_, err = runBuild(opts, out, logger)
		return err
	},
}

// resolveBuildOptions merges command flags over config values. Commands
// without the build flags get config values only.
func resolveBuildOptions(cmd *cobra.Command) (buildOptions, error) {
	opts := buildOptions{
		Root:     stringSetting(cmd, "root", config.KeyRoot),
		Manifest: stringSetting(cmd, "manifest", config.KeyManifest),
		DryRun:   boolFlag(cmd, "dry-run"),
		Progress: boolFlag(cmd, "progress"),
	}

	policy := config.Get(config.KeyOverwrite)
	if f := cmd.Flags().Lookup("skip-existing"); f != nil && f.Changed {
		policy = string(scaffold.PolicyTruncate)
		if boolFlag(cmd, "skip-existing") {
			policy = string(scaffold.PolicySkip)
		}
	}
	p, err := scaffold.ParsePolicy(policy)
	if err != nil {
		return opts, fmt.Errorf("%s: %w", config.KeyOverwrite, err)
	}
	opts.Policy = p
	return opts, nil
}

// runBuild builds the selected manifest and reports the outcome on out.
// The partial result is returned together with any build error.
func runBuild(opts buildOptions, out *ui.UI, log *zap.Logger) (*scaffold.Result, error) {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return nil, err
	}

	m, err := loadManifest(opts.Manifest)
	if err != nil {
		return nil, err
	}

	fsys := afero.NewOsFs()
	if opts.DryRun {
		// Writes land in memory; reads fall through to the real root.
		fsys = afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fsys), afero.NewMemMapFs())
	}

	bopts := []scaffold.Option{
		scaffold.WithPolicy(opts.Policy),
		scaffold.WithLogger(log.With(zap.Bool("dry_run", opts.DryRun))),
	}
	if opts.Progress {
		bopts = append(bopts, scaffold.WithProgress(out.Writer()))
	}

	res, err := scaffold.New(fsys, root, bopts...).Build(m)
	if err != nil {
		if res != nil {
			out.Warningf("Stopped after %d directories and %d files; entries already created were kept",
				len(res.DirsCreated)+len(res.DirsExisting), len(res.FilesWritten)+len(res.FilesSkipped))
		}
		return res, fmt.Errorf("building %s: %w", m.Name, err)
	}

	if opts.DryRun {
		out.Infof("Dry run: nothing was written to %s", root)
	}
	out.Successf("Project structure created successfully at %s", root)
	out.Printf("  %d directories created, %d already present", len(res.DirsCreated), len(res.DirsExisting))
	out.Printf("  %d files written, %d kept", len(res.FilesWritten), len(res.FilesSkipped))
	if n := len(res.FilesOverwritten); n > 0 {
		out.Warningf("%d existing files were truncated (use --skip-existing to keep them)", n)
	}
	return res, nil
}

// boolFlag reports whether the named flag exists on cmd and is true.
func boolFlag(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Value.String() == "true"
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}
	return abs, nil
}

// loadManifest loads path, or the built-in manifest when path is empty.
func loadManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		m, err := manifest.Default()
		if err != nil {
			return nil, fmt.Errorf("loading built-in manifest: %w", err)
		}
		return m, nil
	}
	return manifest.Load(path)
}
