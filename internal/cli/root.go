package cli

import (
	"os"

	"github.com/skel-dev/skel/internal/branding"
	"github.com/skel-dev/skel/internal/config"
	"github.com/skel-dev/skel/internal/logging"
	"github.com/skel-dev/skel/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

// Global flags.
var (
	logLevel string
	noColor  bool
)

// Shared by every command once PersistentPreRunE has run.
var (
	out    = ui.New()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates the directory and file skeleton of a layered application
(core config, feature modules, shared services, routing) from a manifest.

Run without arguments to build the built-in layout in the current directory.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		if noColor {
			out.SetColor(false)
		}

		level := config.Get(config.KeyLogLevel)
		if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
			level = logLevel
		}
		l, err := logging.New(level, os.Stderr)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveBuildOptions(cmd)
		if err != nil {
			return err
		}
		_, err = runBuild(opts, out, logger)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", logging.DefaultLevel, "Diagnostic log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		stderr := ui.NewWithWriter(os.Stderr)
		if noColor {
			stderr.SetColor(false)
		}
		stderr.Error(err.Error())
	}
	_ = logger.Sync()
	return err
}

// stringSetting returns the flag value when it was set explicitly,
// otherwise the config value for key.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		return f.Value.String()
	}
	return config.Get(key)
}
