package cli

import (
	"fmt"
	"strings"

	"github.com/skel-dev/skel/internal/config"
	"github.com/skel-dev/skel/internal/logging"
	"github.com/skel-dev/skel/internal/scaffold"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings",
	Long: `Read and write settings stored at ~/.skel/config.yaml.

Keys: ` + strings.Join(config.Keys, ", ") + `

Flags given on the command line take precedence over these values.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := checkConfigValue(key, value); err != nil {
			return err
		}
		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("setting config key %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), config.Get(args[0]))
		return nil
	},
}

// checkConfigValue rejects values a later build would fail on.
func checkConfigValue(key, value string) error {
	switch key {
	case config.KeyOverwrite:
		if _, err := scaffold.ParsePolicy(value); err != nil {
			return err
		}
	case config.KeyLogLevel:
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
	}
	return nil
}
