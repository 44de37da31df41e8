package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/skel-dev/skel/internal/config"
	"github.com/skel-dev/skel/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	showManifest string
	showOutput   string
)

func init() {
	manifestShowCmd.Flags().StringVarP(&showManifest, "manifest", "m", "", "Manifest file (default: built-in layout)")
	manifestShowCmd.Flags().StringVarP(&showOutput, "output", "o", "", "Write the manifest to a file instead of stdout")
	manifestCmd.AddCommand(manifestShowCmd)
	manifestCmd.AddCommand(manifestValidateCmd)
	rootCmd.AddCommand(manifestCmd)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and validate manifests",
}

var manifestShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a manifest as normalized YAML",
	Long: `Print a manifest as normalized YAML. Without --manifest the built-in
layout is printed, which is a starting point for a custom manifest:

  skel manifest show -o layout.yaml
  skel build --manifest layout.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := renderManifest(stringSetting(cmd, "manifest", config.KeyManifest))
		if err != nil {
			return err
		}
		if showOutput == "" {
			_, err = out.Writer().Write(data)
			return err
		}
		if err := os.WriteFile(showOutput, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", showOutput, err)
		}
		out.Successf("Wrote manifest to %s", showOutput)
		return nil
	},
}

var manifestValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a manifest against the schema and layout rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runManifestCheck(out.Writer(), args[0])
	},
}

// renderManifest returns the YAML for path, or the built-in manifest
// verbatim when path is empty.
func renderManifest(path string) ([]byte, error) {
	if path == "" {
		return manifest.DefaultYAML(), nil
	}
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	return manifest.Marshal(m)
}

// runManifestCheck prints one line per check and returns an error when any
// check failed.
func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Checking %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest %s is invalid", path)
	}
	if !result.Valid {
		fmt.Fprintf(w, "  [FAIL] Schema: %d issue(s)\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(w, "         %s\n", issue)
		}
		return fmt.Errorf("manifest %s is invalid", path)
	}
	fmt.Fprintf(w, "  [ OK ] Schema\n")

	m, err := manifest.ParseFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] Layout: %v\n", err)
		return fmt.Errorf("manifest %s is invalid", path)
	}
	dirs, files := m.Counts()
	fmt.Fprintf(w, "  [ OK ] Layout: %d groups, %d directories, %d files\n", len(m.Groups), dirs, files)
	return nil
}
