package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/skel-dev/skel/internal/config"
	"github.com/skel-dev/skel/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	listManifest string
	listGroup    string
)

func init() {
	listCmd.Flags().StringVarP(&listManifest, "manifest", "m", "", "Manifest file (default: built-in layout)")
	listCmd.Flags().StringVar(&listGroup, "group", "", "Only list entries of this group")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the build plan",
	Long: `Print every entry of the manifest in the order build creates them:
group by group, directories before files.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadManifest(stringSetting(cmd, "manifest", config.KeyManifest))
		if err != nil {
			return err
		}
		return writePlan(out.Writer(), m, listGroup)
	},
}

// writePlan prints one "kind  group  path" row per plan entry.
func writePlan(w io.Writer, m *manifest.Manifest, group string) error {
	plan, err := m.Plan()
	if err != nil {
		return fmt.Errorf("planning %s: %w", m.Name, err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	n := 0
	for _, e := range plan {
		if group != "" && e.Group != group {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Kind, e.Group, e.Path)
		n++
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if group != "" && n == 0 {
		return fmt.Errorf("manifest %s has no group %q", m.Name, group)
	}
	return nil
}
