package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	goversion "go.hein.dev/go-version"
)

// Set with -ldflags "-X tableflip.dev/gapflow/pkg/commands.version=..." at
// release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func addVersion(topLevel *cobra.Command) {
	var short bool
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the gapflow build version.",
		Example: `
gapflow version
gapflow version -o yaml
gapflow version --short
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown output format %q, want json or yaml", format)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), goversion.FuncWithOutput(short, version, commit, date, format))
			return err
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&format, "output", "o", "json", "Output format, json or yaml.")

	topLevel.AddCommand(cmd)
}
