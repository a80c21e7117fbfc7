package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/commands/options"
	"tableflip.dev/gapflow/pkg/glyph"
	"tableflip.dev/gapflow/pkg/printers"
)

func addKey(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "key",
		Short: "Explain the glyph shown for each action category.",
		Example: `
gapflow key
gapflow key --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if oo.JSON {
				return printers.JSON(cmd.OutOrStdout(), glyph.DefaultGlyphs())
			}
			pp := printers.PrettyPrint{Out: cmd.OutOrStdout()}
			pp.Key()
			return nil
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
