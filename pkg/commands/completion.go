package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/commands/options"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts.",
		Long: `Generate a completion script for your shell. Entry ids complete too.

# ~/.bashrc
. <(gapflow completion bash)

# ~/.zshrc
source <(gapflow completion zsh)
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "bash":
				return topLevel.GenBashCompletionV2(out, true)
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			default:
				return fmt.Errorf("unsupported shell %q", shell)
			}
		},
	}

	topLevel.AddCommand(cmd)
}

// idCompletions offers the ids of the displayed entries starting with
// toComplete.
func idCompletions(ro *rootOptions, vo *options.ViewOptions, toComplete string) []string {
	s, err := openSession(ro, nil)
	if err != nil {
		return nil
	}
	defer s.Close()
	s.ctrl.SetViewMode(vo.Mode())

	var ids []string
	for _, e := range s.ctrl.Displayed() {
		if strings.HasPrefix(e.ID, toComplete) {
			ids = append(ids, fmt.Sprintf("%s\t%s", e.ID, e.Gain))
		}
	}
	return ids
}
