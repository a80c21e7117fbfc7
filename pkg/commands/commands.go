package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/commands/options"
)

type rootOptions struct {
	Debug bool
}

func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gapflow",
		Short: "A team journal of gains, actions and plans.",
		Long: options.Wrap(`gapflow keeps a journal of what you gained, what you did about it
			(nothing yet, a standard procedure, or an iteration on the root cause) and what
			comes next. Log in once, add entries, and browse your feed or the team's.`, options.HelpWidth),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().BoolVar(&ro.Debug, "debug", false, "Log debug output to stderr.")

	AddCommands(cmd, ro)
	return cmd
}

func AddCommands(topLevel *cobra.Command, ro *rootOptions) {
	addLogin(topLevel, ro)
	addWhoami(topLevel, ro)
	addAdd(topLevel, ro)
	addFeed(topLevel, ro)
	addStats(topLevel, ro)
	addShare(topLevel, ro)
	addReport(topLevel, ro)
	addUI(topLevel, ro)
	addKey(topLevel)
	addInfo(topLevel, ro)
	addVersion(topLevel)
	addCompletions(topLevel)
}
