package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/share"
)

// ShareOptions
type ShareOptions struct {
	Invite bool
	Copy   bool
	Width  int
}

func AddShareArgs(cmd *cobra.Command, o *ShareOptions) {
	cmd.Flags().BoolVar(&o.Invite, "invite", false,
		"Share the team invite link instead of an entry.")
	cmd.Flags().BoolVar(&o.Copy, "copy", false,
		"Copy to the clipboard as well.")
	cmd.Flags().IntVarP(&o.Width, "width", "w", share.DefaultWidth,
		"Wrap width of the shared card.")
}

// IDOptions
type IDOptions struct {
	ShowID bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each entry.")
}
