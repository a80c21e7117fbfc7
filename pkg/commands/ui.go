package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/share"
	"tableflip.dev/gapflow/pkg/tui"
)

func addUI(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Browse the feed in an interactive terminal UI.",
		Long: `Browse the feed in an interactive terminal UI.

Keys: tab switches between your feed and the team's, j/k move, s copies
the selected entry to the clipboard, i copies the team invite link, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("ui needs an interactive terminal, use `gapflow feed` instead")
			}
			s, err := openSession(ro, func(cfg blob.Config) share.Sharer {
				return &share.Clipboard{InviteURL: cfg.InviteURL()}
			})
			if err != nil {
				return err
			}
			defer s.Close()

			if err := requireLogin(s.ctrl); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return tui.Run(ctx, s.ctrl)
		},
	}

	topLevel.AddCommand(cmd)
}
