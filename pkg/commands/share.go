package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/commands/options"
	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/share"
)

func addShare(topLevel *cobra.Command, ro *rootOptions) {
	so := &options.ShareOptions{}
	vo := &options.ViewOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "share [id]",
		Short: "Share an entry as a card, or the team invite link with --invite.",
		Example: `
gapflow share 1f0c
gapflow share 1f0c --copy
gapflow share --invite
gapflow share team-03 --team --json
`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return idCompletions(ro, vo, toComplete), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()
			err := func() error {
				if len(args) == 0 && !so.Invite {
					return errors.New("share needs an entry id or --invite")
				}
				if len(args) > 0 && so.Invite {
					return errors.New("share takes either an entry id or --invite, not both")
				}
				s, err := openSession(ro, func(cfg blob.Config) share.Sharer {
					var primary share.Sharer = &share.Printer{Out: out, InviteURL: cfg.InviteURL(), Width: so.Width}
					if oo.JSON {
						primary = &share.JSON{Out: out, InviteURL: cfg.InviteURL()}
					}
					if so.Copy {
						return share.Tee{primary, &share.Clipboard{InviteURL: cfg.InviteURL(), Width: so.Width}}
					}
					return primary
				})
				if err != nil {
					return err
				}
				defer s.Close()

				var target *gap.Entry
				if len(args) > 0 {
					s.ctrl.SetViewMode(vo.Mode())
					e, err := s.ctrl.Find(args[0])
					if err != nil {
						return err
					}
					target = &e
				}
				if err := s.ctrl.RequestShare(context.Background(), target); err != nil {
					return err
				}
				if so.Copy && !oo.JSON {
					_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
				}
				return nil
			}()
			return oo.HandleError(out, err)
		},
	}

	options.AddShareArgs(cmd, so)
	cmd.Flags().BoolVarP(&vo.Team, "team", "t", false, "Look the id up in the team feed too.")
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
