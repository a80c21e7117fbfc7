package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/commands/options"
	"tableflip.dev/gapflow/pkg/printers"
	"tableflip.dev/gapflow/pkg/store"
)

func addAdd(topLevel *cobra.Command, ro *rootOptions) {
	eo := &options.EntryOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a gain, the action taken, and the plan.",
		Example: `
gapflow add --gain "Reviews go faster with a brief" --plan "Write one for onboarding"
gapflow add -g "Flaky test was a shared dir" -a iteration -c "Per-test temp dirs" -p "Audit other suites"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()
			err := func() error {
				d, err := eo.Draft(time.Now())
				if err != nil {
					return err
				}
				s, err := openSession(ro, nil)
				if err != nil {
					return err
				}
				defer s.Close()
				if err := requireLogin(s.ctrl); err != nil {
					return err
				}

				e, err := s.ctrl.SubmitEntry(d)
				if err != nil && !errors.Is(err, store.ErrUnsaved) {
					return err
				}
				if oo.JSON {
					if jerr := printers.JSON(out, e); jerr != nil {
						return jerr
					}
				} else {
					pp := printers.PrettyPrint{Out: out}
					pp.Feed(e)
				}
				if err != nil {
					return fmt.Errorf("entry %s kept in memory only: %w", e.ID, err)
				}
				return nil
			}()
			return oo.HandleError(out, err)
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.AddOutputArg(cmd, oo)
	_ = cmd.MarkFlagRequired("gain")
	_ = cmd.MarkFlagRequired("plan")

	topLevel.AddCommand(cmd)
}
