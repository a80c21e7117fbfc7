package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/app"
	"tableflip.dev/gapflow/pkg/commands/options"
	"tableflip.dev/gapflow/pkg/glyph"
	"tableflip.dev/gapflow/pkg/printers"
	"tableflip.dev/gapflow/pkg/timeutil"
	"tableflip.dev/gapflow/pkg/view"
)

func addReport(topLevel *cobra.Command, ro *rootOptions) {
	var last string
	vo := &options.ViewOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recent entries grouped by author",
		Long: `Report lists the entries logged within the specified time window, grouped by author.

Examples:
  gapflow report
  gapflow report --team --last 3d
  gapflow report --last 1w2d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()
			err := func() error {
				w, err := timeutil.Last(last, time.Now())
				if err != nil {
					return err
				}

				s, err := openSession(ro, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				s.ctrl.SetViewMode(vo.Mode())
				result := s.ctrl.Report(w)
				if oo.JSON {
					return printers.JSON(out, result)
				}
				renderReport(out, result, w.Label)
				return nil
			}()
			return oo.HandleError(out, err)
		},
	}

	cmd.Flags().StringVar(&last, "last", timeutil.DefaultWindow, "time window to include (for example 3d, 1w)")
	cmd.Flags().BoolVarP(&vo.Team, "team", "t", false, "Include the team's entries.")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func renderReport(out io.Writer, result app.ReportResult, label string) {
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	pp := printers.PrettyPrint{Out: out}
	pp.Title(fmt.Sprintf("Report · %s · last %s (%s → %s)", result.Mode, label, since, until))

	if result.Stats.TotalLogs == 0 {
		_, _ = fmt.Fprintln(out, "  No entries found in this window.")
		_, _ = fmt.Fprintln(out)
		return
	}

	for _, section := range result.Sections {
		who := section.Author
		if section.Role != "" {
			who = fmt.Sprintf("%s (%s)", section.Author, section.Role)
		}
		_, _ = fmt.Fprintf(out, "\n%s · %s\n", who, summary(section.Stats))
		for _, e := range section.Entries {
			_, _ = fmt.Fprintf(out, "  %s %s  %s\n", glyph.For(e.ActionCategory), e.Date, e.Gain)
		}
	}

	_, _ = fmt.Fprintf(out, "\nTotal · %s\n\n", summary(result.Stats))
}

func summary(s view.Stats) string {
	return fmt.Sprintf("%d logs, %d sop, %d iteration", s.TotalLogs, s.SOPCount, s.IterationCount)
}
