package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/timeutil"
)

// EntryOptions
type EntryOptions struct {
	Gain    string
	Action  string
	Content string
	Plan    string
	Date    string
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVarP(&o.Gain, "gain", "g", "",
		"What was learned or gained.")
	cmd.Flags().StringVarP(&o.Action, "action", "a", "none",
		"Action category, one of 'none', 'sop' or 'iteration'.")
	cmd.Flags().StringVarP(&o.Content, "content", "c", "",
		"What was done, required unless --action=none.")
	cmd.Flags().StringVarP(&o.Plan, "plan", "p", "",
		"What happens next.")
	cmd.Flags().StringVar(&o.Date, "date", "",
		`Date of the entry, example: --date="2024-02-28" or --date=yesterday. Defaults to today.`)
}

// Draft turns the flags into a draft. now supplies the default date.
func (o *EntryOptions) Draft(now time.Time) (gap.Draft, error) {
	cat, err := gap.ParseActionCategory(o.Action)
	if err != nil {
		return gap.Draft{}, err
	}
	date, err := timeutil.ParseDate(o.Date, now)
	if err != nil {
		return gap.Draft{}, err
	}
	return gap.Draft{
		Date:           date,
		Gain:           o.Gain,
		ActionCategory: cat,
		ActionContent:  o.Content,
		Plan:           o.Plan,
	}, nil
}
