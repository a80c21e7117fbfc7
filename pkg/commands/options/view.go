package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/timeutil"
	"tableflip.dev/gapflow/pkg/view"
)

// ViewOptions
type ViewOptions struct {
	Team bool
	Last string
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().BoolVarP(&o.Team, "team", "t", false,
		"Include the team's entries.")
	cmd.Flags().StringVar(&o.Last, "last", "",
		"Only show entries from this window, for example 3d or 1w.")
}

func (o *ViewOptions) Mode() view.Mode {
	if o.Team {
		return view.Team
	}
	return view.Mine
}

// Cutoff returns the earliest timestamp (epoch ms) to show, or 0 when no
// window was given.
func (o *ViewOptions) Cutoff(now time.Time) (int64, error) {
	if o.Last == "" {
		return 0, nil
	}
	w, err := timeutil.Last(o.Last, now)
	if err != nil {
		return 0, err
	}
	return w.Cutoff(), nil
}
