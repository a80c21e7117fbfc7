package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tableflip.dev/gapflow/pkg/app"
	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/commands/options"
	"tableflip.dev/gapflow/pkg/gap"
	"tableflip.dev/gapflow/pkg/printers"
	"tableflip.dev/gapflow/pkg/view"
)

// feedView is the JSON shape of the feed and stats commands.
type feedView struct {
	Mode    string      `json:"mode"`
	Entries []gap.Entry `json:"entries,omitempty"`
	Stats   view.Stats  `json:"stats"`
}

func addFeed(topLevel *cobra.Command, ro *rootOptions) {
	vo := &options.ViewOptions{}
	oo := &options.OutputOptions{}
	ido := &options.IDOptions{}
	follow := false

	cmd := &cobra.Command{
		Use:     "feed",
		Aliases: []string{"log", "ls"},
		Short:   "Show your entries, or the team's with --team.",
		Example: `
gapflow feed
gapflow feed --team --last 1w
gapflow feed --follow
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()
			err := func() error {
				cutoff, err := vo.Cutoff(time.Now())
				if err != nil {
					return err
				}
				s, err := openSession(ro, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				render := func(ctrl *app.Controller) error {
					ctrl.SetViewMode(vo.Mode())
					return renderFeed(out, ctrl, cutoff, ido.ShowID, oo.JSON)
				}
				if err := render(s.ctrl); err != nil {
					return err
				}
				if !follow {
					return nil
				}
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				return followFeed(ctx, s, render)
			}()
			return oo.HandleError(out, err)
		},
	}

	options.AddViewArgs(cmd, vo)
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, ido)
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep running and print the feed again whenever it changes.")

	topLevel.AddCommand(cmd)
}

func renderFeed(out io.Writer, ctrl *app.Controller, cutoff int64, showID, asJSON bool) error {
	displayed := view.Since(ctrl.Displayed(), cutoff)
	stats := view.Tally(displayed)
	if asJSON {
		return printers.JSON(out, feedView{Mode: ctrl.ViewMode().String(), Entries: displayed, Stats: stats})
	}
	pp := printers.PrettyPrint{ShowID: showID, Out: out}
	title := "My feed"
	if ctrl.ViewMode() == view.Team {
		title = "Team feed"
	}
	pp.TitleWithCount(title, len(displayed))
	pp.Feed(displayed...)
	pp.Stats(stats)
	return nil
}

// followFeed re-reads the store and renders again on every change until ctx
// is done.
func followFeed(ctx context.Context, s *session, render func(*app.Controller) error) error {
	w, ok := s.blob.(blob.Watcher)
	if !ok {
		return fmt.Errorf("the %s backend cannot be followed", s.cfg.Backend())
	}
	events, err := w.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				if errors.Is(ctx.Err(), context.Canceled) {
					return nil
				}
				return errors.New("watch stopped")
			}
			s.log.Debug("store changed", zap.String("key", ev.Key))
			ctrl, err := app.New(app.Options{Blob: s.blob, Team: teamSource(s.cfg), Logger: s.log})
			if err != nil {
				return err
			}
			if err := render(ctrl); err != nil {
				return err
			}
		}
	}
}

func addStats(topLevel *cobra.Command, ro *rootOptions) {
	vo := &options.ViewOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Count entries and actions in your feed, or the team's with --team.",
		Example: `
gapflow stats
gapflow stats --team --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()
			err := func() error {
				cutoff, err := vo.Cutoff(time.Now())
				if err != nil {
					return err
				}
				s, err := openSession(ro, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				s.ctrl.SetViewMode(vo.Mode())
				stats := view.Tally(view.Since(s.ctrl.Displayed(), cutoff))
				if oo.JSON {
					return printers.JSON(out, feedView{Mode: s.ctrl.ViewMode().String(), Stats: stats})
				}
				pp := printers.PrettyPrint{Out: out}
				pp.Stats(stats)
				return nil
			}()
			return oo.HandleError(out, err)
		},
	}

	options.AddViewArgs(cmd, vo)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
