package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/blob"
	"tableflip.dev/gapflow/pkg/commands/options"
	"tableflip.dev/gapflow/pkg/printers"
)

type infoView struct {
	Config        *blob.FileConfig `json:"config,omitempty"`
	Keys          []string         `json:"keys,omitempty"`
	Authenticated bool             `json:"authenticated"`
	Entries       int              `json:"entries"`
	Warnings      []string         `json:"warnings,omitempty"`
}

func addInfo(topLevel *cobra.Command, ro *rootOptions) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where entries are stored.",
		Example: `
gapflow info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()
			err := func() error {
				s, err := openSession(ro, nil)
				if err != nil {
					return err
				}
				defer s.Close()

				v := infoView{
					Authenticated: s.ctrl.Authenticated(),
					Entries:       len(s.ctrl.Own()),
				}
				if fc, ok := s.cfg.(*blob.FileConfig); ok {
					v.Config = fc
				}
				if d, ok := s.blob.(*blob.Diskv); ok {
					v.Keys = d.Keys()
				}
				for _, w := range s.ctrl.Warnings() {
					v.Warnings = append(v.Warnings, w.Error())
				}
				if oo.JSON {
					return printers.JSON(out, v)
				}

				if override := os.Getenv("GAPFLOW_CONFIG_PATH"); override != "" {
					_, _ = fmt.Fprintln(out, "GAPFLOW_CONFIG_PATH found on env, using", override)
				} else {
					_, _ = fmt.Fprintln(out, "GAPFLOW_CONFIG_PATH env var not set")
				}
				_, _ = fmt.Fprintln(out, "Config.path:", s.cfg.BasePath())
				_, _ = fmt.Fprintln(out, "Config.backend:", s.cfg.Backend())
				if s.cfg.TeamPath() != "" {
					_, _ = fmt.Fprintln(out, "Config.team:", s.cfg.TeamPath())
				} else {
					_, _ = fmt.Fprintln(out, "Config.team: built-in sample")
				}
				_, _ = fmt.Fprintln(out, "Logged in:", v.Authenticated)
				_, _ = fmt.Fprintln(out, "Entries:", v.Entries)
				for _, w := range v.Warnings {
					_, _ = fmt.Fprintln(out, "Warning:", w)
				}
				return nil
			}()
			return oo.HandleError(out, err)
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
