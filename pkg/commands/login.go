package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/gapflow/pkg/gap"
)

func addLogin(topLevel *cobra.Command, ro *rootOptions) {
	id := gap.Identity{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Set who is journaling. This can only be done once.",
		Example: `
gapflow login --name "Alice" --role "Product Manager"
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ctrl.Login(id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", describe(id))
			return nil
		},
	}

	cmd.Flags().StringVar(&id.Name, "name", "", "Your display name.")
	cmd.Flags().StringVar(&id.Role, "role", "", "Your role on the team.")
	_ = cmd.MarkFlagRequired("name")

	topLevel.AddCommand(cmd)
}

func addWhoami(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show who is logged in.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := openSession(ro, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			id := s.ctrl.Identity()
			if id == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), describe(*id))
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func describe(id gap.Identity) string {
	if id.Role == "" {
		return id.Name
	}
	return fmt.Sprintf("%s (%s)", id.Name, id.Role)
}
