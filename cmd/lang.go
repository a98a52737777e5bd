package cmd

import (
	"fmt"

	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/spf13/cobra"
)

func newLangCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or set the UI language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				state, err := app.state.Load(cmd.Context())
				if err != nil {
					return err
				}
				if state.Language == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No language set.")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), state.Language)
				return nil
			}

			if err := mutateState(cmd, app, func(state *ports.ClientState) {
				state.Language = args[0]
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Language set to %s\n", args[0])
			return nil
		},
	}
}
