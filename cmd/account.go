package cmd

import (
	"fmt"

	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the signed-in account",
	}

	cmd.AddCommand(newAccountDeleteCmd(app))

	return cmd
}

// newAccountDeleteCmd deletes the account by re-proving credentials, then
// clears the local session and records the redirect flag the next start
// uses to show a farewell notice.
func newAccountDeleteCmd(app *app) *cobra.Command {
	var phone string
	var password string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if phone == "" || password == "" {
				return errMissingCredentials
			}

			confirmed, err := confirmPrompt(cmd, app, "Delete the account permanently? This cannot be undone.")
			if err != nil {
				return err
			}
			if !confirmed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			if err := app.api.DeleteAccountByCredentials(cmd.Context(), phone, password); err != nil {
				return err
			}

			if err := app.session.Clear(cmd.Context()); err != nil {
				return err
			}
			app.cache.Forget(nil)

			if err := mutateState(cmd, app, func(state *ports.ClientState) {
				state.DeletedAccountRedirect = true
			}); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Account deleted.")
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}
