package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errMissingCredentials = errors.New("phone and password are required")

func newLoginCmd(app *app) *cobra.Command {
	var phone string
	var password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with phone and password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if phone == "" || password == "" {
				return errMissingCredentials
			}

			result, err := app.api.Login(cmd.Context(), phone, password)
			if err != nil {
				return err
			}

			if err := app.session.Create(cmd.Context(), result.User, result.Tokens); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", result.User.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	cmd.AddCommand(newLoginOTPCmd(app))

	return cmd
}

// newLoginOTPCmd runs the passwordless flow: without --code it requests a
// one-time code, with --code it completes the exchange.
func newLoginOTPCmd(app *app) *cobra.Command {
	var phone string
	var code string

	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Sign in with a one-time code",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if phone == "" {
				return errors.New("phone is required")
			}

			if code == "" {
				if err := app.api.StartPhoneAuth(cmd.Context(), phone); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Code sent. Rerun with --code to finish signing in.")
				return nil
			}

			result, err := app.api.VerifyPhoneAuth(cmd.Context(), phone, code)
			if err != nil {
				return err
			}

			if err := app.session.Create(cmd.Context(), result.User, result.Tokens); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", result.User.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&code, "code", "", "One-time code received by SMS")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Clear(cmd.Context()); err != nil {
				return err
			}
			app.cache.Forget(nil)

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
