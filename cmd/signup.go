package cmd

import (
	"errors"
	"fmt"

	"github.com/ridebird/ride-cli/internal/api"
	"github.com/spf13/cobra"
)

func newSignupCmd(app *app) *cobra.Command {
	var reg api.Registration

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reg.Phone == "" || reg.Password == "" {
				return errMissingCredentials
			}

			if err := app.api.Register(cmd.Context(), reg); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Account created. Check your SMS and run `ride signup verify` with the code.")
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password")
	cmd.Flags().StringVar(&reg.Language, "language", "", "Preferred language code")

	cmd.AddCommand(newSignupVerifyCmd(app))

	return cmd
}

func newSignupVerifyCmd(app *app) *cobra.Command {
	var phone string
	var code string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a new account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if phone == "" || code == "" {
				return errors.New("phone and code are required")
			}

			result, err := app.api.Verify(cmd.Context(), phone, code)
			if err != nil {
				return err
			}

			if err := app.session.Create(cmd.Context(), result.User, result.Tokens); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", result.User.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&code, "code", "", "Verification code received by SMS")

	return cmd
}

func newResetPasswordCmd(app *app) *cobra.Command {
	var phone string
	var code string
	var newPassword string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a forgotten password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if phone == "" {
				return errors.New("phone is required")
			}

			if code == "" {
				if err := app.api.ResetPasswordStepOne(cmd.Context(), phone); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Code sent. Rerun with --code and --new-password to finish.")
				return nil
			}

			if newPassword == "" {
				return errors.New("new password is required")
			}

			if err := app.api.ResetPasswordStepTwo(cmd.Context(), phone, code, newPassword); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Password updated. Run `ride login` to sign in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&code, "code", "", "Reset code received by SMS")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "New password")

	return cmd
}
