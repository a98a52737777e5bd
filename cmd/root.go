package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ride",
		Short:         "Ridebird carpooling client: find trips, book seats, chat with drivers",
		Long:          "ride is a terminal client for the Ridebird carpooling service. Search and post trips, send booking and price-offer requests, chat with drivers and passengers, and keep up with notifications.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newSignupCmd(app),
		newResetPasswordCmd(app),
		newAccountCmd(app),
		newStatusCmd(app),
		newTripsCmd(app),
		newBookCmd(app),
		newOfferCmd(app),
		newChatCmd(app),
		newNotificationsCmd(app),
		newLangCmd(app),
	)

	return rootCmd
}
