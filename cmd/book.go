package cmd

import (
	"context"
	"fmt"

	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newBookCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Request and manage seat bookings",
	}

	cmd.AddCommand(
		newBookRequestCmd(app),
		newBookListCmd(app),
		newBookActionCmd(app, "confirm", "confirmed", "Confirm a booking request on your trip", app.api.ConfirmBooking),
		newBookActionCmd(app, "decline", "declined", "Decline a booking request on your trip", app.api.DeclineBooking),
		newBookActionCmd(app, "cancel", "cancelled", "Cancel a booking you requested", app.api.CancelBooking),
	)

	return cmd
}

// newBookRequestCmd holds the composed request between the form step and
// the confirmation prompt; cancelling discards it without a network call.
func newBookRequestCmd(app *app) *cobra.Command {
	var seats int

	cmd := &cobra.Command{
		Use:   "request <trip-id>",
		Short: "Request seats on a trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			pending := domain.PendingRequest{
				Kind:   domain.PendingBooking,
				TripID: domain.TripID(args[0]),
				Seats:  seats,
			}

			confirmed, err := confirmPrompt(cmd, app, fmt.Sprintf("Request %d seat(s) on trip %s?", pending.Seats, pending.TripID))
			if err != nil {
				return err
			}
			if !confirmed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			booking, err := app.api.RequestBooking(cmd.Context(), pending.TripID, pending.Seats)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Booking %s requested (%s).\n", booking.ID, booking.Status)
			return nil
		},
	}

	cmd.Flags().IntVar(&seats, "seats", 1, "Seats to request")

	return cmd
}

func newBookListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <trip-id>",
		Short: "List booking requests on a trip you posted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			bookings, err := app.api.TripBookings(cmd.Context(), domain.TripID(args[0]))
			if err != nil {
				return err
			}

			if len(bookings) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No booking requests.")
				return nil
			}

			for _, booking := range bookings {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d seat(s)\t%s\n",
					booking.ID, booking.Passenger.FullName(), booking.Seats, booking.Status)
			}
			return nil
		},
	}
}

func newBookActionCmd(app *app, action, done, short string, run func(ctx context.Context, id domain.BookingID) error) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <booking-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			if err := run(cmd.Context(), domain.BookingID(args[0])); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Booking %s %s.\n", args[0], done)
			return nil
		},
	}
}
