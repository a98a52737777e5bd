package cmd

import (
	"errors"
	"fmt"
	"time"

	tripsrender "github.com/ridebird/ride-cli/internal/adapters/render/trips"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newTripsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "Search, post and manage trips",
	}

	cmd.AddCommand(
		newTripsSearchCmd(app),
		newTripsPostCmd(app),
		newTripsMineCmd(app),
		newTripsDeleteCmd(app),
	)

	return cmd
}

func newTripsSearchCmd(app *app) *cobra.Command {
	var origin string
	var destination string
	var date string
	var seats int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search for trips",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.TripFilter{
				Origin:      origin,
				Destination: destination,
				Seats:       seats,
			}
			if date != "" {
				parsed, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("parse date: %w", err)
				}
				filter.Date = parsed
			}

			trips, err := app.api.SearchTrips(cmd.Context(), filter)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tripsrender.RenderList(trips, tripsrender.RenderOptions{Now: app.now()}))
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "from", "", "Origin")
	cmd.Flags().StringVar(&destination, "to", "", "Destination")
	cmd.Flags().StringVar(&date, "date", "", "Departure date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&seats, "seats", 0, "Minimum free seats")

	return cmd
}

func newTripsPostCmd(app *app) *cobra.Command {
	var origin string
	var destination string
	var departs string
	var seats int
	var price float64
	var currency string
	var comment string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a new trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(app); err != nil {
				return err
			}
			if origin == "" || destination == "" || departs == "" {
				return errors.New("from, to and departs are required")
			}

			departsAt, err := time.Parse("2006-01-02 15:04", departs)
			if err != nil {
				return fmt.Errorf("parse departure time: %w", err)
			}

			trip, err := app.api.PostTrip(cmd.Context(), domain.TripDraft{
				Origin:       origin,
				Destination:  destination,
				DepartsAt:    departsAt,
				Seats:        seats,
				PricePerSeat: price,
				Currency:     currency,
				Comment:      comment,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Trip posted: %s\n", trip.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&origin, "from", "", "Origin")
	cmd.Flags().StringVar(&destination, "to", "", "Destination")
	cmd.Flags().StringVar(&departs, "departs", "", "Departure time (YYYY-MM-DD HH:MM)")
	cmd.Flags().IntVar(&seats, "seats", 3, "Seats on offer")
	cmd.Flags().Float64Var(&price, "price", 0, "Price per seat")
	cmd.Flags().StringVar(&currency, "currency", "AMD", "Price currency")
	cmd.Flags().StringVar(&comment, "comment", "", "Free-form comment")

	return cmd
}

func newTripsMineCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List trips you posted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			trips, err := app.api.MyTrips(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tripsrender.RenderList(trips, tripsrender.RenderOptions{Now: app.now()}))
			return nil
		},
	}
}

func newTripsDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Delete a trip you posted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			if err := app.api.DeleteTrip(cmd.Context(), domain.TripID(args[0])); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Trip deleted.")
			return nil
		},
	}
}
