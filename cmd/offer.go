package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newOfferCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Send and manage price offers",
	}

	cmd.AddCommand(
		newOfferSendCmd(app),
		newOfferActionCmd(app, "accept", "accepted", "Accept a price offer on your trip", app.api.AcceptOffer),
		newOfferActionCmd(app, "decline", "declined", "Decline a price offer on your trip", app.api.DeclineOffer),
	)

	return cmd
}

func newOfferSendCmd(app *app) *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "send <trip-id>",
		Short: "Offer a different price for a seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}
			if amount <= 0 {
				return errors.New("amount must be positive")
			}

			pending := domain.PendingRequest{
				Kind:   domain.PendingOffer,
				TripID: domain.TripID(args[0]),
				Amount: amount,
			}

			confirmed, err := confirmPrompt(cmd, app, fmt.Sprintf("Offer %.0f for a seat on trip %s?", pending.Amount, pending.TripID))
			if err != nil {
				return err
			}
			if !confirmed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}

			offer, err := app.api.SendOffer(cmd.Context(), pending.TripID, pending.Amount)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Offer %s sent (%s).\n", offer.ID, offer.Status)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Offered price per seat")

	return cmd
}

func newOfferActionCmd(app *app, action, done, short string, run func(ctx context.Context, id domain.OfferID) error) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <offer-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			if err := run(cmd.Context(), domain.OfferID(args[0])); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Offer %s %s.\n", args[0], done)
			return nil
		},
	}
}
