package cmd

import (
	"context"
	"fmt"

	tripsrender "github.com/ridebird/ride-cli/internal/adapters/render/trips"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user and unread counters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.session.HasActiveSession() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), tripsrender.RenderStatus(nil, 0, 0, 0))
				return nil
			}

			var chatUnread, notifUnread, bookingsUnread int
			fetch := func(ctx context.Context) error {
				var err error
				if chatUnread, err = app.api.ChatUnreadCount(ctx); err != nil {
					return err
				}
				if notifUnread, err = app.api.NotificationsUnreadCount(ctx); err != nil {
					return err
				}
				if bookingsUnread, err = app.api.BookingsUnreadCount(ctx); err != nil {
					return err
				}
				return nil
			}

			if err := runFetchSpinner(cmd.Context(), cmd.ErrOrStderr(), "Fetching unread counters...", fetch); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tripsrender.RenderStatus(app.session.User(), chatUnread, notifUnread, bookingsUnread))
			return nil
		},
	}
}
