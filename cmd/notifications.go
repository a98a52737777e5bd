package cmd

import (
	"fmt"

	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newNotificationsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notif"},
		Short:   "List and manage notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			notifications, err := app.api.Notifications(cmd.Context())
			if err != nil {
				return err
			}

			if len(notifications) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No notifications.")
				return nil
			}

			for _, n := range notifications {
				marker := " "
				if !n.Read {
					marker = "*"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\n", marker, n.ID, n.Kind, n.Body)
			}
			return nil
		},
	}

	cmd.AddCommand(newNotificationsReadCmd(app))

	return cmd
}

func newNotificationsReadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			if err := app.api.MarkNotificationRead(cmd.Context(), domain.NotificationID(args[0])); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Marked read.")
			return nil
		},
	}
}
