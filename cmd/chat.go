package cmd

import (
	"fmt"

	tripsrender "github.com/ridebird/ride-cli/internal/adapters/render/trips"
	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "List conversations and chat about a trip",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			conversations, err := app.api.Chats(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tripsrender.RenderConversations(conversations))
			return nil
		},
	}

	cmd.AddCommand(newChatOpenCmd(app))

	return cmd
}

func newChatOpenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <trip-id> <user-id>",
		Short: "Open the conversation for a trip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireSession(app); err != nil {
				return err
			}

			return runChatView(cmd, app, domain.TripID(args[0]), domain.UserID(args[1]))
		},
	}
}
