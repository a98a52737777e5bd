package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ridebird/ride-cli/internal/domain"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/spf13/cobra"
)

// requireSession is the route guard: commands that talk to authenticated
// endpoints direct the user to login instead of issuing a doomed request.
func requireSession(app *app) error {
	if !app.session.HasActiveSession() {
		return fmt.Errorf("%w: run `ride login` first", domain.ErrNotAuthenticated)
	}
	return nil
}

// confirmPrompt shows the secondary yes/no prompt used by booking, offer
// and account-deletion flows. Anything but an explicit yes cancels.
func confirmPrompt(cmd *cobra.Command, app *app, question string) (bool, error) {
	app.monitor.SetFormActive(true)
	defer app.monitor.SetFormActive(false)

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func mutateState(cmd *cobra.Command, app *app, mutate func(*ports.ClientState)) error {
	state, err := app.state.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load client state: %w", err)
	}

	mutate(&state)

	if err := app.state.Save(cmd.Context(), state); err != nil {
		return fmt.Errorf("save client state: %w", err)
	}

	return nil
}
