package cmd

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitModelSettlesOnOutcome(t *testing.T) {
	t.Parallel()

	boom := errors.New("counters unavailable")
	outcome := make(chan error, 1)
	outcome <- boom

	model := waitModel{
		spinner: spinner.New(),
		label:   "Fetching...",
		outcome: outcome,
	}

	msg := model.awaitOutcome()
	done, ok := msg.(workDoneMsg)
	require.True(t, ok)
	require.ErrorIs(t, done.err, boom)

	updated, cmd := model.Update(done)
	settled := updated.(waitModel)
	assert.True(t, settled.done)
	assert.ErrorIs(t, settled.err, boom)
	assert.NotNil(t, cmd, "settling quits the program")
	assert.Empty(t, settled.View(), "nothing is left on screen once settled")
}

func TestWaitModelViewShowsLabelWhileWaiting(t *testing.T) {
	t.Parallel()

	model := waitModel{
		spinner: spinner.New(),
		label:   "Fetching unread counters...",
		outcome: make(chan error, 1),
	}

	assert.Contains(t, model.View(), "Fetching unread counters...")
}
