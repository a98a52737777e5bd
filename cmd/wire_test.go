package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/ridebird/ride-cli/internal/adapters/state/tomlstate"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletedAccountNoticeShowsOnce(t *testing.T) {
	t.Parallel()

	store, err := tomlstate.NewStoreAt(filepath.Join(t.TempDir(), "state.toml"), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, ports.ClientState{
		Language:               "et",
		DeletedAccountRedirect: true,
	}))

	out := &bytes.Buffer{}
	consumeDeletedAccountNotice(ctx, store, out, zerolog.Nop())
	assert.Contains(t, out.String(), "account was deleted")

	state, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, state.DeletedAccountRedirect, "the flag is consumed on first read")
	assert.Equal(t, "et", state.Language, "unrelated fields survive the clear")

	out.Reset()
	consumeDeletedAccountNotice(ctx, store, out, zerolog.Nop())
	assert.Empty(t, out.String(), "the notice never repeats")
}

func TestDeletedAccountNoticeSilentWithoutFlag(t *testing.T) {
	t.Parallel()

	store, err := tomlstate.NewStoreAt(filepath.Join(t.TempDir(), "state.toml"), zerolog.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	consumeDeletedAccountNotice(context.Background(), store, out, zerolog.Nop())
	assert.Empty(t, out.String())
}
