package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ridebird/ride-cli/internal/api"
	"github.com/ridebird/ride-cli/internal/adapters/state/tomlstate"
	"github.com/ridebird/ride-cli/internal/cache"
	"github.com/ridebird/ride-cli/internal/poll"
	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/ridebird/ride-cli/internal/session"
	"github.com/ridebird/ride-cli/internal/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

type app struct {
	session *session.Store
	api     *api.Client
	cache   *cache.Store
	monitor *poll.Monitor
	state   ports.StateStore
	log     zerolog.Logger
	now     func() time.Time
}

func wireApp() (*app, error) {
	log := newLogger()

	stateStore, err := tomlstate.NewStore(viper.New(), log)
	if err != nil {
		return nil, fmt.Errorf("wire state store: %w", err)
	}

	sessionStore := session.NewStore(stateStore, log)
	if err := sessionStore.Hydrate(context.Background()); err != nil {
		return nil, fmt.Errorf("hydrate session: %w", err)
	}

	consumeDeletedAccountNotice(context.Background(), stateStore, os.Stderr, log)

	httpClient := transport.New(
		envOrDefault("RIDE_API_URL", api.DefaultBaseURL),
		http.DefaultClient,
		sessionStore,
		loginRedirect(os.Stderr),
		log,
	)

	cacheStore := cache.NewStore(api.DefaultPolicy(), ports.SystemClock{}, log)

	return &app{
		session: sessionStore,
		api:     api.New(httpClient, cacheStore, log),
		cache:   cacheStore,
		monitor: poll.NewMonitor(ports.SystemClock{}),
		state:   stateStore,
		log:     log,
		now:     time.Now,
	}, nil
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(envOrDefault("RIDE_LOG_LEVEL", "error"))
	if err != nil {
		level = zerolog.ErrorLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// consumeDeletedAccountNotice shows the farewell notice exactly once after an
// account deletion: the flag is cleared as soon as it is read, and storage
// failures skip the notice rather than block startup.
func consumeDeletedAccountNotice(ctx context.Context, state ports.StateStore, out io.Writer, log zerolog.Logger) {
	persisted, err := state.Load(ctx)
	if err != nil || !persisted.DeletedAccountRedirect {
		return
	}

	persisted.DeletedAccountRedirect = false
	if err := state.Save(ctx, persisted); err != nil {
		log.Debug().Err(err).Msg("clear deleted-account flag")
		return
	}

	_, _ = fmt.Fprintln(out, "Your account was deleted. Run `ride signup` to start over.")
}

// loginRedirect tells the user once per process that the session is gone.
func loginRedirect(out *os.File) ports.Navigator {
	var once sync.Once
	return ports.NavigatorFunc(func() {
		once.Do(func() {
			_, _ = fmt.Fprintln(out, "Session expired. Run `ride login` to sign in again.")
		})
	})
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
