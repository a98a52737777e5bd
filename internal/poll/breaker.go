package poll

import (
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	breakerFailureThreshold = 5
	breakerInterval         = 2 * time.Minute
	breakerTimeout          = 30 * time.Second
)

// newBreaker guards background refreshes: after repeated consecutive
// failures the breaker opens and ticks skip silently instead of hammering
// an unreachable API.
func newBreaker(name string, log zerolog.Logger) *gobreaker.CircuitBreaker[any] {
	settings := gobreaker.Settings{
		Name:        name,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Debug().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("poll breaker state change")
		},
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}
