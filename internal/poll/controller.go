package poll

import (
	"context"
	"sync"
	"time"

	"github.com/ridebird/ride-cli/internal/ports"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

type State int

const (
	Armed State = iota
	Suppressed
)

func (s State) String() string {
	if s == Suppressed {
		return "suppressed"
	}
	return "armed"
}

const (
	DefaultInterval       = 5 * time.Second
	DefaultTypingCooldown = 2 * time.Second
	DefaultIdleThreshold  = 60 * time.Second
)

type Config struct {
	Name           string
	Interval       time.Duration
	TypingCooldown time.Duration
	IdleThreshold  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = "poll"
	}
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.TypingCooldown <= 0 {
		c.TypingCooldown = DefaultTypingCooldown
	}
	if c.IdleThreshold <= 0 {
		c.IdleThreshold = DefaultIdleThreshold
	}
	return c
}

// RefreshFunc is the periodic refresh a view registers. Failures are
// logged, never surfaced: background refresh noise must not interrupt
// the user.
type RefreshFunc func(ctx context.Context) error

// Controller decides, per view, whether an automatic refresh should fire.
// It is Armed immediately on start and re-evaluates suppression at every
// tick: suppressed while the user is typing (for a cooldown after the last
// keystroke) or after prolonged inactivity, re-armed as soon as the
// suppressing condition lapses.
type Controller struct {
	cfg     Config
	monitor *Monitor
	clock   ports.Clock
	log     zerolog.Logger
	refresh RefreshFunc
	breaker *gobreaker.CircuitBreaker[any]

	mu    sync.Mutex
	state State
}

func NewController(cfg Config, monitor *Monitor, refresh RefreshFunc, clock ports.Clock, log zerolog.Logger) *Controller {
	cfg = cfg.withDefaults()
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Controller{
		cfg:     cfg,
		monitor: monitor,
		clock:   clock,
		log:     log,
		refresh: refresh,
		breaker: newBreaker(cfg.Name, log),
	}
}

// Start begins ticking and returns a disposer that must be invoked exactly
// once on teardown.
func (c *Controller) Start(ctx context.Context) func() {
	ticker := time.NewTicker(c.cfg.Interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				c.tick(ctx)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// ForceRefresh fires the refresh immediately, bypassing suppression. Used
// right after the user's own mutation so their change shows without
// waiting for the next tick.
func (c *Controller) ForceRefresh(ctx context.Context) {
	c.fire(ctx)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) tick(ctx context.Context) {
	if c.evaluate(c.clock.Now()) == Suppressed {
		return
	}
	c.fire(ctx)
}

// evaluate recomputes the state from the activity signal at every tick,
// not just at transitions.
func (c *Controller) evaluate(now time.Time) State {
	sig := c.monitor.Signal()

	suppressed := false
	if !sig.LastKeystrokeAt.IsZero() && now.Sub(sig.LastKeystrokeAt) < c.cfg.TypingCooldown {
		suppressed = true
	}
	if sig.IsFormActive {
		suppressed = true
	}
	if !sig.LastActivityAt.IsZero() && now.Sub(sig.LastActivityAt) > c.cfg.IdleThreshold {
		suppressed = true
	}

	state := Armed
	if suppressed {
		state = Suppressed
	}

	c.mu.Lock()
	c.state = state
	c.mu.Unlock()

	return state
}

func (c *Controller) fire(ctx context.Context) {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.refresh(ctx)
	})
	if err != nil {
		c.log.Debug().Err(err).Str("view", c.cfg.Name).Msg("background refresh failed")
	}
}
