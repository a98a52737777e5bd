package poll

import (
	"sync"
	"time"

	"github.com/ridebird/ride-cli/internal/ports"
)

// Signal is a snapshot of recent user activity, read by controllers when
// deciding whether a tick may fire.
type Signal struct {
	LastActivityAt  time.Time
	LastKeystrokeAt time.Time
	IsFormActive    bool
}

// Monitor owns the process-wide activity state. It is an explicit injected
// instance, not a package global, so tests construct isolated monitors.
// Input loops feed it; controllers only read it.
type Monitor struct {
	clock ports.Clock

	mu            sync.Mutex
	lastActivity  time.Time
	lastKeystroke time.Time
	formActive    bool
}

func NewMonitor(clock ports.Clock) *Monitor {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Monitor{clock: clock}
}

// Touch records any pointer, key, touch or scroll activity.
func (m *Monitor) Touch() {
	m.mu.Lock()
	m.lastActivity = m.clock.Now()
	m.mu.Unlock()
}

// Keystroke records typing into a text input. Counts as activity too.
func (m *Monitor) Keystroke() {
	m.mu.Lock()
	now := m.clock.Now()
	m.lastActivity = now
	m.lastKeystroke = now
	m.mu.Unlock()
}

func (m *Monitor) SetFormActive(active bool) {
	m.mu.Lock()
	m.formActive = active
	m.mu.Unlock()
}

func (m *Monitor) Signal() Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Signal{
		LastActivityAt:  m.lastActivity,
		LastKeystrokeAt: m.lastKeystroke,
		IsFormActive:    m.formActive,
	}
}
