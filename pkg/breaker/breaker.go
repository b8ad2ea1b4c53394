// Package breaker guards calls to a flaky dependency. After MaxFailures
// consecutive failures the breaker opens and rejects calls for OpenTimeout,
// then lets calls through half-open until enough of them succeed.
package breaker

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/restaurant-backend/pkg/logger"
)

// State of a circuit breaker
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// ErrOpen is returned without calling fn while the breaker is open
var ErrOpen = errors.New("circuit breaker is open")

// Config tunes a breaker; zero fields take the defaults
type Config struct {
	MaxFailures      int
	OpenTimeout      time.Duration
	HalfOpenRequired int
}

// DefaultConfig opens after 5 failures for 30s and closes after 3 half-open successes
func DefaultConfig() Config {
	return Config{MaxFailures: 5, OpenTimeout: 30 * time.Second, HalfOpenRequired: 3}
}

// Breaker is safe for concurrent use
type Breaker struct {
	name   string
	config Config
	now    func() time.Time

	mu              sync.Mutex
	state           State
	failures        int
	successes       int
	lastStateChange time.Time
}

// New creates a closed breaker
func New(name string, config Config) *Breaker {
	defaults := DefaultConfig()
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = defaults.OpenTimeout
	}
	if config.HalfOpenRequired <= 0 {
		config.HalfOpenRequired = defaults.HalfOpenRequired
	}
	return &Breaker{
		name:            name,
		config:          config,
		now:             time.Now,
		state:           StateClosed,
		lastStateChange: time.Now(),
	}
}

// Call runs fn unless the breaker is open
func (b *Breaker) Call(fn func() error) error {
	if !b.allow() {
		return ErrOpen
	}
	err := fn()
	b.record(err)
	return err
}

// State reports the current state, moving open to half-open when the timeout has passed
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireOpen()
	return b.state
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expireOpen()
	return b.state != StateOpen
}

func (b *Breaker) expireOpen() {
	if b.state == StateOpen && b.now().Sub(b.lastStateChange) >= b.config.OpenTimeout {
		b.transition(StateHalfOpen)
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.config.MaxFailures {
			b.transition(StateOpen)
		}
		return
	}

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.HalfOpenRequired {
			b.transition(StateClosed)
		}
	case StateClosed:
		b.failures = 0
	}
}

// transition must be called with mu held
func (b *Breaker) transition(to State) {
	from := b.state
	b.state = to
	b.lastStateChange = b.now()
	b.successes = 0
	if to == StateClosed {
		b.failures = 0
	}

	event := logger.Logger.Info()
	if to == StateOpen {
		event = logger.Logger.Warn().Int("failures", b.failures)
	}
	event.
		Str("circuit", b.name).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("Circuit breaker state changed")
}
