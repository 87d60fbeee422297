package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type State uint8

const (
	Closed State = iota + 1
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpen = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(fn func() error) error
	State() State
	Reset()
}

type Settings struct {
	// Window is how many recent calls are tracked while closed.
	Window int
	// FailureRatio of failed calls within Window that opens the breaker.
	FailureRatio float64
	// OpenTimeout is how long the breaker rejects calls before probing.
	OpenTimeout time.Duration
	// RecoveryCalls is how many consecutive half-open successes close it again.
	RecoveryCalls int
}

type circuitBreaker struct {
	mu       sync.Mutex
	settings Settings
	state    State
	openedAt time.Time
	// outcomes is a ring of the last Window calls, true = failed.
	outcomes  []bool
	pos       int
	successes int
	now       func() time.Time
}

func New(s Settings) CircuitBreaker {
	if s.Window <= 0 {
		s.Window = 1
	}
	return &circuitBreaker{
		settings: s,
		state:    Closed,
		outcomes: make([]bool, s.Window),
		now:      time.Now,
	}
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.openedAt) < cb.settings.OpenTimeout {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.state = HalfOpen
		cb.successes = 0
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.successes++
		if cb.successes >= cb.settings.RecoveryCalls {
			cb.reset()
		}
		return err
	}

	cb.outcomes[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % len(cb.outcomes)

	failed := 0
	for _, f := range cb.outcomes {
		if f {
			failed++
		}
	}
	if float64(failed)/float64(len(cb.outcomes)) >= cb.settings.FailureRatio {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.openedAt = cb.now()
	cb.successes = 0
}

func (cb *circuitBreaker) reset() {
	for i := range cb.outcomes {
		cb.outcomes[i] = false
	}
	cb.pos = 0
	cb.successes = 0
	cb.state = Closed
}
