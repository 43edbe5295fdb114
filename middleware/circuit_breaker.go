package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shrek82/tagcheck/logger"
	"github.com/shrek82/tagcheck/schema"
)

// ErrCircuitOpen is returned without touching the source while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "closed"
}

// CircuitBreakerMiddleware stops hammering a failing schema source, e.g. a
// seed URL that is down while watch mode keeps re-running.
type CircuitBreakerMiddleware struct {
	Threshold    int           // consecutive failed loads before opening
	ResetTimeout time.Duration // how long to stay open before one probe load
	Logger       logger.Logger

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

func NewCircuitBreaker(threshold int, resetTimeout time.Duration) *CircuitBreakerMiddleware {
	if threshold < 1 {
		threshold = 1
	}
	return &CircuitBreakerMiddleware{Threshold: threshold, ResetTimeout: resetTimeout}
}

func (m *CircuitBreakerMiddleware) Name() string { return "CircuitBreaker" }

func (m *CircuitBreakerMiddleware) Init() error { return nil }

func (m *CircuitBreakerMiddleware) Shutdown() error { return nil }

// State returns the current breaker state.
func (m *CircuitBreakerMiddleware) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *CircuitBreakerMiddleware) Process(ctx context.Context, src schema.Source, next schema.LoadFunc) (*schema.List, error) {
	if err := m.admit(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", schema.ErrSchemaFetchFailed, src.Name(), err)
	}

	l, err := next(ctx, src)
	m.record(src, err)
	return l, err
}

// admit lets a load through unless the breaker is open, or half-open with
// a probe already in flight.
func (m *CircuitBreakerMiddleware) admit() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateHalfOpen:
		return ErrCircuitOpen
	case StateOpen:
		if time.Since(m.openedAt) < m.ResetTimeout {
			return ErrCircuitOpen
		}
		m.state = StateHalfOpen
	}
	return nil
}

func (m *CircuitBreakerMiddleware) record(src schema.Source, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	if err == nil {
		m.state, m.failures = StateClosed, 0
	} else {
		m.failures++
		if prev == StateHalfOpen || m.failures >= m.Threshold {
			m.state, m.openedAt = StateOpen, time.Now()
		}
	}
	if m.state != prev && m.Logger != nil {
		m.Logger.Warn("schema source %s circuit %s -> %s after %d failure(s)", src.Name(), prev, m.state, m.failures)
	}
}
