package clients

import (
	"sync"
	"time"
)

// State is the circuit breaker position.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen rejects requests until the cool-down has passed.
	StateOpen

	// StateHalfOpen lets a few probe requests through.
	StateHalfOpen
)

// String returns the state name used in logs and health output.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Outcome is how a request that passed the breaker ended.
type Outcome int

const (
	// OutcomeSuccess is any HTTP answer, whatever its status.
	OutcomeSuccess Outcome = iota

	// OutcomeFailure is a transport failure.
	OutcomeFailure

	// OutcomeIgnored is a request the caller gave up on; it says nothing
	// about the downstream service.
	OutcomeIgnored
)

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the run of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is the cool-down before an open circuit lets a probe through.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes and the run of
	// probe successes that closes the circuit again.
	HalfOpenLimit int
}

// BreakerStatus is a point-in-time view of a CircuitBreaker.
type BreakerStatus struct {
	State    State
	Failures int

	// RetryAt is when an open circuit will admit a probe. Zero unless open.
	RetryAt time.Time
}

// CircuitBreaker stops calling a downstream service after a run of failures
// and probes it again once the cool-down has passed.
//
//	closed    -> open       MaxFailures consecutive failures
//	open      -> half-open  Timeout elapsed, next Acquire becomes a probe
//	half-open -> closed     HalfOpenLimit consecutive probe successes
//	half-open -> open       any probe failure
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    State
	failures int
	probes   int
	passed   int
	openedAt time.Time

	onChange func(from, to State)
	now      func() time.Time
}

// NewCircuitBreaker creates a closed breaker. onChange, when set, is called
// after every state transition, outside the breaker's lock.
func NewCircuitBreaker(cfg CircuitBreakerConfig, onChange func(from, to State)) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:      cfg,
		onChange: onChange,
		now:      time.Now,
	}
}

// Acquire asks to send one request. On success the caller must call release
// exactly once with the request's outcome. While the circuit is open it
// returns an *OpenError.
func (cb *CircuitBreaker) Acquire() (release func(Outcome), err error) {
	cb.mu.Lock()

	var from State

	changed := false

	switch cb.state {
	case StateOpen:
		retryAt := cb.openedAt.Add(cb.cfg.Timeout)
		if cb.now().Before(retryAt) {
			cb.mu.Unlock()
			return nil, &OpenError{RetryAt: retryAt}
		}

		from, changed = cb.transition(StateHalfOpen)

		fallthrough

	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenLimit {
			cb.mu.Unlock()
			return nil, &OpenError{}
		}

		cb.probes++
	}

	probe := cb.state == StateHalfOpen

	cb.mu.Unlock()

	if changed {
		cb.notify(from, StateHalfOpen)
	}

	var once sync.Once

	return func(o Outcome) { once.Do(func() { cb.record(o, probe) }) }, nil
}

// record counts an outcome. Results of requests admitted in another state
// than the current one are stale and only free their probe slot.
func (cb *CircuitBreaker) record(o Outcome, probe bool) {
	cb.mu.Lock()

	halfOpen := cb.state == StateHalfOpen
	if probe && halfOpen {
		cb.probes--
	}

	var (
		from, to State
		changed  bool
	)

	switch {
	case o == OutcomeIgnored || probe != halfOpen || cb.state == StateOpen:

	case o == OutcomeSuccess && cb.state == StateClosed:
		cb.failures = 0

	case o == OutcomeSuccess:
		cb.passed++
		if cb.passed >= cb.cfg.HalfOpenLimit {
			to = StateClosed
			from, changed = cb.transition(to)
		}

	case cb.state == StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			to = StateOpen
			from, changed = cb.transition(to)
		}

	default:
		to = StateOpen
		from, changed = cb.transition(to)
	}

	cb.mu.Unlock()

	if changed {
		cb.notify(from, to)
	}
}

// transition moves to state and resets the counters. The lock must be held.
func (cb *CircuitBreaker) transition(to State) (State, bool) {
	from := cb.state
	if from == to {
		return from, false
	}

	cb.state = to
	cb.failures = 0
	cb.passed = 0

	if to == StateOpen {
		cb.openedAt = cb.now()
		cb.probes = 0
	}

	return from, true
}

func (cb *CircuitBreaker) notify(from, to State) {
	if cb.onChange != nil {
		cb.onChange(from, to)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Status returns the state with its failure run and next probe time.
func (cb *CircuitBreaker) Status() BreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	st := BreakerStatus{State: cb.state, Failures: cb.failures}
	if cb.state == StateOpen {
		st.RetryAt = cb.openedAt.Add(cb.cfg.Timeout)
	}

	return st
}
