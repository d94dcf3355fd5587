// Package database owns the lifecycle of backend connections. One handle
// exists per configured paradigm; connections are established lazily on first
// use and torn down once at shutdown.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/logger"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// HandleState describes the lifecycle state of a paradigm's connection handle.
type HandleState int32

const (
	StateDisconnected HandleState = iota
	StateConnecting
	StateReady
	StateDegraded
	StateClosed
)

// String returns the state name used in health reports and logs.
func (s HandleState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ErrShuttingDown is returned for work arriving after shutdown has begun.
var ErrShuttingDown = errors.New("supervisor is shutting down")

// HealthRecord is a point-in-time snapshot of one paradigm's handle.
type HealthRecord struct {
	Paradigm      paradigm.Paradigm `json:"paradigm"`
	State         string            `json:"state"`
	LastCheckedAt time.Time         `json:"lastCheckedAt"`
	LastError     string            `json:"lastError,omitempty"`
}

// handle tracks one paradigm's connection. All fields are guarded by the
// supervisor mutex; done is non-nil exactly while a connect attempt is in
// flight, and waiters block on it instead of dialing themselves.
type handle struct {
	state       HandleState
	conn        adapter.Connection
	lastErr     error
	attempts    int
	nextRetryAt time.Time
	lastChecked time.Time
	done        chan struct{}
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithMaxConnectAttempts caps consecutive failed connect attempts per
// paradigm. Once reached the handle stays degraded until shutdown.
func WithMaxConnectAttempts(n int) Option {
	return func(s *Supervisor) { s.maxAttempts = n }
}

// WithBackoff sets the base delay between failed connect attempts. The delay
// doubles per consecutive failure.
func WithBackoff(d time.Duration) Option {
	return func(s *Supervisor) { s.baseBackoff = d }
}

// WithConnectTimeout bounds each individual connect attempt.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Supervisor) { s.connectTimeout = d }
}

// Supervisor manages backend connection handles across all paradigms.
type Supervisor struct {
	mu       sync.Mutex
	registry *adapter.Registry
	configs  map[paradigm.Paradigm]adapter.ConnectionConfig
	handles  map[paradigm.Paradigm]*handle
	logger   *logger.Logger

	maxAttempts    int
	baseBackoff    time.Duration
	connectTimeout time.Duration

	shutdown bool
	inflight sync.WaitGroup
}

// NewSupervisor creates a supervisor resolving adapters from the given
// registry. Pass adapter.GlobalRegistry() in production wiring.
func NewSupervisor(registry *adapter.Registry, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		registry:       registry,
		configs:        make(map[paradigm.Paradigm]adapter.ConnectionConfig),
		handles:        make(map[paradigm.Paradigm]*handle),
		logger:         log,
		maxAttempts:    5,
		baseBackoff:    500 * time.Millisecond,
		connectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetConfig registers connection settings for a paradigm. Settings for an
// already-connected paradigm take effect after the next reconnect.
func (s *Supervisor) SetConfig(p paradigm.Paradigm, cfg adapter.ConnectionConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[p] = cfg
}

// Configured returns the paradigms that have connection settings, in stable
// order.
func (s *Supervisor) Configured() []paradigm.Paradigm {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]paradigm.Paradigm, 0, len(s.configs))
	for _, p := range paradigm.All() {
		if _, ok := s.configs[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// State reports the externally visible state of a paradigm's handle. A
// degraded handle whose backoff window has lapsed reports as disconnected,
// making it eligible for a fresh attempt.
func (s *Supervisor) State(p paradigm.Paradigm) HandleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleState(p)
}

func (s *Supervisor) visibleState(p paradigm.Paradigm) HandleState {
	if s.shutdown {
		return StateClosed
	}
	h, ok := s.handles[p]
	if !ok {
		return StateDisconnected
	}
	if h.state == StateDegraded && h.attempts < s.maxAttempts && !time.Now().Before(h.nextRetryAt) {
		return StateDisconnected
	}
	return h.state
}

// Acquire registers an in-flight operation so shutdown can wait for it.
// The returned release function must be called exactly once.
func (s *Supervisor) Acquire() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return nil, ErrShuttingDown
	}
	s.inflight.Add(1)
	var once sync.Once
	return func() { once.Do(s.inflight.Done) }, nil
}

// EnsureReady returns a live connection for the paradigm, dialing lazily on
// first use. Concurrent callers during a dial collapse onto the single
// in-flight attempt and all observe its outcome. A degraded handle is retried
// only after its backoff window lapses, up to the attempt ceiling.
func (s *Supervisor) EnsureReady(ctx context.Context, p paradigm.Paradigm) (adapter.Connection, error) {
	for {
		s.mu.Lock()
		if s.shutdown {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", adapter.ErrConnectionClosed, ErrShuttingDown)
		}

		cfg, configured := s.configs[p]
		if !configured {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", adapter.ErrNotConfigured, p)
		}

		h, ok := s.handles[p]
		if !ok {
			h = &handle{state: StateDisconnected}
			s.handles[p] = h
		}

		switch h.state {
		case StateReady:
			conn := h.conn
			s.mu.Unlock()
			return conn, nil

		case StateClosed:
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", adapter.ErrConnectionClosed, p)

		case StateConnecting:
			done := h.done
			s.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}

		case StateDegraded:
			if h.attempts >= s.maxAttempts {
				err := h.lastErr
				s.mu.Unlock()
				return nil, fmt.Errorf("%w: %s gave up after %d attempts: %v",
					adapter.ErrConnectionFailed, p, s.maxAttempts, err)
			}
			if time.Now().Before(h.nextRetryAt) {
				err := h.lastErr
				s.mu.Unlock()
				return nil, fmt.Errorf("%w: %s backing off: %v", adapter.ErrConnectionFailed, p, err)
			}
		}

		// Disconnected, or degraded with the backoff window lapsed: this
		// caller performs the dial, everyone else waits on done.
		h.state = StateConnecting
		h.done = make(chan struct{})
		s.mu.Unlock()

		conn, err := s.connect(p, cfg)
		if err != nil {
			// A transient dial hiccup gets one immediate retry before the
			// handle degrades and the failure is surfaced.
			if s.logger != nil {
				s.logger.Debug("connect to %s backend failed, retrying once: %v", p, err)
			}
			conn, err = s.connect(p, cfg)
		}

		s.mu.Lock()
		close(h.done)
		h.done = nil
		if err != nil {
			h.state = StateDegraded
			h.lastErr = err
			h.attempts++
			h.nextRetryAt = time.Now().Add(s.backoffFor(h.attempts))
			attempts := h.attempts
			s.mu.Unlock()
			if s.logger != nil {
				s.logger.Warn("connect to %s backend failed (attempt %d/%d): %v", p, attempts, s.maxAttempts, err)
			}
			return nil, err
		}
		h.state = StateReady
		h.conn = conn
		h.lastErr = nil
		h.attempts = 0
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Info("connected to %s backend (%s)", p, conn.ID())
		}
		return conn, nil
	}
}

// connect performs one bounded dial through the paradigm's adapter. It uses
// its own deadline rather than the caller's context so that collapsed waiters
// share a single outcome independent of who initiated the dial.
func (s *Supervisor) connect(p paradigm.Paradigm, cfg adapter.ConnectionConfig) (adapter.Connection, error) {
	a, err := s.registry.Get(p)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.connectTimeout)
	defer cancel()

	conn, err := a.Connect(ctx, cfg)
	if err != nil {
		return nil, adapter.NewConnectionError(p, cfg.Host, cfg.Port, err)
	}
	return conn, nil
}

func (s *Supervisor) backoffFor(attempts int) time.Duration {
	d := s.baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d > 30*time.Second {
			return 30 * time.Second
		}
	}
	return d
}

// HealthCheck probes one paradigm and returns its record. A ready handle is
// pinged; a ping failure demotes the handle to degraded and drops the dead
// connection so the next use redials.
func (s *Supervisor) HealthCheck(ctx context.Context, p paradigm.Paradigm) HealthRecord {
	s.mu.Lock()
	h, ok := s.handles[p]
	if !ok || h.state != StateReady {
		state := s.visibleState(p)
		rec := HealthRecord{
			Paradigm:      p,
			State:         state.String(),
			LastCheckedAt: time.Now(),
		}
		if ok && h.lastErr != nil {
			rec.LastError = h.lastErr.Error()
		}
		if ok {
			h.lastChecked = rec.LastCheckedAt
		}
		s.mu.Unlock()
		return rec
	}
	conn := h.conn
	s.mu.Unlock()

	err := conn.Ping(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	h.lastChecked = time.Now()
	rec := HealthRecord{Paradigm: p, LastCheckedAt: h.lastChecked}
	if err != nil {
		if h.state == StateReady && h.conn == conn {
			h.state = StateDegraded
			h.lastErr = err
			h.attempts = 0
			h.nextRetryAt = time.Now().Add(s.baseBackoff)
			h.conn = nil
			go conn.Close()
		}
		rec.LastError = err.Error()
	}
	rec.State = h.state.String()
	return rec
}

// HealthAll probes every configured paradigm.
func (s *Supervisor) HealthAll(ctx context.Context) []HealthRecord {
	paradigms := s.Configured()
	out := make([]HealthRecord, 0, len(paradigms))
	for _, p := range paradigms {
		out = append(out, s.HealthCheck(ctx, p))
	}
	return out
}

// ShutdownAll closes every open connection exactly once. It first refuses new
// work, then waits for in-flight operations up to the context deadline, then
// releases handles. Repeated calls are no-ops.
func (s *Supervisor) ShutdownAll(ctx context.Context) error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	s.shutdown = true

	conns := make(map[paradigm.Paradigm]adapter.Connection)
	for p, h := range s.handles {
		if h.conn != nil {
			conns[p] = h.conn
			h.conn = nil
		}
		h.state = StateClosed
	}
	s.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-ctx.Done():
		if s.logger != nil {
			s.logger.Warn("shutdown proceeding with operations still in flight: %v", ctx.Err())
		}
	}

	var errs []error
	for p, conn := range conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", p, err))
			continue
		}
		if s.logger != nil {
			s.logger.Info("closed %s backend connection", p)
		}
	}
	return errors.Join(errs...)
}
