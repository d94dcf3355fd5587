// Package gateway routes operations to paradigm adapters and normalizes
// every outcome into the uniform envelope shape.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/polystoreio/polystore/internal/database"
	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/logger"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Backends is the slice of the connection supervisor the router needs.
// *database.Supervisor satisfies it.
type Backends interface {
	State(p paradigm.Paradigm) database.HandleState
	EnsureReady(ctx context.Context, p paradigm.Paradigm) (adapter.Connection, error)
	Acquire() (func(), error)
}

// Recorder receives one observation per routed operation.
// *monitoring.Tracker satisfies it.
type Recorder interface {
	Record(p paradigm.Paradigm, kind string, d time.Duration, failed bool)
}

// Router is the single entry point for operations. It validates, acquires a
// connection, executes with a bounded deadline, and returns an envelope. It
// never returns a Go error: every outcome is an envelope.
type Router struct {
	backends   Backends
	normalizer *Normalizer
	recorder   Recorder
	log        *logger.Logger
	opTimeout  time.Duration
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithOperationTimeout bounds each operation's execution.
func WithOperationTimeout(d time.Duration) RouterOption {
	return func(r *Router) { r.opTimeout = d }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec Recorder) RouterOption {
	return func(r *Router) { r.recorder = rec }
}

// NewRouter creates a router over the given backends.
func NewRouter(backends Backends, log *logger.Logger, opts ...RouterOption) *Router {
	r := &Router{
		backends:   backends,
		normalizer: NewNormalizer(log),
		log:        log,
		opTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route executes one operation end to end. The returned envelope always has
// the latency stamped and exactly one of data or error populated.
func (r *Router) Route(ctx context.Context, op adapter.Operation) Envelope {
	start := time.Now()
	env := r.route(ctx, op)
	env.LatencyMs = float64(time.Since(start).Microseconds()) / 1000.0

	if r.recorder != nil {
		r.recorder.Record(op.Paradigm, op.Kind, time.Since(start), !env.OK)
	}
	if r.log != nil && !env.OK {
		r.log.Debug("%s/%s failed: %s (%s)", op.Paradigm, op.Kind, env.Error.Message, env.Error.Category)
	}
	return env
}

func (r *Router) route(ctx context.Context, op adapter.Operation) Envelope {
	if info := ValidateOperation(op); info != nil {
		return Failure(op, *info)
	}

	// Operations against a handle that is known dead fail fast instead of
	// queueing behind a dial that cannot succeed yet.
	switch r.backends.State(op.Paradigm) {
	case database.StateDegraded:
		return Failure(op, ErrorInfo{
			Category:  CategoryBackendUnavailable,
			Message:   fmt.Sprintf("%s backend is degraded", op.Paradigm),
			Retryable: true,
		})
	case database.StateClosed:
		return Failure(op, ErrorInfo{
			Category:  CategoryBackendUnavailable,
			Message:   fmt.Sprintf("%s backend is shut down", op.Paradigm),
			Retryable: false,
		})
	}

	release, err := r.backends.Acquire()
	if err != nil {
		return Failure(op, ErrorInfo{
			Category:  CategoryBackendUnavailable,
			Message:   "gateway is shutting down",
			Retryable: false,
		})
	}
	defer release()

	conn, err := r.backends.EnsureReady(ctx, op.Paradigm)
	if err != nil {
		return r.normalizer.Normalize(op, nil, err)
	}

	opCtx, cancel := context.WithTimeout(ctx, r.opTimeout)
	defer cancel()

	data, err := r.execute(opCtx, conn, op)
	return r.normalizer.Normalize(op, data, err)
}

// execute shields the gateway from a misbehaving adapter: a panic surfaces as
// an Internal error instead of tearing the process down.
func (r *Router) execute(ctx context.Context, conn adapter.Connection, op adapter.Operation) (data interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			data = nil
			err = fmt.Errorf("adapter panic during %s/%s: %v", op.Paradigm, op.Kind, rec)
			if r.log != nil {
				r.log.Error("adapter panic during %s/%s: %v", op.Paradigm, op.Kind, rec)
			}
		}
	}()
	return conn.Execute(ctx, op)
}
