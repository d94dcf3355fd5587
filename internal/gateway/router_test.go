package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polystoreio/polystore/internal/database"
	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

type fakeBackends struct {
	state      database.HandleState
	conn       adapter.Connection
	ensureErr  error
	shutdown   bool
	ensureHits int
}

func (f *fakeBackends) State(paradigm.Paradigm) database.HandleState {
	return f.state
}

func (f *fakeBackends) EnsureReady(context.Context, paradigm.Paradigm) (adapter.Connection, error) {
	f.ensureHits++
	return f.conn, f.ensureErr
}

func (f *fakeBackends) Acquire() (func(), error) {
	if f.shutdown {
		return nil, database.ErrShuttingDown
	}
	return func() {}, nil
}

type fakeConn struct {
	execute func(ctx context.Context, op adapter.Operation) (interface{}, error)
}

func (f *fakeConn) ID() string                       { return "fake" }
func (f *fakeConn) Paradigm() paradigm.Paradigm      { return paradigm.Object }
func (f *fakeConn) IsConnected() bool                { return true }
func (f *fakeConn) Ping(context.Context) error       { return nil }
func (f *fakeConn) Close() error                     { return nil }
func (f *fakeConn) Raw() interface{}                 { return nil }
func (f *fakeConn) Config() adapter.ConnectionConfig { return adapter.ConnectionConfig{} }
func (f *fakeConn) Execute(ctx context.Context, op adapter.Operation) (interface{}, error) {
	return f.execute(ctx, op)
}

func statOp() adapter.Operation {
	return adapter.Operation{
		Paradigm: paradigm.Object,
		Kind:     "stat",
		Params:   map[string]interface{}{"key": "products/p-1/image.png"},
	}
}

func TestRouteSuccess(t *testing.T) {
	backends := &fakeBackends{
		state: database.StateReady,
		conn: &fakeConn{execute: func(context.Context, adapter.Operation) (interface{}, error) {
			return map[string]interface{}{"size": int64(42)}, nil
		}},
	}
	r := NewRouter(backends, nil)

	env := r.Route(context.Background(), statOp())

	assert.True(t, env.OK)
	assert.Equal(t, paradigm.Object, env.Paradigm)
	assert.Equal(t, "stat", env.Kind)
	assert.NotNil(t, env.Data)
	assert.Nil(t, env.Error)
	assert.GreaterOrEqual(t, env.LatencyMs, 0.0)
}

func TestRouteValidationFailsBeforeBackend(t *testing.T) {
	backends := &fakeBackends{state: database.StateReady}
	r := NewRouter(backends, nil)

	env := r.Route(context.Background(), adapter.Operation{
		Paradigm: paradigm.Object,
		Kind:     "stat",
	})

	require.NotNil(t, env.Error)
	assert.Equal(t, CategoryInvalidInput, env.Error.Category)
	assert.Zero(t, backends.ensureHits, "invalid operations must not touch the backend")
}

func TestRouteDegradedFastFails(t *testing.T) {
	backends := &fakeBackends{state: database.StateDegraded}
	r := NewRouter(backends, nil)

	env := r.Route(context.Background(), statOp())

	require.NotNil(t, env.Error)
	assert.Equal(t, CategoryBackendUnavailable, env.Error.Category)
	assert.True(t, env.Error.Retryable)
	assert.Zero(t, backends.ensureHits)
}

func TestRouteUnconfiguredBackend(t *testing.T) {
	backends := &fakeBackends{
		state:     database.StateDisconnected,
		ensureErr: adapter.ErrNotConfigured,
	}
	r := NewRouter(backends, nil)

	env := r.Route(context.Background(), statOp())

	require.NotNil(t, env.Error)
	assert.Equal(t, CategoryBackendUnavailable, env.Error.Category)
}

func TestRouteAdapterPanicBecomesInternal(t *testing.T) {
	backends := &fakeBackends{
		state: database.StateReady,
		conn: &fakeConn{execute: func(context.Context, adapter.Operation) (interface{}, error) {
			panic("adapter bug")
		}},
	}
	r := NewRouter(backends, nil)

	env := r.Route(context.Background(), statOp())

	require.NotNil(t, env.Error)
	assert.Equal(t, CategoryInternal, env.Error.Category)
	assert.False(t, env.OK)
}

func TestRouteTimeoutCategory(t *testing.T) {
	backends := &fakeBackends{
		state: database.StateReady,
		conn: &fakeConn{execute: func(ctx context.Context, _ adapter.Operation) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}},
	}
	r := NewRouter(backends, nil, WithOperationTimeout(10*time.Millisecond))

	env := r.Route(context.Background(), statOp())

	require.NotNil(t, env.Error)
	assert.Equal(t, CategoryTimeout, env.Error.Category)
	assert.True(t, env.Error.Retryable)
}

func TestRouteRejectsDuringShutdown(t *testing.T) {
	backends := &fakeBackends{state: database.StateDisconnected, shutdown: true}
	r := NewRouter(backends, nil)

	env := r.Route(context.Background(), statOp())

	require.NotNil(t, env.Error)
	assert.Equal(t, CategoryBackendUnavailable, env.Error.Category)
	assert.False(t, env.Error.Retryable)
}

type recordingRecorder struct {
	mu      sync.Mutex
	entries []struct {
		p      paradigm.Paradigm
		kind   string
		failed bool
	}
}

func (r *recordingRecorder) Record(p paradigm.Paradigm, kind string, d time.Duration, failed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, struct {
		p      paradigm.Paradigm
		kind   string
		failed bool
	}{p, kind, failed})
}

func TestRouteFeedsRecorder(t *testing.T) {
	rec := &recordingRecorder{}
	backends := &fakeBackends{
		state: database.StateReady,
		conn: &fakeConn{execute: func(context.Context, adapter.Operation) (interface{}, error) {
			return nil, errors.New("boom")
		}},
	}
	r := NewRouter(backends, nil, WithRecorder(rec))

	r.Route(context.Background(), statOp())

	require.Len(t, rec.entries, 1)
	assert.Equal(t, paradigm.Object, rec.entries[0].p)
	assert.Equal(t, "stat", rec.entries[0].kind)
	assert.True(t, rec.entries[0].failed)
}
