package objectstore

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Adapter implements adapter.StoreAdapter for the object paradigm.
type Adapter struct{}

// NewAdapter creates a new object store adapter instance.
func NewAdapter() adapter.StoreAdapter {
	return &Adapter{}
}

// Paradigm returns the paradigm identifier.
func (a *Adapter) Paradigm() paradigm.Paradigm {
	return paradigm.Object
}

// Capabilities returns the capability metadata.
func (a *Adapter) Capabilities() paradigm.Capability {
	return paradigm.MustGet(paradigm.Object)
}

// Connect establishes a connection to the object store.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, adapter.NewConnectionError(paradigm.Object, config.Host, config.Port, err)
	}

	id := config.ConnectionID
	if id == "" {
		id = uuid.New().String()
	}

	return &Connection{
		id:        id,
		client:    client,
		config:    config,
		connected: 1,
	}, nil
}

// Connection implements adapter.Connection for the object store. Safe for
// concurrent use; the underlying client carries no per-call state.
type Connection struct {
	id        string
	client    *Client
	config    adapter.ConnectionConfig
	connected int32
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Paradigm returns the paradigm identifier.
func (c *Connection) Paradigm() paradigm.Paradigm {
	return paradigm.Object
}

// IsConnected returns whether the connection is active.
func (c *Connection) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Ping tests the connection.
func (c *Connection) Ping(ctx context.Context) error {
	if !c.IsConnected() {
		return adapter.ErrConnectionClosed
	}
	return c.client.Ping(ctx)
}

// Close closes the connection.
func (c *Connection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return adapter.ErrConnectionClosed
	}
	// The MinIO client holds no resources that need explicit closing
	return nil
}

// Execute dispatches an operation to its implementation.
func (c *Connection) Execute(ctx context.Context, op adapter.Operation) (interface{}, error) {
	if !c.IsConnected() {
		return nil, adapter.ErrConnectionClosed
	}

	switch op.Kind {
	case "put":
		return c.put(ctx, op)
	case "get":
		return c.get(ctx, op)
	case "list":
		return c.list(ctx, op)
	case "delete":
		return c.delete(ctx, op)
	case "stat":
		return c.stat(ctx, op)
	}
	return nil, adapter.NewUnsupportedOperationError(paradigm.Object, op.Kind)
}

// Raw returns the underlying MinIO client wrapper.
func (c *Connection) Raw() interface{} {
	return c.client
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}
