package vectorstore

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Adapter implements adapter.StoreAdapter for the vector paradigm.
type Adapter struct{}

// NewAdapter creates a new vector store adapter instance.
func NewAdapter() adapter.StoreAdapter {
	return &Adapter{}
}

// Paradigm returns the paradigm identifier.
func (a *Adapter) Paradigm() paradigm.Paradigm {
	return paradigm.Vector
}

// Capabilities returns the capability metadata.
func (a *Adapter) Capabilities() paradigm.Capability {
	return paradigm.MustGet(paradigm.Vector)
}

// Connect establishes a connection to the vector store. The embedder is
// optional: without one, only pre-embedded vectors can be indexed or queried.
func (a *Adapter) Connect(ctx context.Context, config adapter.ConnectionConfig) (adapter.Connection, error) {
	client, err := NewClient(ctx, config)
	if err != nil {
		return nil, adapter.NewConnectionError(paradigm.Vector, config.Host, config.Port, err)
	}

	var embedder *Embedder
	if config.EmbeddingHost != "" {
		embedder, err = NewEmbedder(config.EmbeddingHost, config.EmbeddingModel)
		if err != nil {
			return nil, adapter.NewConnectionError(paradigm.Vector, config.Host, config.Port, err)
		}
	}

	id := config.ConnectionID
	if id == "" {
		id = uuid.New().String()
	}

	topKCeiling := config.TopKCeiling
	if topKCeiling <= 0 {
		topKCeiling = defaultTopKCeiling
	}

	return &Connection{
		id:          id,
		client:      client,
		embedder:    embedder,
		topKCeiling: topKCeiling,
		config:      config,
		connected:   1,
	}, nil
}

// Connection implements adapter.Connection for the vector store. Safe for
// concurrent use; every request carries its own HTTP round trip.
type Connection struct {
	id          string
	client      *Client
	embedder    *Embedder
	topKCeiling int
	config      adapter.ConnectionConfig
	connected   int32
}

// ID returns the connection identifier.
func (c *Connection) ID() string {
	return c.id
}

// Paradigm returns the paradigm identifier.
func (c *Connection) Paradigm() paradigm.Paradigm {
	return paradigm.Vector
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
	return nil
}

// Execute dispatches an operation to its implementation.
func (c *Connection) Execute(ctx context.Context, op adapter.Operation) (interface{}, error) {
	if !c.IsConnected() {
		return nil, adapter.ErrConnectionClosed
	}

	switch op.Kind {
	case "index":
		return c.index(ctx, op)
	case "query":
		return c.query(ctx, op)
	case "delete":
		return c.delete(ctx, op)
	case "stats":
		return c.stats(ctx, op)
	}
	return nil, adapter.NewUnsupportedOperationError(paradigm.Vector, op.Kind)
}

// Raw returns the underlying Chroma client wrapper.
func (c *Connection) Raw() interface{} {
	return c.client
}

// Config returns the connection configuration.
func (c *Connection) Config() adapter.ConnectionConfig {
	return c.config
}
