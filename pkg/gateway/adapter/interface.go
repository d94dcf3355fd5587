// Package adapter provides the unified interface for all storage adapters.
// This package defines the contracts that paradigm-specific implementations
// must follow.
package adapter

import (
	"context"

	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Operation is a single typed request against one storage paradigm. It is
// constructed per request, validated before dispatch, and never mutated.
type Operation struct {
	Paradigm paradigm.Paradigm      `json:"paradigm"`
	Kind     string                 `json:"kind"`
	Params   map[string]interface{} `json:"parameters,omitempty"`
}

// StoreAdapter represents a storage paradigm adapter. Each paradigm (object,
// vector, graph, columnar) must implement this interface.
type StoreAdapter interface {
	// Paradigm returns the canonical paradigm identifier
	Paradigm() paradigm.Paradigm

	// Capabilities returns the capability metadata for this paradigm
	Capabilities() paradigm.Capability

	// Connect establishes a connection to the backend
	Connect(ctx context.Context, config ConnectionConfig) (Connection, error)
}

// Connection represents an active connection to a storage backend. Exactly
// one Connection exists per configured paradigm; its lifecycle belongs to the
// supervisor.
type Connection interface {
	// Identity and status
	ID() string
	Paradigm() paradigm.Paradigm
	IsConnected() bool

	// Lifecycle management
	Ping(ctx context.Context) error
	Close() error

	// Execute runs a validated operation against the backend and returns the
	// raw, backend-shaped result. Errors are adapter/package errors or
	// backend-native errors; the normalizer owns their translation.
	Execute(ctx context.Context, op Operation) (interface{}, error)

	// Raw returns the underlying backend-specific client object.
	// Type assertion is required when using Raw().
	Raw() interface{}

	// Config returns the connection configuration.
	Config() ConnectionConfig
}
