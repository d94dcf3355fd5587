// Package graphstore implements the graph paradigm over Neo4j.
package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Client wraps the Neo4j driver. The driver is connection-pooled and safe for
// concurrent use; sessions are created per call and never shared.
type Client struct {
	driver neo4j.DriverWithContext
}

// NewClient creates a Neo4j driver and verifies connectivity.
func NewClient(ctx context.Context, cfg adapter.ConnectionConfig) (*Client, error) {
	port := cfg.Port
	if port == 0 {
		port = paradigm.MustGet(paradigm.Graph).DefaultPort
	}

	scheme := "bolt"
	if cfg.SSL {
		scheme = "bolt+s"
	}
	uri := fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, port)

	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("error creating graph driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("error verifying graph connectivity: %w", err)
	}

	return &Client{driver: driver}, nil
}

// Ping verifies connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

// Close shuts down the driver and its connection pool.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// readSession opens a read-mode session.
func (c *Client) readSession(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
}

// writeSession opens a write-mode session.
func (c *Client) writeSession(ctx context.Context) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
}

// Driver returns the underlying Neo4j driver.
func (c *Client) Driver() neo4j.DriverWithContext {
	return c.driver
}
