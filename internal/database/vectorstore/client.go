// Package vectorstore implements the vector paradigm over Chroma, with text
// embedding delegated to an OpenAI-compatible endpoint.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	chromav2 "github.com/amikos-tech/chroma-go/pkg/api/v2"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

const (
	defaultCollection  = "documents"
	defaultMetric      = "cosine"
	defaultTopKCeiling = 100
	apiVersion         = "v1"
)

// Client talks to Chroma two ways, mirroring how the backend is deployed:
// collection lifecycle goes through the typed chroma-go client, row-level
// data operations go through the REST API directly.
type Client struct {
	api        chromav2.Client
	http       *http.Client
	baseURL    string
	collection string
	dimension  int
	metric     string
}

// NewClient creates a Chroma client and guarantees the configured collection
// exists with its dimension and metric recorded as collection metadata.
func NewClient(ctx context.Context, cfg adapter.ConnectionConfig) (*Client, error) {
	port := cfg.Port
	if port == 0 {
		port = paradigm.MustGet(paradigm.Vector).DefaultPort
	}

	protocol := "http"
	if cfg.SSL {
		protocol = "https"
	}
	serverURL := fmt.Sprintf("%s://%s:%d", protocol, cfg.Host, port)

	api, err := chromav2.NewHTTPClient(chromav2.WithBaseURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store client: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = defaultCollection
	}
	metric := cfg.DistanceMetric
	if metric == "" {
		metric = defaultMetric
	}

	c := &Client{
		api:        api,
		http:       &http.Client{Timeout: 30 * time.Second},
		baseURL:    fmt.Sprintf("%s/api/%s", serverURL, apiVersion),
		collection: collection,
		dimension:  cfg.VectorDimension,
		metric:     metric,
	}

	if err := c.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ensureCollection creates the collection when missing, recording dimension
// and metric so restarts agree on the vector shape.
func (c *Client) ensureCollection(ctx context.Context) error {
	metadata := map[string]interface{}{
		"metric": c.metric,
	}
	if c.dimension > 0 {
		metadata["dimension"] = c.dimension
	}

	_, err := c.api.GetOrCreateCollection(ctx, c.collection,
		chromav2.WithCollectionMetadataCreate(chromav2.NewMetadataFromMap(metadata)),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", c.collection, err)
	}
	return nil
}

// DropCollection removes the collection and everything in it.
func (c *Client) DropCollection(ctx context.Context) error {
	return c.api.DeleteCollection(ctx, c.collection)
}

// Ping verifies connectivity with the heartbeat endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/heartbeat", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("heartbeat returned status %d", resp.StatusCode)
	}
	return nil
}

// Collection returns the collection name this client is pinned to.
func (c *Client) Collection() string {
	return c.collection
}

// post sends a JSON body to a collection endpoint and decodes the response
// into out when non-nil.
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/%s", c.baseURL, c.collection, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Count returns the number of vectors in the collection.
func (c *Client) Count(ctx context.Context) (int64, error) {
	url := fmt.Sprintf("%s/collections/%s/count", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("count returned status %d: %s", resp.StatusCode, string(detail))
	}

	var count int64
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, fmt.Errorf("failed to decode count: %w", err)
	}
	return count, nil
}
