package vectorstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

const defaultTopK = 5

// queryResponse mirrors the Chroma query result shape: one inner slice per
// query embedding, and we always send exactly one.
type queryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Documents [][]string                 `json:"documents,omitempty"`
	Metadatas [][]map[string]interface{} `json:"metadatas,omitempty"`
	Distances [][]float32                `json:"distances,omitempty"`
}

func (c *Connection) index(ctx context.Context, op adapter.Operation) (interface{}, error) {
	id, _ := op.StringParam("id")
	if id == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Vector, "id", "id must not be empty")
	}

	text, _ := op.StringParam("text")
	embedding, err := c.resolveEmbedding(ctx, op, text)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"ids":        []string{id},
		"embeddings": [][]float32{embedding},
	}
	if text != "" {
		body["documents"] = []string{text}
	}
	if metadata, ok := op.MapParam("metadata"); ok {
		body["metadatas"] = []map[string]interface{}{metadata}
	}

	// Upsert so re-indexing an id overwrites instead of erroring
	if err := c.client.post(ctx, "upsert", body, nil); err != nil {
		return nil, adapter.WrapError(paradigm.Vector, "index", err)
	}

	return map[string]interface{}{
		"id":        id,
		"indexed":   true,
		"dimension": len(embedding),
	}, nil
}

func (c *Connection) query(ctx context.Context, op adapter.Operation) (interface{}, error) {
	topK := op.IntOr("topK", defaultTopK)
	if topK < 1 || topK > c.topKCeiling {
		return nil, adapter.NewInvalidInputError(paradigm.Vector, "topK",
			fmt.Sprintf("topK must be between 1 and %d", c.topKCeiling))
	}

	text, _ := op.StringParam("text")
	embedding, err := c.resolveEmbedding(ctx, op, text)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"query_embeddings": [][]float32{embedding},
		"n_results":        topK,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if filter, ok := op.MapParam("filter"); ok && len(filter) > 0 {
		body["where"] = filter
	}

	var resp queryResponse
	if err := c.client.post(ctx, "query", body, &resp); err != nil {
		return nil, adapter.WrapError(paradigm.Vector, "query", err)
	}

	matches := make([]map[string]interface{}, 0)
	if len(resp.IDs) > 0 {
		for i, id := range resp.IDs[0] {
			match := map[string]interface{}{"id": id}
			if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
				match["score"] = c.similarity(resp.Distances[0][i])
			}
			if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
				match["text"] = resp.Documents[0][i]
			}
			if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
				match["metadata"] = resp.Metadatas[0][i]
			}
			matches = append(matches, match)
		}
	}

	// Callers always see scores where larger means more similar
	sort.SliceStable(matches, func(i, j int) bool {
		si, _ := matches[i]["score"].(float64)
		sj, _ := matches[j]["score"].(float64)
		return si > sj
	})

	return map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	}, nil
}

func (c *Connection) delete(ctx context.Context, op adapter.Operation) (interface{}, error) {
	id, _ := op.StringParam("id")
	if id == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Vector, "id", "id must not be empty")
	}

	body := map[string]interface{}{"ids": []string{id}}
	if err := c.client.post(ctx, "delete", body, nil); err != nil {
		return nil, adapter.WrapError(paradigm.Vector, "delete", err)
	}

	// Deleting an absent id succeeds; delete is idempotent
	return map[string]interface{}{
		"id":      id,
		"deleted": true,
	}, nil
}

func (c *Connection) stats(ctx context.Context, op adapter.Operation) (interface{}, error) {
	count, err := c.client.Count(ctx)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Vector, "stats", err)
	}

	return map[string]interface{}{
		"collection": c.client.Collection(),
		"count":      count,
		"dimension":  c.client.dimension,
		"metric":     c.client.metric,
	}, nil
}

// resolveEmbedding produces the vector for an operation: an explicit
// embedding parameter wins, otherwise the text is embedded. The configured
// dimension, when set, is enforced either way. A zero dimension leaves
// enforcement to the backend, which rejects a mismatched write itself.
func (c *Connection) resolveEmbedding(ctx context.Context, op adapter.Operation, text string) ([]float32, error) {
	embedding, hasEmbedding := op.FloatListParam("embedding")
	if !hasEmbedding {
		if text == "" {
			return nil, adapter.NewInvalidInputError(paradigm.Vector, "embedding",
				"either text or embedding is required")
		}
		if c.embedder == nil {
			return nil, fmt.Errorf("%w: no embedding endpoint configured and no embedding provided",
				adapter.ErrNotConfigured)
		}
		var err error
		embedding, err = c.embedder.Embed(ctx, text)
		if err != nil {
			return nil, adapter.WrapError(paradigm.Vector, "embed", err)
		}
	}

	if dim := c.client.dimension; dim > 0 && len(embedding) != dim {
		return nil, adapter.NewInvalidInputError(paradigm.Vector, "embedding",
			fmt.Sprintf("expected dimension %d, got %d", dim, len(embedding)))
	}
	return embedding, nil
}

// similarity converts a backend distance into a score where larger is more
// similar. Backends already reporting similarity pass through unchanged.
func (c *Connection) similarity(distance float32) float64 {
	if c.client.metric == "similarity" {
		return float64(distance)
	}
	return 1.0 / (1.0 + float64(distance))
}
