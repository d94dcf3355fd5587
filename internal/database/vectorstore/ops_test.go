package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
)

func testConn(dimension int, metric string) *Connection {
	return &Connection{
		client:      &Client{collection: "documents", dimension: dimension, metric: metric},
		topKCeiling: defaultTopKCeiling,
		connected:   1,
	}
}

func TestSimilarityConversion(t *testing.T) {
	t.Run("distance metrics invert", func(t *testing.T) {
		c := testConn(0, "cosine")
		assert.Equal(t, 1.0, c.similarity(0))
		assert.InDelta(t, 0.5, c.similarity(1), 1e-9)

		// Larger distance means a smaller score
		assert.Greater(t, c.similarity(0.2), c.similarity(0.9))
	})

	t.Run("similarity metrics pass through", func(t *testing.T) {
		c := testConn(0, "similarity")
		assert.InDelta(t, 0.87, c.similarity(0.87), 1e-6)
	})
}

func TestResolveEmbedding(t *testing.T) {
	t.Run("explicit embedding wins", func(t *testing.T) {
		c := testConn(3, "cosine")
		op := adapter.Operation{Params: map[string]interface{}{
			"embedding": []interface{}{float64(1), float64(2), float64(3)},
		}}

		v, err := c.resolveEmbedding(context.Background(), op, "ignored text")
		require.NoError(t, err)
		assert.Len(t, v, 3)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		c := testConn(4, "cosine")
		op := adapter.Operation{Params: map[string]interface{}{
			"embedding": []interface{}{float64(1), float64(2)},
		}}

		_, err := c.resolveEmbedding(context.Background(), op, "")
		assert.ErrorIs(t, err, adapter.ErrInvalidInput)
	})

	t.Run("unset dimension accepts any length", func(t *testing.T) {
		c := testConn(0, "cosine")
		op := adapter.Operation{Params: map[string]interface{}{
			"embedding": []interface{}{float64(1), float64(2)},
		}}

		v, err := c.resolveEmbedding(context.Background(), op, "")
		require.NoError(t, err, "the backend owns dimension checks when none is configured")
		assert.Len(t, v, 2)
	})

	t.Run("neither text nor embedding", func(t *testing.T) {
		c := testConn(0, "cosine")
		_, err := c.resolveEmbedding(context.Background(), adapter.Operation{}, "")
		assert.ErrorIs(t, err, adapter.ErrInvalidInput)
	})

	t.Run("text without embedder", func(t *testing.T) {
		c := testConn(0, "cosine")
		_, err := c.resolveEmbedding(context.Background(), adapter.Operation{}, "some text")
		assert.ErrorIs(t, err, adapter.ErrNotConfigured)
	})
}

func TestQueryRejectsTopKOutOfBounds(t *testing.T) {
	c := testConn(0, "cosine")

	for _, topK := range []int{0, -1, defaultTopKCeiling + 1} {
		op := adapter.Operation{Params: map[string]interface{}{
			"topK":      topK,
			"embedding": []interface{}{float64(1)},
		}}
		_, err := c.query(context.Background(), op)
		assert.ErrorIs(t, err, adapter.ErrInvalidInput, "topK=%d", topK)
	}
}

func TestIndexRequiresID(t *testing.T) {
	c := testConn(0, "cosine")
	_, err := c.index(context.Background(), adapter.Operation{Params: map[string]interface{}{
		"embedding": []interface{}{float64(1)},
	}})
	assert.ErrorIs(t, err, adapter.ErrInvalidInput)
}
