package adapter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polystoreio/polystore/pkg/paradigm"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError(paradigm.Object, "object", "products/p-1/image.png")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "products/p-1/image.png")
	})

	t.Run("invalid input", func(t *testing.T) {
		err := NewInvalidInputError(paradigm.Vector, "topK", "must be positive")
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.True(t, IsInvalidInput(err))
		assert.Contains(t, err.Error(), "topK")
	})

	t.Run("connection", func(t *testing.T) {
		cause := errors.New("dial tcp: connection refused")
		err := NewConnectionError(paradigm.Graph, "localhost", 7687, cause)
		assert.True(t, errors.Is(err, ErrConnectionFailed))
		assert.True(t, IsConnectionError(err))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("unsupported operation", func(t *testing.T) {
		err := NewUnsupportedOperationError(paradigm.Columnar, "teleport")
		assert.True(t, errors.Is(err, ErrOperationNotSupported))
	})
}

func TestWrapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapError(paradigm.Object, "put", nil))
	})

	t.Run("wraps with context", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapError(paradigm.Object, "put", cause)

		var storeErr *StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, paradigm.Object, storeErr.Paradigm)
		assert.Equal(t, "put", storeErr.Operation)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("does not double-wrap", func(t *testing.T) {
		inner := NewStoreError(paradigm.Object, "put", errors.New("boom"))
		outer := WrapError(paradigm.Object, "retry", fmt.Errorf("attempt 2: %w", inner))

		var storeErr *StoreError
		require.True(t, errors.As(outer, &storeErr))
		assert.Equal(t, "put", storeErr.Operation)
	})

	t.Run("preserves sentinel matching through wrap", func(t *testing.T) {
		err := WrapError(paradigm.Graph, "createEdge",
			NewNotFoundError(paradigm.Graph, "node", "u-9"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
