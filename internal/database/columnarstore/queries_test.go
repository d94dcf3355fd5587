package columnarstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
)

func TestBuildNamedQuery(t *testing.T) {
	t.Run("simple aggregate", func(t *testing.T) {
		sql, args, err := buildNamedQuery("total-by-category",
			map[string]interface{}{"table": "sales"})
		require.NoError(t, err)
		assert.Contains(t, sql, "FROM sales")
		assert.Contains(t, sql, "GROUP BY category")
		assert.Empty(t, args)
	})

	t.Run("limit is bound not interpolated", func(t *testing.T) {
		sql, args, err := buildNamedQuery("top-products",
			map[string]interface{}{"table": "sales", "limit": float64(3)})
		require.NoError(t, err)
		assert.Contains(t, sql, "LIMIT ?")
		assert.NotContains(t, sql, "LIMIT 3")
		assert.Equal(t, []interface{}{3}, args)
	})

	t.Run("limit defaults", func(t *testing.T) {
		_, args, err := buildNamedQuery("top-products",
			map[string]interface{}{"table": "sales"})
		require.NoError(t, err)
		assert.Equal(t, []interface{}{10}, args)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, _, err := buildNamedQuery("drop-everything", map[string]interface{}{"table": "sales"})
		assert.ErrorIs(t, err, adapter.ErrInvalidInput)
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := buildNamedQuery("total-by-region", nil)
		assert.ErrorIs(t, err, adapter.ErrInvalidInput)
	})

	t.Run("injection in table name", func(t *testing.T) {
		_, _, err := buildNamedQuery("total-by-region",
			map[string]interface{}{"table": "sales; DROP TABLE sales"})
		assert.ErrorIs(t, err, adapter.ErrInvalidInput)
	})

	t.Run("limit out of bounds", func(t *testing.T) {
		_, _, err := buildNamedQuery("top-products",
			map[string]interface{}{"table": "sales", "limit": float64(0)})
		assert.ErrorIs(t, err, adapter.ErrInvalidInput)
	})
}

func TestValidIdentifier(t *testing.T) {
	assert.True(t, validIdentifier("sales"))
	assert.True(t, validIdentifier("scenario_sales"))
	assert.True(t, validIdentifier("_private"))
	assert.False(t, validIdentifier(""))
	assert.False(t, validIdentifier("1sales"))
	assert.False(t, validIdentifier("sales; DROP"))
	assert.False(t, validIdentifier("sa-les"))
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		colType  string
		expected interface{}
		wantErr  bool
	}{
		{"string", "hello", "String", "hello", false},
		{"string from number", float64(5), "String", nil, true},
		{"int from json number", float64(42), "Int64", int64(42), false},
		{"int rejects fraction", float64(4.2), "Int64", nil, true},
		{"uint rejects negative", float64(-1), "UInt64", nil, true},
		{"float from int", 3, "Float64", float64(3), false},
		{"bool", true, "Bool", true, false},
		{"bool from string", "true", "Bool", nil, true},
		{"datetime rfc3339", "2026-08-30T12:00:00Z", "DateTime", nil, false},
		{"date plain", "2026-08-30", "Date", nil, false},
		{"datetime garbage", "yesterday-ish", "DateTime", nil, true},
		{"unknown type", "x", "UUID", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceValue(tt.value, tt.colType)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.expected != nil {
				assert.Equal(t, tt.expected, got)
			}
		})
	}

	t.Run("time passthrough", func(t *testing.T) {
		now := time.Now()
		got, err := coerceValue(now, "DateTime")
		require.NoError(t, err)
		assert.Equal(t, now, got)
	})
}
