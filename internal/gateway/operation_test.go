package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

func TestValidateOperation(t *testing.T) {
	tests := []struct {
		name    string
		op      adapter.Operation
		wantMsg string
	}{
		{
			name:    "missing paradigm",
			op:      adapter.Operation{Kind: "put"},
			wantMsg: "paradigm is required",
		},
		{
			name:    "unknown paradigm",
			op:      adapter.Operation{Paradigm: "document", Kind: "put"},
			wantMsg: "unknown paradigm",
		},
		{
			name:    "missing kind",
			op:      adapter.Operation{Paradigm: paradigm.Object},
			wantMsg: "operation kind is required",
		},
		{
			name:    "kind from another paradigm",
			op:      adapter.Operation{Paradigm: paradigm.Object, Kind: "bulkInsert"},
			wantMsg: "does not support",
		},
		{
			name:    "missing required parameter",
			op:      adapter.Operation{Paradigm: paradigm.Object, Kind: "put", Params: map[string]interface{}{}},
			wantMsg: "missing required parameter 'key'",
		},
		{
			name: "wrong parameter type",
			op: adapter.Operation{Paradigm: paradigm.Vector, Kind: "query", Params: map[string]interface{}{
				"text": "shoes",
				"topK": "three",
			}},
			wantMsg: "parameter 'topK' must be of type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ValidateOperation(tt.op)
			require.NotNil(t, info)
			assert.Equal(t, CategoryInvalidInput, info.Category)
			assert.False(t, info.Retryable)
			assert.Contains(t, info.Message, tt.wantMsg)
		})
	}
}

func TestValidateOperationAccepts(t *testing.T) {
	tests := []struct {
		name string
		op   adapter.Operation
	}{
		{
			name: "object put with json-shaped params",
			op: adapter.Operation{Paradigm: paradigm.Object, Kind: "put", Params: map[string]interface{}{
				"key":     "products/p-1/image.png",
				"content": "png-bytes",
			}},
		},
		{
			name: "vector query with decoded embedding",
			op: adapter.Operation{Paradigm: paradigm.Vector, Kind: "query", Params: map[string]interface{}{
				"embedding": []interface{}{float64(0.1), float64(0.2)},
				"topK":      float64(3),
			}},
		},
		{
			name: "graph neighbors with optional params omitted",
			op: adapter.Operation{Paradigm: paradigm.Graph, Kind: "neighbors", Params: map[string]interface{}{
				"nodeId": "u-1",
			}},
		},
		{
			name: "columnar bulkInsert",
			op: adapter.Operation{Paradigm: paradigm.Columnar, Kind: "bulkInsert", Params: map[string]interface{}{
				"table": "sales",
				"rows":  []interface{}{map[string]interface{}{"order_id": "o-1"}},
			}},
		},
		{
			name: "columnar named query without params",
			op: adapter.Operation{Paradigm: paradigm.Columnar, Kind: "query", Params: map[string]interface{}{
				"name": "top-products",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ValidateOperation(tt.op))
		})
	}
}
