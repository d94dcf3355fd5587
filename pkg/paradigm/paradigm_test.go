package paradigm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Paradigm
		ok       bool
	}{
		{"canonical object", "object", Object, true},
		{"canonical vector", "vector", Vector, true},
		{"canonical graph", "graph", Graph, true},
		{"canonical columnar", "columnar", Columnar, true},
		{"alias object-storage", "object-storage", Object, true},
		{"alias vector-db", "vector-db", Vector, true},
		{"alias graph_db", "graph_db", Graph, true},
		{"alias analytics", "analytics", Columnar, true},
		{"case insensitive", "OBJECT", Object, true},
		{"unknown", "document", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := Parse(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, p)
			}
		})
	}
}

func TestGet(t *testing.T) {
	cap, ok := Get(Object)
	require.True(t, ok)
	assert.Equal(t, Object, cap.ID)
	assert.Equal(t, 9000, cap.DefaultPort)
	assert.True(t, cap.ConcurrencySafe)

	_, ok = Get(Paradigm("document"))
	assert.False(t, ok)
}

func TestOperationLookup(t *testing.T) {
	spec, ok := Operation(Object, "put")
	require.True(t, ok)
	assert.Equal(t, "put", spec.Kind)

	var required []string
	for _, param := range spec.Params {
		if param.Required {
			required = append(required, param.Name)
		}
	}
	assert.Contains(t, required, "key")

	_, ok = Operation(Object, "bulkInsert")
	assert.False(t, ok, "bulkInsert belongs to columnar, not object")

	_, ok = Operation(Graph, "teleport")
	assert.False(t, ok)
}

func TestEveryParadigmDeclaresOperations(t *testing.T) {
	for _, p := range All() {
		cap := MustGet(p)
		assert.NotEmpty(t, cap.Operations, "paradigm %s has no operations", p)
		for kind, spec := range cap.Operations {
			assert.Equal(t, kind, spec.Kind, "operation key %s/%s disagrees with its spec", p, kind)
		}
	}
}

func TestAllStableOrder(t *testing.T) {
	first := All()
	second := All()
	assert.Equal(t, first, second)
	assert.Len(t, first, 4)
}
