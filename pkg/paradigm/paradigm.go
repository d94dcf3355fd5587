// Package paradigm defines the canonical identifiers and capability metadata
// for the storage paradigms served by the gateway. Use these constants to look
// up capability information.
package paradigm

import "strings"

// Paradigm is the canonical identifier for a storage paradigm.
type Paradigm string

const (
	Object   Paradigm = "object"
	Vector   Paradigm = "vector"
	Graph    Paradigm = "graph"
	Columnar Paradigm = "columnar"
)

// ParamType describes the expected shape of an operation parameter.
type ParamType string

const (
	TypeString    ParamType = "string"
	TypeBytes     ParamType = "bytes"     // []byte or string
	TypeInt       ParamType = "int"       // any integer-valued number
	TypeFloat     ParamType = "float"     // any number
	TypeMap       ParamType = "map"       // map[string]any
	TypeList      ParamType = "list"      // []any
	TypeFloatList ParamType = "floatlist" // []float32/[]float64/[]any of numbers
)

// ParamSpec declares a single operation parameter.
type ParamSpec struct {
	Name     string    `json:"name"`
	Type     ParamType `json:"type"`
	Required bool      `json:"required"`
}

// OperationSpec declares a registered operation kind and its parameter shape.
type OperationSpec struct {
	Kind   string      `json:"kind"`
	Params []ParamSpec `json:"params,omitempty"`
}

// Capability describes a storage paradigm in a way the router and supervisor
// can consume uniformly.
type Capability struct {
	// Human-friendly name, e.g. "Object Store".
	Name string `json:"name"`

	// Canonical ID used across the codebase, e.g. "object".
	ID Paradigm `json:"id"`

	// Backend product the bundled adapter targets, e.g. "MinIO".
	Backend string `json:"backend"`

	// Default port of the backend.
	DefaultPort int `json:"defaultPort"`

	// Whether the underlying driver connection may be used from multiple
	// goroutines without adapter-side serialization. Declared per adapter,
	// never assumed.
	ConcurrencySafe bool `json:"concurrencySafe"`

	// Registered operation kinds with their parameter shapes. Operations not
	// listed here are rejected before reaching the adapter.
	Operations []OperationSpec `json:"operations"`
}

var capabilities = map[Paradigm]Capability{
	Object: {
		Name:            "Object Store",
		ID:              Object,
		Backend:         "MinIO",
		DefaultPort:     9000,
		ConcurrencySafe: true,
		Operations: []OperationSpec{
			{Kind: "put", Params: []ParamSpec{
				{Name: "key", Type: TypeString, Required: true},
				{Name: "content", Type: TypeBytes, Required: true},
				{Name: "contentType", Type: TypeString},
			}},
			{Kind: "get", Params: []ParamSpec{
				{Name: "key", Type: TypeString, Required: true},
			}},
			{Kind: "list", Params: []ParamSpec{
				{Name: "prefix", Type: TypeString},
			}},
			{Kind: "delete", Params: []ParamSpec{
				{Name: "key", Type: TypeString, Required: true},
			}},
			{Kind: "stat", Params: []ParamSpec{
				{Name: "key", Type: TypeString, Required: true},
			}},
		},
	},
	Vector: {
		Name:            "Vector Store",
		ID:              Vector,
		Backend:         "Chroma",
		DefaultPort:     8000,
		ConcurrencySafe: true,
		Operations: []OperationSpec{
			{Kind: "index", Params: []ParamSpec{
				{Name: "id", Type: TypeString, Required: true},
				{Name: "text", Type: TypeString},
				{Name: "embedding", Type: TypeFloatList},
				{Name: "metadata", Type: TypeMap},
			}},
			{Kind: "query", Params: []ParamSpec{
				{Name: "text", Type: TypeString},
				{Name: "embedding", Type: TypeFloatList},
				{Name: "topK", Type: TypeInt},
				{Name: "filter", Type: TypeMap},
			}},
			{Kind: "delete", Params: []ParamSpec{
				{Name: "id", Type: TypeString, Required: true},
			}},
			{Kind: "stats"},
		},
	},
	Graph: {
		Name:            "Graph Store",
		ID:              Graph,
		Backend:         "Neo4j",
		DefaultPort:     7687,
		ConcurrencySafe: true,
		Operations: []OperationSpec{
			{Kind: "createNode", Params: []ParamSpec{
				{Name: "label", Type: TypeString, Required: true},
				{Name: "properties", Type: TypeMap},
			}},
			{Kind: "createEdge", Params: []ParamSpec{
				{Name: "fromId", Type: TypeString, Required: true},
				{Name: "toId", Type: TypeString, Required: true},
				{Name: "relation", Type: TypeString, Required: true},
				{Name: "properties", Type: TypeMap},
			}},
			{Kind: "neighbors", Params: []ParamSpec{
				{Name: "nodeId", Type: TypeString, Required: true},
				{Name: "relation", Type: TypeString},
				{Name: "maxHops", Type: TypeInt},
			}},
			{Kind: "shortestPath", Params: []ParamSpec{
				{Name: "fromId", Type: TypeString, Required: true},
				{Name: "toId", Type: TypeString, Required: true},
			}},
			{Kind: "clear"},
		},
	},
	Columnar: {
		Name:            "Columnar Store",
		ID:              Columnar,
		Backend:         "ClickHouse",
		DefaultPort:     9000,
		ConcurrencySafe: true,
		Operations: []OperationSpec{
			{Kind: "createTable", Params: []ParamSpec{
				{Name: "table", Type: TypeString, Required: true},
				{Name: "columns", Type: TypeList, Required: true},
			}},
			{Kind: "bulkInsert", Params: []ParamSpec{
				{Name: "table", Type: TypeString, Required: true},
				{Name: "rows", Type: TypeList, Required: true},
			}},
			{Kind: "query", Params: []ParamSpec{
				{Name: "name", Type: TypeString},
				{Name: "params", Type: TypeMap},
				{Name: "raw", Type: TypeString},
			}},
			{Kind: "tableStats", Params: []ParamSpec{
				{Name: "table", Type: TypeString, Required: true},
			}},
		},
	},
}

// aliases maps alternative spellings to canonical paradigm IDs.
var aliases = map[string]Paradigm{
	"object":         Object,
	"objectstore":    Object,
	"object-storage": Object,
	"object_storage": Object,
	"blob":           Object,
	"vector":         Vector,
	"vectorstore":    Vector,
	"vector-db":      Vector,
	"vector_db":      Vector,
	"graph":          Graph,
	"graphstore":     Graph,
	"graph-db":       Graph,
	"graph_db":       Graph,
	"columnar":       Columnar,
	"columnarstore":  Columnar,
	"columnar-db":    Columnar,
	"columnar_db":    Columnar,
	"analytics":      Columnar,
}

// Parse resolves a paradigm name or alias to its canonical identifier.
func Parse(name string) (Paradigm, bool) {
	p, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// Get returns the capability metadata for a paradigm.
func Get(p Paradigm) (Capability, bool) {
	cap, ok := capabilities[p]
	return cap, ok
}

// MustGet returns the capability metadata for a paradigm, panicking when the
// paradigm is unknown. Use only with the package constants.
func MustGet(p Paradigm) Capability {
	cap, ok := capabilities[p]
	if !ok {
		panic("paradigm: unknown paradigm " + string(p))
	}
	return cap
}

// Operation returns the operation spec registered for a kind under a
// paradigm.
func Operation(p Paradigm, kind string) (OperationSpec, bool) {
	cap, ok := capabilities[p]
	if !ok {
		return OperationSpec{}, false
	}
	for _, op := range cap.Operations {
		if op.Kind == kind {
			return op, true
		}
	}
	return OperationSpec{}, false
}

// All returns the canonical paradigms in stable order.
func All() []Paradigm {
	return []Paradigm{Object, Vector, Graph, Columnar}
}
