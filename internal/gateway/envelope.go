package gateway

import (
	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// Category classifies a failed operation. The set is closed: every error
// crossing the gateway boundary is exactly one of these.
type Category string

const (
	CategoryNotFound           Category = "NotFound"
	CategoryInvalidInput       Category = "InvalidInput"
	CategoryBackendUnavailable Category = "BackendUnavailable"
	CategoryTimeout            Category = "Timeout"
	CategoryConflict           Category = "Conflict"
	CategoryInternal           Category = "Internal"
)

// ErrorInfo is the uniform error shape carried by a failed envelope.
type ErrorInfo struct {
	Category  Category `json:"category"`
	Message   string   `json:"message"`
	Retryable bool     `json:"retryable"`
}

// Envelope is the uniform response shape returned for every operation,
// success or failure. Exactly one of Data/Error is set.
type Envelope struct {
	OK        bool              `json:"ok"`
	Paradigm  paradigm.Paradigm `json:"paradigm"`
	Kind      string            `json:"kind"`
	Data      interface{}       `json:"data,omitempty"`
	Error     *ErrorInfo        `json:"error,omitempty"`
	LatencyMs float64           `json:"latencyMs"`
}

// Success builds a successful envelope for an operation.
func Success(op adapter.Operation, data interface{}) Envelope {
	return Envelope{
		OK:       true,
		Paradigm: op.Paradigm,
		Kind:     op.Kind,
		Data:     data,
	}
}

// Failure builds a failed envelope for an operation.
func Failure(op adapter.Operation, info ErrorInfo) Envelope {
	return Envelope{
		OK:       false,
		Paradigm: op.Paradigm,
		Kind:     op.Kind,
		Error:    &info,
	}
}
