package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/minio/minio-go/v7"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/logger"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// maxErrorMessageLen bounds the error text exposed to callers. Full detail
// goes to the log, never across the boundary.
const maxErrorMessageLen = 240

// Normalizer translates adapter and backend-native errors into the closed
// error taxonomy. One mapping table exists per paradigm; anything no table
// recognizes becomes Internal.
type Normalizer struct {
	log *logger.Logger
}

// NewNormalizer creates a normalizer that logs unmapped errors at full detail.
func NewNormalizer(log *logger.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize wraps an operation outcome into an envelope. A nil error yields a
// success envelope carrying data; a non-nil error yields a failure envelope
// and data is discarded.
func (n *Normalizer) Normalize(op adapter.Operation, data interface{}, err error) Envelope {
	if err == nil {
		return Success(op, data)
	}
	return Failure(op, n.Classify(op.Paradigm, err))
}

// Classify maps an error onto the taxonomy. Resolution order: context and
// deadline conditions, adapter sentinels, the paradigm's native table,
// transport-level failures, then the Internal fallback.
func (n *Normalizer) Classify(p paradigm.Paradigm, err error) ErrorInfo {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorInfo{Category: CategoryTimeout, Message: "operation exceeded its deadline", Retryable: true}
	}
	if errors.Is(err, context.Canceled) {
		return ErrorInfo{Category: CategoryTimeout, Message: "operation canceled before completion", Retryable: false}
	}

	if info, ok := classifySentinel(err); ok {
		return info
	}

	if table, ok := nativeTables[p]; ok {
		if info, ok := table(err); ok {
			return info
		}
	}

	if info, ok := classifyTransport(err); ok {
		return info
	}

	if n.log != nil {
		n.log.WithFields(map[string]string{"paradigm": string(p)}).Error(fmt.Sprintf("unmapped backend error: %v", err))
	}
	return ErrorInfo{
		Category:  CategoryInternal,
		Message:   sanitize(err.Error()),
		Retryable: false,
	}
}

func classifySentinel(err error) (ErrorInfo, bool) {
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return ErrorInfo{Category: CategoryNotFound, Message: sanitize(err.Error()), Retryable: false}, true
	case errors.Is(err, adapter.ErrInvalidInput),
		errors.Is(err, adapter.ErrOperationNotSupported):
		return ErrorInfo{Category: CategoryInvalidInput, Message: sanitize(err.Error()), Retryable: false}, true
	case errors.Is(err, adapter.ErrConflict):
		return ErrorInfo{Category: CategoryConflict, Message: sanitize(err.Error()), Retryable: false}, true
	case errors.Is(err, adapter.ErrNotConfigured):
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(err.Error()), Retryable: false}, true
	case errors.Is(err, adapter.ErrConnectionFailed),
		errors.Is(err, adapter.ErrConnectionClosed),
		errors.Is(err, adapter.ErrAdapterNotFound):
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(err.Error()), Retryable: true}, true
	}
	return ErrorInfo{}, false
}

// nativeTables holds the per-paradigm translations for backend-native error
// signals that reach the boundary unwrapped.
var nativeTables = map[paradigm.Paradigm]func(error) (ErrorInfo, bool){
	paradigm.Object:   classifyObjectError,
	paradigm.Vector:   classifyVectorError,
	paradigm.Graph:    classifyGraphError,
	paradigm.Columnar: classifyColumnarError,
}

func classifyObjectError(err error) (ErrorInfo, bool) {
	// Adapters wrap driver errors, so the response is dug out of the chain
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) || resp.Code == "" {
		return ErrorInfo{}, false
	}
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "NoSuchUpload", "NotFound":
		return ErrorInfo{Category: CategoryNotFound, Message: sanitize(resp.Message), Retryable: false}, true
	case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
		return ErrorInfo{Category: CategoryConflict, Message: sanitize(resp.Message), Retryable: false}, true
	case "InvalidObjectName", "XMinioInvalidObjectName", "InvalidBucketName", "EntityTooLarge":
		return ErrorInfo{Category: CategoryInvalidInput, Message: sanitize(resp.Message), Retryable: false}, true
	case "SlowDown", "ServiceUnavailable", "InternalError":
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(resp.Message), Retryable: true}, true
	case "RequestTimeout":
		return ErrorInfo{Category: CategoryTimeout, Message: sanitize(resp.Message), Retryable: true}, true
	}
	// Credential and policy failures are deployment problems, not caller
	// problems; surface them opaquely.
	return ErrorInfo{Category: CategoryInternal, Message: "object store rejected the request", Retryable: false}, true
}

func classifyVectorError(err error) (ErrorInfo, bool) {
	// The vector adapter wraps its REST and embedding failures into adapter
	// sentinels before they reach here; this table catches the ones raised
	// mid-request by the HTTP client itself.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "status 404"):
		return ErrorInfo{Category: CategoryNotFound, Message: sanitize(msg), Retryable: false}, true
	case strings.Contains(msg, "status 400"), strings.Contains(msg, "status 422"):
		return ErrorInfo{Category: CategoryInvalidInput, Message: sanitize(msg), Retryable: false}, true
	case strings.Contains(msg, "status 409"):
		return ErrorInfo{Category: CategoryConflict, Message: sanitize(msg), Retryable: false}, true
	case strings.Contains(msg, "status 503"), strings.Contains(msg, "status 502"):
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(msg), Retryable: true}, true
	}
	return ErrorInfo{}, false
}

func classifyGraphError(err error) (ErrorInfo, bool) {
	var serverErr *db.Neo4jError
	if errors.As(err, &serverErr) {
		switch {
		case strings.HasPrefix(serverErr.Code, "Neo.ClientError.Schema.ConstraintValidationFailed"):
			return ErrorInfo{Category: CategoryConflict, Message: sanitize(serverErr.Msg), Retryable: false}, true
		case strings.HasPrefix(serverErr.Code, "Neo.ClientError.Statement"),
			strings.HasPrefix(serverErr.Code, "Neo.ClientError"):
			return ErrorInfo{Category: CategoryInvalidInput, Message: sanitize(serverErr.Msg), Retryable: false}, true
		case strings.HasPrefix(serverErr.Code, "Neo.TransientError"):
			return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(serverErr.Msg), Retryable: true}, true
		}
		return ErrorInfo{Category: CategoryInternal, Message: sanitize(serverErr.Msg), Retryable: false}, true
	}
	if neo4j.IsConnectivityError(err) {
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(err.Error()), Retryable: true}, true
	}
	return ErrorInfo{}, false
}

func classifyColumnarError(err error) (ErrorInfo, bool) {
	var ex *clickhouse.Exception
	if !errors.As(err, &ex) {
		return ErrorInfo{}, false
	}
	switch ex.Code {
	case 60, 81: // UNKNOWN_TABLE, UNKNOWN_DATABASE
		return ErrorInfo{Category: CategoryNotFound, Message: sanitize(ex.Message), Retryable: false}, true
	case 6, 47, 53, 62: // CANNOT_PARSE_TEXT, UNKNOWN_IDENTIFIER, TYPE_MISMATCH, SYNTAX_ERROR
		return ErrorInfo{Category: CategoryInvalidInput, Message: sanitize(ex.Message), Retryable: false}, true
	case 57, 82: // TABLE_ALREADY_EXISTS, DATABASE_ALREADY_EXISTS
		return ErrorInfo{Category: CategoryConflict, Message: sanitize(ex.Message), Retryable: false}, true
	case 159, 209: // TIMEOUT_EXCEEDED, SOCKET_TIMEOUT
		return ErrorInfo{Category: CategoryTimeout, Message: sanitize(ex.Message), Retryable: true}, true
	case 202, 203: // TOO_MANY_SIMULTANEOUS_QUERIES, NO_FREE_CONNECTION
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: sanitize(ex.Message), Retryable: true}, true
	}
	return ErrorInfo{Category: CategoryInternal, Message: sanitize(ex.Message), Retryable: false}, true
}

func classifyTransport(err error) (ErrorInfo, bool) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorInfo{Category: CategoryTimeout, Message: "backend did not respond in time", Retryable: true}, true
	}
	if errors.As(err, &netErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return ErrorInfo{Category: CategoryBackendUnavailable, Message: "backend is unreachable", Retryable: true}, true
	}
	return ErrorInfo{}, false
}

// sanitize flattens and bounds a backend error message before it crosses the
// boundary.
func sanitize(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")
	if len(msg) > maxErrorMessageLen {
		cut := maxErrorMessageLen
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}
