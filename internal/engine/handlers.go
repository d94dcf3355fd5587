package engine

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/polystoreio/polystore/internal/gateway"
	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

// statusForCategory maps the error taxonomy onto HTTP status codes. The body
// is always the envelope; the status is a convenience for HTTP callers.
var statusForCategory = map[gateway.Category]int{
	gateway.CategoryNotFound:           http.StatusNotFound,
	gateway.CategoryInvalidInput:       http.StatusBadRequest,
	gateway.CategoryBackendUnavailable: http.StatusServiceUnavailable,
	gateway.CategoryTimeout:            http.StatusGatewayTimeout,
	gateway.CategoryConflict:           http.StatusConflict,
	gateway.CategoryInternal:           http.StatusInternalServerError,
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	var op adapter.Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		env := gateway.Failure(op, gateway.ErrorInfo{
			Category:  gateway.CategoryInvalidInput,
			Message:   fmt.Sprintf("malformed request body: %v", err),
			Retryable: false,
		})
		writeEnvelope(w, env)
		return
	}

	// Accept paradigm aliases on the wire
	if p, ok := paradigm.Parse(string(op.Paradigm)); ok {
		op.Paradigm = p
	}

	env := s.gw.Route(r.Context(), op)
	writeEnvelope(w, env)
}

func writeEnvelope(w http.ResponseWriter, env gateway.Envelope) {
	status := http.StatusOK
	if !env.OK {
		if mapped, ok := statusForCategory[env.Error.Category]; ok {
			status = mapped
		} else {
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, env)
}

func (s *Server) handleHealthAll(w http.ResponseWriter, r *http.Request) {
	records := s.supervisor.HealthAll(r.Context())

	for _, rec := range records {
		rec := rec
		s.checker.RunCheck(string(rec.Paradigm), func() error {
			if rec.LastError != "" {
				return fmt.Errorf("%s", rec.LastError)
			}
			return nil
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   s.checker.GetOverallStatus(),
		"backends": records,
	})
}

func (s *Server) handleHealthOne(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["paradigm"]
	p, ok := paradigm.Parse(name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": fmt.Sprintf("unknown paradigm '%s'", name),
		})
		return
	}

	writeJSON(w, http.StatusOK, s.supervisor.HealthCheck(r.Context(), p))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"operations": s.tracker.Summaries(),
	})
}

func (s *Server) handleMetricsReset(w http.ResponseWriter, r *http.Request) {
	s.tracker.Reset()
	writeJSON(w, http.StatusOK, map[string]interface{}{"reset": true})
}

func (s *Server) handleEcommerce(w http.ResponseWriter, r *http.Request) {
	report := s.ecommerce.Run(r.Context())
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
