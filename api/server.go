// Package api - Thin, deterministic API layer
// The API is ONLY responsible for: input ingestion, engine orchestration,
// and output serialization. It NEVER performs pricing logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ratecard/core/calc"
	"ratecard/internal/errors"
	"ratecard/internal/logging"
)

// Server is the API server
type Server struct {
	mux     *http.ServeMux
	version string
}

// NewServer creates a new API server
func NewServer(version string) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		version: version,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /calculate", s.handleCalculate)
	s.mux.HandleFunc("POST /validate", s.handleValidate)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleCalculate handles POST /calculate
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	if err := calc.CheckCard(&req.Card); err != nil {
		s.writeDomainError(w, err)
		return
	}

	result, err := calc.Calculate(&req.Card, req.Quantity, calc.Options{
		BaseCostOverride: req.BaseCostOverride,
		BillingPeriod:    req.BillingPeriod,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	logging.Info("calculated price",
		zap.String("card", req.Card.Name),
		zap.String("model", req.Card.Model.String()),
		zap.String("total", result.TotalPrice.String()),
		zap.Duration("duration", time.Since(start)))

	s.writeJSON(w, http.StatusOK, CalculateResponse{
		Result:     result,
		DurationMS: time.Since(start).Milliseconds(),
	})
}

// handleValidate handles POST /validate
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	s.writeJSON(w, http.StatusOK, ValidateResponse{
		Valid: calc.ValidateParams(req.Model, req.Parameters),
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.version})
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// writeDomainError maps a domain error to an HTTP error response
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	if e, ok := err.(*errors.Error); ok {
		status := http.StatusBadRequest
		if e.Type == errors.TypeInternal {
			status = http.StatusInternalServerError
		}
		s.writeError(w, string(e.Type), e.Message, status)
		return
	}
	s.writeError(w, string(errors.TypeInternal), err.Error(), http.StatusInternalServerError)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("failed to encode response", zap.Error(err))
	}
}
