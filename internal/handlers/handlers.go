package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/auth"
	"github.com/PraneetTulluri/Stats-Tracker/internal/engine"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
)

// requestTimeout bounds every store-backed request
const requestTimeout = 5 * time.Second

// Pinger reports whether the record store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the REST API over one engine
type Handler struct {
	engine *engine.Engine
	store  Pinger
	now    func() time.Time
}

// NewHandler creates a new handler instance
func NewHandler(eng *engine.Engine, store Pinger) *Handler {
	return &Handler{
		engine: eng,
		store:  store,
		now:    time.Now,
	}
}

// SetClock replaces the time source used to date templates and samples
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "stats-tracker",
		"timestamp": time.Now().UTC(),
	})
}

func userID(r *http.Request) string {
	return auth.UserIDFromContext(r.Context())
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// respondEngineError maps engine errors onto HTTP statuses
func respondEngineError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case engine.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case engine.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, fallback, err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Error encoding response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := models.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		log.Error(message, "error", err)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		log.Error("Error encoding error response", "error", err)
	}
}

func respondCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Error("Error writing csv response", "file", filename, "error", err)
	}
}
