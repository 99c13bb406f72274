package handlers

import (
	"context"
	"net/http"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/go-chi/chi/v5"
)

// ListPlayers returns the roster with derived metrics
// GET /api/v1/players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	players, err := h.engine.Roster(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve players")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"players": players,
		"count":   len(players),
	})
}

// CreatePlayer adds a player to the roster
// POST /api/v1/players
func (h *Handler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req models.NewPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	player, err := h.engine.AddPlayer(ctx, userID(r), req)
	if err != nil {
		respondEngineError(w, err, "failed to create player")
		return
	}

	respondJSON(w, http.StatusCreated, player)
}

// GetPlayer returns one player with derived metrics
// GET /api/v1/players/{id}
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	player, err := h.engine.PlayerStats(ctx, userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve player")
		return
	}

	respondJSON(w, http.StatusOK, player)
}

// DeletePlayer removes a player; its games stay and render as Unknown
// DELETE /api/v1/players/{id}
func (h *Handler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.engine.DeletePlayer(ctx, userID(r), chi.URLParam(r, "id")); err != nil {
		respondEngineError(w, err, "failed to delete player")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTrends returns chart series for one player
// GET /api/v1/players/{id}/trends
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trends, err := h.engine.Trends(ctx, userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err, "failed to compute trends")
		return
	}

	respondJSON(w, http.StatusOK, trends)
}

// ComparePlayers lines up two players' rate statistics
// GET /api/v1/players/{id}/compare/{otherID}
func (h *Handler) ComparePlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	points, err := h.engine.Compare(ctx, userID(r), chi.URLParam(r, "id"), chi.URLParam(r, "otherID"))
	if err != nil {
		respondEngineError(w, err, "failed to compare players")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comparison": points,
	})
}
