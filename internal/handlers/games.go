package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/statmath"
	"github.com/go-chi/chi/v5"
)

// gameEntryRequest is the body of POST /api/v1/games.
// Counters may be numbers, numeric strings, empty strings or null.
type gameEntryRequest struct {
	PlayerID string                     `json:"player_id"`
	Date     string                     `json:"date"`
	Opponent string                     `json:"opponent"`
	NumGames int                        `json:"num_games"`
	Stats    map[string]json.RawMessage `json:"stats"`
}

// gameEditRequest is the body of PUT /api/v1/games/{id}
type gameEditRequest struct {
	Date     string                     `json:"date"`
	Opponent string                     `json:"opponent"`
	Stats    map[string]json.RawMessage `json:"stats"`
}

func decodeStats(raw map[string]json.RawMessage) (models.StatVector, error) {
	stats, err := statmath.DecodeVector(raw)
	if err != nil {
		return models.StatVector{}, fmt.Errorf("invalid stats: %w", err)
	}
	return stats, nil
}

// ListGames returns the game log, newest first
// GET /api/v1/games?player_id={id}&batch_id={id}
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	filters := models.GameFilters{
		PlayerID: r.URL.Query().Get("player_id"),
		BatchID:  r.URL.Query().Get("batch_id"),
	}

	games, err := h.engine.GameLog(ctx, userID(r), filters)
	if err != nil {
		respondEngineError(w, err, "failed to retrieve games")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": games,
		"count": len(games),
	})
}

// RecordGame logs a manual game entry
// POST /api/v1/games
func (h *Handler) RecordGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req gameEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	stats, err := decodeStats(req.Stats)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	entry := models.GameEntry{
		PlayerID: req.PlayerID,
		Date:     req.Date,
		Opponent: req.Opponent,
		NumGames: req.NumGames,
		Stats:    stats,
	}

	game, err := h.engine.RecordGame(ctx, userID(r), entry)
	if err != nil {
		respondEngineError(w, err, "failed to record game")
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// EditGame replaces a game's fields and stats and corrects the player's totals
// PUT /api/v1/games/{id}
func (h *Handler) EditGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var req gameEditRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	stats, err := decodeStats(req.Stats)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	edit := models.GameEdit{Date: req.Date, Opponent: req.Opponent, Stats: stats}

	result, err := h.engine.EditGame(ctx, userID(r), chi.URLParam(r, "id"), edit)
	if err != nil {
		respondEngineError(w, err, "failed to edit game")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UndoGame removes one manual game and subtracts it from the player's totals
// DELETE /api/v1/games/{id}
func (h *Handler) UndoGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.engine.UndoGame(ctx, userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err, "failed to undo game")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLastManualGame returns the newest hand-entered game
// GET /api/v1/games/last-manual
func (h *Handler) GetLastManualGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	game, err := h.engine.LastManualGame(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve last entry")
		return
	}

	respondJSON(w, http.StatusOK, game)
}

// UndoLastManualGame undoes the newest hand-entered game
// DELETE /api/v1/games/last-manual
func (h *Handler) UndoLastManualGame(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.engine.UndoLastManualEntry(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to undo last entry")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetLastBatch returns the most recent import batch
// GET /api/v1/batches/last
func (h *Handler) GetLastBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	batch, err := h.engine.LastBatch(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve last batch")
		return
	}

	respondJSON(w, http.StatusOK, batch)
}

// UndoLastBatch undoes the most recent import batch
// DELETE /api/v1/batches/last
func (h *Handler) UndoLastBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.engine.UndoLastBatch(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to undo last batch")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UndoBatch undoes every game of one import batch
// DELETE /api/v1/batches/{batchID}
func (h *Handler) UndoBatch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.engine.UndoBatch(ctx, userID(r), chi.URLParam(r, "batchID"))
	if err != nil {
		respondEngineError(w, err, "failed to undo batch")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
