package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/csvimport"
	"github.com/PraneetTulluri/Stats-Tracker/internal/export"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/go-chi/chi/v5"
)

const (
	// maxImportBytes caps an uploaded spreadsheet
	maxImportBytes = 10 << 20

	// importTimeout bounds reading the upload and loading the roster
	importTimeout = 30 * time.Second
)

// ImportGames applies an uploaded CSV as one batch
// POST /api/v1/imports?player_id={id}
func (h *Handler) ImportGames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), importTimeout)
	defer cancel()

	body, err := uploadedFile(w, r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	defer body.Close()

	rows, err := csvimport.Parse(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read csv: "+err.Error(), nil)
		return
	}

	summary, err := h.engine.ImportBatch(ctx, userID(r), rows, r.URL.Query().Get("player_id"))
	if err != nil {
		if summary != nil {
			// aborted part way: report what was committed
			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error":   http.StatusText(http.StatusInternalServerError),
				"message": err.Error(),
				"code":    http.StatusInternalServerError,
				"summary": summary,
			})
			return
		}
		respondEngineError(w, err, "failed to import games")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// uploadedFile returns the multipart "file" field, or the raw body for text/csv uploads
func uploadedFile(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.Body, nil
	}

	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		return nil, errors.New("invalid multipart upload")
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, errors.New("file is required")
	}
	return file, nil
}

// DownloadTemplate returns an import template seeded from the roster
// GET /api/v1/imports/template
func (h *Handler) DownloadTemplate(w http.ResponseWriter, r *http.Request) {
	h.rosterSheet(w, r, csvimport.TemplateFilename, csvimport.Template)
}

// DownloadSample returns five sample games per roster player
// GET /api/v1/imports/sample
func (h *Handler) DownloadSample(w http.ResponseWriter, r *http.Request) {
	h.rosterSheet(w, r, csvimport.SampleFilename, csvimport.Sample)
}

func (h *Handler) rosterSheet(w http.ResponseWriter, r *http.Request, filename string, render func([]models.Player, time.Time) ([]byte, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	players, err := h.engine.Players(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve players")
		return
	}

	data, err := render(players, h.now())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	respondCSV(w, filename, data)
}

// ExportPlayers returns every player's totals and rates
// GET /api/v1/exports/players.csv
func (h *Handler) ExportPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	players, err := h.engine.Players(ctx, userID(r))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve players")
		return
	}

	data, err := export.AllPlayers(players)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	respondCSV(w, export.AllPlayersFilename, data)
}

// ExportGames returns the full game log
// GET /api/v1/exports/games.csv
func (h *Handler) ExportGames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid := userID(r)
	players, err := h.engine.Players(ctx, uid)
	if err != nil {
		respondEngineError(w, err, "failed to retrieve players")
		return
	}
	games, err := h.engine.Games(ctx, uid, models.GameFilters{})
	if err != nil {
		respondEngineError(w, err, "failed to retrieve games")
		return
	}

	data, err := export.AllGames(players, games)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	respondCSV(w, export.AllGamesFilename, data)
}

// ExportPlayerStats returns one player's stat sheet
// GET /api/v1/exports/players/{id}/stats.csv
func (h *Handler) ExportPlayerStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	player, err := h.engine.Player(ctx, userID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve player")
		return
	}

	data, err := export.PlayerStats(player)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	respondCSV(w, export.PlayerStatsFilename(player), data)
}

// ExportPlayerGames returns one player's game log, oldest first
// GET /api/v1/exports/players/{id}/games.csv
func (h *Handler) ExportPlayerGames(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid := userID(r)
	player, err := h.engine.Player(ctx, uid, chi.URLParam(r, "id"))
	if err != nil {
		respondEngineError(w, err, "failed to retrieve player")
		return
	}

	games, err := h.engine.Games(ctx, uid, models.GameFilters{PlayerID: player.ID})
	if err != nil {
		respondEngineError(w, err, "failed to retrieve games")
		return
	}
	if len(games) == 0 {
		respondError(w, http.StatusNotFound, "No games found for this player", nil)
		return
	}

	data, err := export.PlayerGameLog(player, games)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render csv", err)
		return
	}

	respondCSV(w, export.PlayerGameLogFilename(player), data)
}
