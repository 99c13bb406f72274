package handlers

import (
	"net/http"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/auth"
	"github.com/PraneetTulluri/Stats-Tracker/internal/middleware"
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig collects what the HTTP surface needs
type RouterConfig struct {
	API         *Handler
	Stream      *StreamHandler
	Verifier    *auth.Verifier
	CORSOrigins []string
	Logger      *log.Logger
}

// NewRouter builds the chi router for every HTTP and WebSocket route
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", cfg.API.HealthCheck)
	r.Get("/metrics", cfg.Stream.HandleMetrics)
	r.With(cfg.Verifier.Middleware).Get("/ws", cfg.Stream.HandleWebSocket)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(30 * time.Second))
		r.Use(cfg.Verifier.Middleware)

		// Players
		r.Get("/players", cfg.API.ListPlayers)
		r.Post("/players", cfg.API.CreatePlayer)
		r.Get("/players/{id}", cfg.API.GetPlayer)
		r.Delete("/players/{id}", cfg.API.DeletePlayer)
		r.Get("/players/{id}/trends", cfg.API.GetTrends)
		r.Get("/players/{id}/compare/{otherID}", cfg.API.ComparePlayers)

		// Games
		r.Get("/games", cfg.API.ListGames)
		r.Post("/games", cfg.API.RecordGame)
		r.Get("/games/last-manual", cfg.API.GetLastManualGame)
		r.Delete("/games/last-manual", cfg.API.UndoLastManualGame)
		r.Put("/games/{id}", cfg.API.EditGame)
		r.Delete("/games/{id}", cfg.API.UndoGame)

		// Import batches
		r.Get("/batches/last", cfg.API.GetLastBatch)
		r.Delete("/batches/last", cfg.API.UndoLastBatch)
		r.Delete("/batches/{batchID}", cfg.API.UndoBatch)

		// Spreadsheets
		r.Post("/imports", cfg.API.ImportGames)
		r.Get("/imports/template", cfg.API.DownloadTemplate)
		r.Get("/imports/sample", cfg.API.DownloadSample)
		r.Get("/exports/players.csv", cfg.API.ExportPlayers)
		r.Get("/exports/games.csv", cfg.API.ExportGames)
		r.Get("/exports/players/{id}/stats.csv", cfg.API.ExportPlayerStats)
		r.Get("/exports/players/{id}/games.csv", cfg.API.ExportPlayerGames)
	})

	return r
}
