package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/PraneetTulluri/Stats-Tracker/internal/client"
	"github.com/PraneetTulluri/Stats-Tracker/internal/hub"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Sockets authenticate with a token, not cookies
		return true
	},
}

// StreamHandler serves live collection subscriptions
type StreamHandler struct {
	hub    *hub.Hub
	ctx    context.Context
	logger *log.Logger
}

// NewStreamHandler creates a new stream handler. ctx bounds the lifetime of every socket.
func NewStreamHandler(ctx context.Context, h *hub.Hub, logger *log.Logger) *StreamHandler {
	return &StreamHandler{
		hub:    h,
		ctx:    ctx,
		logger: logger,
	}
}

// HandleWebSocket upgrades an authenticated request and subscribes it to the
// collections named in the collections query parameter
// GET /ws?token={jwt}&collections=players,games
func (s *StreamHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade error", "error", err)
		return
	}

	clientID := uuid.New().String()
	c := client.NewClient(clientID, uid, conn, s.hub, s.logger)

	s.hub.Register(c)

	if added := c.Subscribe(parseCollections(r.URL.Query().Get("collections"))); len(added) > 0 {
		s.hub.Refresh(c, added)
	}

	// Start client pumps (use handler context, not request context)
	go c.WritePump(s.ctx)
	go c.ReadPump(s.ctx)

	s.logger.Info("WebSocket connection established", "client_id", clientID, "user_id", uid)
}

// HandleMetrics returns hub metrics
// GET /metrics
func (s *StreamHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := s.hub.GetMetrics()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics)
}

func parseCollections(raw string) []string {
	var out []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
