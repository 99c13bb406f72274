package hub

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/client"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/contracts"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
)

// ErrBroadcastFull is returned by Publish when the change buffer is full
var ErrBroadcastFull = errors.New("broadcast buffer full")

// snapshotTimeout bounds one snapshot read
const snapshotTimeout = 5 * time.Second

type refreshRequest struct {
	client      *client.Client
	collections []string
}

// Hub maintains the set of active clients and pushes collection snapshots to them
type Hub struct {
	// Registered clients
	clients   map[*client.Client]bool
	clientsMu sync.RWMutex

	// Change events from the engine or the stream consumer
	broadcast chan models.ChangeEvent

	// Snapshot requests from newly subscribed clients
	refresh chan refreshRequest

	// Register requests from clients
	register chan *client.Client

	// Unregister requests from clients
	unregister chan *client.Client

	// Closed when Run returns
	done chan struct{}

	source contracts.SnapshotSource
	logger *log.Logger

	// Metrics
	totalConnections int64
	totalMessages    int64
	metricsMu        sync.Mutex
}

// NewHub creates a new Hub that reads snapshots from source
func NewHub(source contracts.SnapshotSource, logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*client.Client]bool),
		broadcast:  make(chan models.ChangeEvent, 1000),
		refresh:    make(chan refreshRequest, 256),
		register:   make(chan *client.Client),
		unregister: make(chan *client.Client),
		done:       make(chan struct{}),
		source:     source,
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("Hub started")

	// Start metrics reporter
	go h.reportMetrics(ctx)

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			close(h.done)
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case req := <-h.refresh:
			h.sendSnapshots(ctx, req)

		case event := <-h.broadcast:
			h.broadcastChange(ctx, event)
		}
	}
}

// Register adds a client to the hub. A client registered after shutdown is closed at once.
func (h *Hub) Register(c *client.Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.Close()
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(c *client.Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Refresh queues current snapshots of collections for one client
func (h *Hub) Refresh(c *client.Client, collections []string) {
	select {
	case h.refresh <- refreshRequest{client: c, collections: collections}:
	default:
		h.logger.Warn("Refresh queue full, dropping request", "client_id", c.ID)
	}
}

// Broadcast queues a change event for subscribed clients
func (h *Hub) Broadcast(event models.ChangeEvent) bool {
	select {
	case h.broadcast <- event:
		return true
	default:
		// Broadcast buffer full - drop message
		h.logger.Warn("Broadcast buffer full, dropping change", "user_id", event.UserID, "collection", event.Collection)
		return false
	}
}

// Publish implements contracts.ChangePublisher for in-process delivery
func (h *Hub) Publish(ctx context.Context, event models.ChangeEvent) error {
	if !h.Broadcast(event) {
		return ErrBroadcastFull
	}
	return nil
}

// registerClient adds a client to the active clients map
func (h *Hub) registerClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.clients[c] = true
	h.incrementTotalConnections()

	h.logger.Info("Client connected", "client_id", c.ID, "user_id", c.UserID, "total", len(h.clients))
}

// unregisterClient removes a client from the active clients map
func (h *Hub) unregisterClient(c *client.Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
		h.logger.Info("Client disconnected", "client_id", c.ID, "total", len(h.clients))
	}
}

func (h *Hub) isRegistered(c *client.Client) bool {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return h.clients[c]
}

func (h *Hub) snapshot(ctx context.Context, userID, collection string) (models.ServerMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	payload, err := h.source.Snapshot(ctx, userID, collection)
	if err != nil {
		return models.ServerMessage{}, err
	}
	return models.ServerMessage{
		Type:       models.MessageTypeSnapshot,
		Collection: collection,
		Payload:    payload,
		Timestamp:  time.Now(),
	}, nil
}

// sendSnapshots answers a client's subscription with the current state
func (h *Hub) sendSnapshots(ctx context.Context, req refreshRequest) {
	if !h.isRegistered(req.client) {
		return
	}

	for _, collection := range req.collections {
		message, err := h.snapshot(ctx, req.client.UserID, collection)
		if err != nil {
			h.logger.Error("Snapshot failed", "user_id", req.client.UserID, "collection", collection, "error", err)
			continue
		}
		h.deliver(req.client, message)
	}
}

// broadcastChange sends one fresh snapshot to every client subscribed to the changed collection
func (h *Hub) broadcastChange(ctx context.Context, event models.ChangeEvent) {
	h.clientsMu.RLock()
	clients := make([]*client.Client, 0, len(h.clients))
	for c := range h.clients {
		if c.MatchesFilter(event) {
			clients = append(clients, c)
		}
	}
	h.clientsMu.RUnlock()

	if len(clients) == 0 {
		return
	}

	message, err := h.snapshot(ctx, event.UserID, event.Collection)
	if err != nil {
		h.logger.Error("Snapshot failed", "user_id", event.UserID, "collection", event.Collection, "error", err)
		return
	}

	sent := 0
	for _, c := range clients {
		if h.deliver(c, message) {
			sent++
		}
	}

	if sent > 0 {
		h.incrementTotalMessages()
	}
}

// deliver sends without blocking; a client whose buffer is full is disconnected
func (h *Hub) deliver(c *client.Client, message models.ServerMessage) bool {
	if c.TrySend(message) {
		return true
	}
	h.logger.Warn("Client buffer full, disconnecting", "client_id", c.ID)
	go h.Unregister(c)
	return false
}

// GetMetrics returns hub metrics
func (h *Hub) GetMetrics() map[string]interface{} {
	h.clientsMu.RLock()
	activeClients := len(h.clients)
	h.clientsMu.RUnlock()

	h.metricsMu.Lock()
	totalConnections := h.totalConnections
	totalMessages := h.totalMessages
	h.metricsMu.Unlock()

	return map[string]interface{}{
		"active_clients":     activeClients,
		"total_connections":  totalConnections,
		"total_messages":     totalMessages,
		"broadcast_capacity": cap(h.broadcast),
		"broadcast_usage":    len(h.broadcast),
	}
}

// GetClientCount returns the number of active clients
func (h *Hub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	h.logger.Info("Shutting down hub", "active_clients", len(h.clients))

	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

// reportMetrics periodically reports hub metrics
func (h *Hub) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := h.GetMetrics()
			h.logger.Info("Hub metrics",
				"clients", metrics["active_clients"],
				"total_connections", metrics["total_connections"],
				"messages", metrics["total_messages"])
		}
	}
}

// incrementTotalConnections safely increments the total connections counter
func (h *Hub) incrementTotalConnections() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalConnections++
}

// incrementTotalMessages safely increments the total messages counter
func (h *Hub) incrementTotalMessages() {
	h.metricsMu.Lock()
	defer h.metricsMu.Unlock()
	h.totalMessages++
}
