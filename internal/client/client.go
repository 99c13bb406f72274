package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 256
)

// Client is one WebSocket subscriber, bound to the user that authenticated it
type Client struct {
	ID               string
	UserID           string
	conn             *websocket.Conn
	Send             chan models.ServerMessage // Exported for hub access; closed only through Close
	sendMu           sync.Mutex
	closed           bool
	hub              Hub
	logger           *log.Logger
	filter           models.SubscriptionFilter
	filterMu         sync.RWMutex
	connectedAt      time.Time
	messagesSent     int64
	messagesReceived int64
	lastMessageAt    time.Time
	mu               sync.Mutex
}

// Hub defines what a client needs from the subscription hub
type Hub interface {
	Unregister(client *Client)
	// Refresh asks for current snapshots of the given collections
	Refresh(client *Client, collections []string)
}

// NewClient creates a new client instance
func NewClient(id, userID string, conn *websocket.Conn, hub Hub, logger *log.Logger) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		conn:        conn,
		Send:        make(chan models.ServerMessage, sendBufferSize),
		hub:         hub,
		logger:      logger,
		connectedAt: time.Now(),
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			var msg models.ClientMessage
			if err := c.conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.logger.Warn("Unexpected close", "client_id", c.ID, "error", err)
				}
				return
			}

			c.updateReceived()
			c.HandleMessage(msg)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Warn("Write failed", "client_id", c.ID, "error", err)
				return
			}

			c.updateSent()

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// TrySend sends a message to the client (non-blocking)
// Returns true if sent, false if buffer is full or the client is closed
func (c *Client) TrySend(msg models.ServerMessage) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Close closes the Send channel once; later sends are dropped
func (c *Client) Close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// SetFilter replaces the client's subscription filter
func (c *Client) SetFilter(filter models.SubscriptionFilter) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.filter = filter
}

// GetFilter returns the client's current filter
func (c *Client) GetFilter() models.SubscriptionFilter {
	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return models.SubscriptionFilter{Collections: append([]string(nil), c.filter.Collections...)}
}

// Subscribe adds collections to the filter and returns the ones that were newly added
func (c *Client) Subscribe(collections []string) []string {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()

	var added []string
	for _, name := range collections {
		if !models.IsCollection(name) || c.filter.Matches(name) {
			continue
		}
		c.filter.Collections = append(c.filter.Collections, name)
		added = append(added, name)
	}
	return added
}

// Unsubscribe removes collections from the filter; no collections clears it
func (c *Client) Unsubscribe(collections []string) {
	c.filterMu.Lock()
	defer c.filterMu.Unlock()

	if len(collections) == 0 {
		c.filter = models.SubscriptionFilter{}
		return
	}

	kept := c.filter.Collections[:0]
	for _, name := range c.filter.Collections {
		if !contains(collections, name) {
			kept = append(kept, name)
		}
	}
	c.filter.Collections = kept
}

// MatchesFilter reports whether a change event should reach this client
func (c *Client) MatchesFilter(event models.ChangeEvent) bool {
	if event.UserID != c.UserID {
		return false
	}

	c.filterMu.RLock()
	defer c.filterMu.RUnlock()
	return c.filter.Matches(event.Collection)
}

// GetStats returns connection statistics
func (c *Client) GetStats() models.ConnectionStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	bufferUtilization := float64(len(c.Send)) / float64(sendBufferSize) * 100.0

	return models.ConnectionStats{
		ClientID:          c.ID,
		UserID:            c.UserID,
		ConnectedAt:       c.connectedAt,
		MessagesSent:      c.messagesSent,
		MessagesReceived:  c.messagesReceived,
		LastMessageAt:     c.lastMessageAt,
		BufferSize:        sendBufferSize,
		BufferUtilization: bufferUtilization,
	}
}

// HandleMessage processes one message from the peer
func (c *Client) HandleMessage(msg models.ClientMessage) {
	switch msg.Type {
	case models.MessageTypeSubscribe:
		c.handleSubscribe(msg.Payload)
	case models.MessageTypeUnsubscribe:
		c.handleUnsubscribe(msg.Payload)
	case models.MessageTypeHeartbeat:
		c.sendHeartbeat()
	default:
		c.sendError("unknown_message_type", fmt.Sprintf("unknown message type: %s", msg.Type))
	}
}

func parseFilter(payload map[string]interface{}) (models.SubscriptionFilter, error) {
	var filter models.SubscriptionFilter
	if payload == nil {
		return filter, nil
	}
	filterJSON, err := json.Marshal(payload)
	if err != nil {
		return filter, err
	}
	err = json.Unmarshal(filterJSON, &filter)
	return filter, err
}

// handleSubscribe adds collections and asks the hub for their current snapshots
func (c *Client) handleSubscribe(payload map[string]interface{}) {
	filter, err := parseFilter(payload)
	if err != nil {
		c.sendError("invalid_filter", "failed to parse filter")
		return
	}

	for _, name := range filter.Collections {
		if !models.IsCollection(name) {
			c.sendError("unknown_collection", fmt.Sprintf("unknown collection: %s", name))
			return
		}
	}

	added := c.Subscribe(filter.Collections)
	c.logger.Debug("Client subscribed", "client_id", c.ID, "collections", filter.Collections)

	if len(added) > 0 {
		c.hub.Refresh(c, added)
	}
}

func (c *Client) handleUnsubscribe(payload map[string]interface{}) {
	filter, err := parseFilter(payload)
	if err != nil {
		c.sendError("invalid_filter", "failed to parse filter")
		return
	}
	c.Unsubscribe(filter.Collections)
	c.logger.Debug("Client unsubscribed", "client_id", c.ID, "collections", filter.Collections)
}

// sendHeartbeat sends a heartbeat response
func (c *Client) sendHeartbeat() {
	stats := c.GetStats()
	c.TrySend(models.ServerMessage{
		Type:      models.MessageTypeHeartbeat,
		Payload:   stats,
		Timestamp: time.Now(),
	})
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	c.TrySend(models.ServerMessage{
		Type: models.MessageTypeError,
		Payload: models.ErrorMessage{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now(),
	})
}

// updateSent increments the sent message counter
func (c *Client) updateSent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesSent++
	c.lastMessageAt = time.Now()
}

// updateReceived increments the received message counter
func (c *Client) updateReceived() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesReceived++
	c.lastMessageAt = time.Now()
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
