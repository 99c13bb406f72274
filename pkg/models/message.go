package models

import "time"

// Message types for WebSocket communication
const (
	MessageTypeSnapshot    = "snapshot"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// Collections a client can subscribe to
const (
	CollectionPlayers = "players"
	CollectionGames   = "games"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type       string      `json:"type"`
	Collection string      `json:"collection,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// SubscriptionFilter lists the collections a client wants snapshots of
type SubscriptionFilter struct {
	Collections []string `json:"collections,omitempty"`
}

// Matches reports whether collection is subscribed. An empty filter matches nothing.
func (f SubscriptionFilter) Matches(collection string) bool {
	for _, c := range f.Collections {
		if c == collection {
			return true
		}
	}
	return false
}

// IsCollection reports whether name is a subscribable collection
func IsCollection(name string) bool {
	return name == CollectionPlayers || name == CollectionGames
}

// ChangeEvent announces that a user's collection changed
type ChangeEvent struct {
	UserID     string    `json:"user_id"`
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"` // record_game, import_batch, undo_game, ...
	OccurredAt time.Time `json:"occurred_at"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID          string    `json:"client_id"`
	UserID            string    `json:"user_id"`
	ConnectedAt       time.Time `json:"connected_at"`
	MessagesSent      int64     `json:"messages_sent"`
	MessagesReceived  int64     `json:"messages_received"`
	LastMessageAt     time.Time `json:"last_message_at"`
	BufferSize        int       `json:"buffer_size"`
	BufferUtilization float64   `json:"buffer_utilization"` // Percentage
}

// ErrorMessage represents an error pushed over the socket
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of a failed HTTP request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
