package client_test

import (
	"testing"

	"github.com/PraneetTulluri/Stats-Tracker/internal/client"
	"github.com/PraneetTulluri/Stats-Tracker/internal/testutil"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// MockHub implements the Hub interface for testing
type MockHub struct {
	unregisteredClients []*client.Client
	refreshed           [][]string
}

func (m *MockHub) Unregister(c *client.Client) {
	m.unregisteredClients = append(m.unregisteredClients, c)
}

func (m *MockHub) Refresh(c *client.Client, collections []string) {
	m.refreshed = append(m.refreshed, collections)
}

func newClient(hub client.Hub) *client.Client {
	return client.NewClient("c1", "user-1", nil, hub, testutil.DiscardLogger())
}

func TestClient_MatchesFilter(t *testing.T) {
	tests := []struct {
		name        string
		collections []string
		event       models.ChangeEvent
		expected    bool
	}{
		{
			name:     "empty filter matches nothing",
			event:    models.ChangeEvent{UserID: "user-1", Collection: models.CollectionPlayers},
			expected: false,
		},
		{
			name:        "subscribed collection matches",
			collections: []string{models.CollectionPlayers},
			event:       models.ChangeEvent{UserID: "user-1", Collection: models.CollectionPlayers},
			expected:    true,
		},
		{
			name:        "other collection doesn't match",
			collections: []string{models.CollectionPlayers},
			event:       models.ChangeEvent{UserID: "user-1", Collection: models.CollectionGames},
			expected:    false,
		},
		{
			name:        "other user's change doesn't match",
			collections: []string{models.CollectionPlayers, models.CollectionGames},
			event:       models.ChangeEvent{UserID: "user-2", Collection: models.CollectionGames},
			expected:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(&MockHub{})
			c.SetFilter(models.SubscriptionFilter{Collections: tt.collections})

			if got := c.MatchesFilter(tt.event); got != tt.expected {
				t.Errorf("MatchesFilter() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClient_SubscribeRequestsSnapshots(t *testing.T) {
	hub := &MockHub{}
	c := newClient(hub)

	c.HandleMessage(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"collections": []interface{}{"players"}},
	})
	c.HandleMessage(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"collections": []interface{}{"players", "games"}},
	})

	if len(hub.refreshed) != 2 {
		t.Fatalf("expected 2 refresh requests, got %d", len(hub.refreshed))
	}
	if len(hub.refreshed[1]) != 1 || hub.refreshed[1][0] != "games" {
		t.Errorf("expected only the new collection refreshed, got %v", hub.refreshed[1])
	}

	if got := c.GetFilter().Collections; len(got) != 2 {
		t.Errorf("expected both collections subscribed, got %v", got)
	}
}

func TestClient_UnknownCollectionIsRejected(t *testing.T) {
	hub := &MockHub{}
	c := newClient(hub)

	c.HandleMessage(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"collections": []interface{}{"teams"}},
	})

	if len(hub.refreshed) != 0 {
		t.Errorf("expected no refresh, got %v", hub.refreshed)
	}

	msg := <-c.Send
	if msg.Type != models.MessageTypeError {
		t.Fatalf("expected error message, got %s", msg.Type)
	}
	if payload := msg.Payload.(models.ErrorMessage); payload.Code != "unknown_collection" {
		t.Errorf("unexpected error code %q", payload.Code)
	}
}

func TestClient_Unsubscribe(t *testing.T) {
	c := newClient(&MockHub{})
	c.Subscribe([]string{models.CollectionPlayers, models.CollectionGames})

	c.HandleMessage(models.ClientMessage{
		Type:    models.MessageTypeUnsubscribe,
		Payload: map[string]interface{}{"collections": []interface{}{"players"}},
	})
	if got := c.GetFilter().Collections; len(got) != 1 || got[0] != models.CollectionGames {
		t.Errorf("expected games only, got %v", got)
	}

	c.HandleMessage(models.ClientMessage{Type: models.MessageTypeUnsubscribe})
	if got := c.GetFilter().Collections; len(got) != 0 {
		t.Errorf("expected empty filter, got %v", got)
	}
}

func TestClient_HeartbeatAndUnknownType(t *testing.T) {
	c := newClient(&MockHub{})

	c.HandleMessage(models.ClientMessage{Type: models.MessageTypeHeartbeat})
	msg := <-c.Send
	if msg.Type != models.MessageTypeHeartbeat {
		t.Fatalf("expected heartbeat, got %s", msg.Type)
	}
	if stats := msg.Payload.(models.ConnectionStats); stats.UserID != "user-1" || stats.ClientID != "c1" {
		t.Errorf("unexpected stats: %+v", stats)
	}

	c.HandleMessage(models.ClientMessage{Type: "bogus"})
	if msg := <-c.Send; msg.Type != models.MessageTypeError {
		t.Errorf("expected error for unknown type, got %s", msg.Type)
	}
}
