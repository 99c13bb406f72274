package hub_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/PraneetTulluri/Stats-Tracker/internal/client"
	"github.com/PraneetTulluri/Stats-Tracker/internal/hub"
	"github.com/PraneetTulluri/Stats-Tracker/internal/testutil"
	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// MockSource implements contracts.SnapshotSource for testing
type MockSource struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (m *MockSource) Snapshot(ctx context.Context, userID, collection string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, userID+"/"+collection)
	if m.err != nil {
		return nil, m.err
	}
	return []string{userID, collection}, nil
}

func (m *MockSource) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func startHub(t *testing.T, source *MockSource) (*hub.Hub, context.CancelFunc) {
	t.Helper()
	h := hub.NewHub(source, testutil.DiscardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func subscribedClient(h *hub.Hub, id, userID string, collections ...string) *client.Client {
	c := client.NewClient(id, userID, nil, h, testutil.DiscardLogger())
	c.SetFilter(models.SubscriptionFilter{Collections: collections})
	h.Register(c)
	return c
}

func receive(t *testing.T, c *client.Client) models.ServerMessage {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("client %s received nothing", c.ID)
		return models.ServerMessage{}
	}
}

func expectNothing(t *testing.T, c *client.Client) {
	t.Helper()
	select {
	case msg := <-c.Send:
		t.Errorf("client %s unexpectedly received %+v", c.ID, msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_PublishReachesSubscribersOnly(t *testing.T) {
	source := &MockSource{}
	h, _ := startHub(t, source)

	players := subscribedClient(h, "a", "user-1", models.CollectionPlayers)
	alsoPlayers := subscribedClient(h, "b", "user-1", models.CollectionPlayers, models.CollectionGames)
	games := subscribedClient(h, "c", "user-1", models.CollectionGames)
	otherUser := subscribedClient(h, "d", "user-2", models.CollectionPlayers)

	err := h.Publish(context.Background(), models.ChangeEvent{UserID: "user-1", Collection: models.CollectionPlayers})
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range []*client.Client{players, alsoPlayers} {
		msg := receive(t, c)
		if msg.Type != models.MessageTypeSnapshot || msg.Collection != models.CollectionPlayers {
			t.Errorf("client %s got %s/%s", c.ID, msg.Type, msg.Collection)
		}
	}
	expectNothing(t, games)
	expectNothing(t, otherUser)

	if calls := source.Calls(); len(calls) != 1 || calls[0] != "user-1/players" {
		t.Errorf("expected a single snapshot read, got %v", calls)
	}
}

func TestHub_NoSubscribersSkipsSnapshot(t *testing.T) {
	source := &MockSource{}
	h, _ := startHub(t, source)

	c := subscribedClient(h, "a", "user-1", models.CollectionGames)
	h.Publish(context.Background(), models.ChangeEvent{UserID: "user-1", Collection: models.CollectionPlayers})
	expectNothing(t, c)

	if calls := source.Calls(); len(calls) != 0 {
		t.Errorf("expected no snapshot reads, got %v", calls)
	}
}

func TestHub_SubscribeDeliversCurrentSnapshot(t *testing.T) {
	h, _ := startHub(t, &MockSource{})

	c := subscribedClient(h, "a", "user-1")
	c.HandleMessage(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"collections": []interface{}{"games"}},
	})

	msg := receive(t, c)
	if msg.Collection != models.CollectionGames {
		t.Fatalf("expected games snapshot, got %q", msg.Collection)
	}
	payload, ok := msg.Payload.([]string)
	if !ok || payload[0] != "user-1" {
		t.Errorf("unexpected payload %+v", msg.Payload)
	}
}

func TestHub_SnapshotErrorSendsNothing(t *testing.T) {
	h, _ := startHub(t, &MockSource{err: errors.New("store down")})

	c := subscribedClient(h, "a", "user-1", models.CollectionPlayers)
	h.Publish(context.Background(), models.ChangeEvent{UserID: "user-1", Collection: models.CollectionPlayers})
	expectNothing(t, c)
}

func TestHub_UnregisterAndShutdown(t *testing.T) {
	h, cancel := startHub(t, &MockSource{})

	gone := subscribedClient(h, "a", "user-1", models.CollectionPlayers)
	stays := subscribedClient(h, "b", "user-1", models.CollectionPlayers)

	h.Unregister(gone)
	if _, ok := <-gone.Send; ok {
		t.Error("expected send channel closed after unregister")
	}
	if n := h.GetClientCount(); n != 1 {
		t.Errorf("expected 1 client, got %d", n)
	}

	metrics := h.GetMetrics()
	if metrics["total_connections"] != int64(2) {
		t.Errorf("expected 2 total connections, got %v", metrics["total_connections"])
	}
	if metrics["broadcast_capacity"] != 1000 {
		t.Errorf("unexpected broadcast capacity %v", metrics["broadcast_capacity"])
	}

	cancel()
	select {
	case _, ok := <-stays.Send:
		if ok {
			t.Error("expected send channel closed on shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not shut down")
	}
}

func TestHub_PublishFailsWhenBufferFull(t *testing.T) {
	// Not running, so nothing drains the buffer
	h := hub.NewHub(&MockSource{}, testutil.DiscardLogger())
	event := models.ChangeEvent{UserID: "user-1", Collection: models.CollectionGames}

	for i := 0; i < 1000; i++ {
		if err := h.Publish(context.Background(), event); err != nil {
			t.Fatalf("publish %d failed: %v", i, err)
		}
	}

	if err := h.Publish(context.Background(), event); !errors.Is(err, hub.ErrBroadcastFull) {
		t.Errorf("expected ErrBroadcastFull, got %v", err)
	}
}

func TestHub_ClientMessagesAfterUnregisterAreDropped(t *testing.T) {
	h, _ := startHub(t, &MockSource{})

	c := subscribedClient(h, "a", "user-1", models.CollectionPlayers)
	h.Unregister(c)

	// the read pump can still be handling peer messages at this point
	c.HandleMessage(models.ClientMessage{Type: models.MessageTypeHeartbeat})
	c.HandleMessage(models.ClientMessage{Type: "bogus"})
	c.HandleMessage(models.ClientMessage{
		Type:    models.MessageTypeSubscribe,
		Payload: map[string]interface{}{"collections": []interface{}{"games"}},
	})

	if c.TrySend(models.ServerMessage{Type: models.MessageTypeHeartbeat}) {
		t.Error("expected send to a closed client to fail")
	}
	if _, ok := <-c.Send; ok {
		t.Error("expected send channel closed")
	}
}

func TestHub_ClientMessagesAfterShutdownAreDropped(t *testing.T) {
	h, cancel := startHub(t, &MockSource{})

	c := subscribedClient(h, "a", "user-1", models.CollectionPlayers)
	cancel()

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected send channel closed on shutdown")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not shut down")
	}

	c.HandleMessage(models.ClientMessage{Type: models.MessageTypeHeartbeat})

	// the read pump unregisters on exit; this must not block once the hub is gone
	unregistered := make(chan struct{})
	go func() {
		h.Unregister(c)
		close(unregistered)
	}()
	select {
	case <-unregistered:
	case <-time.After(2 * time.Second):
		t.Fatal("Unregister blocked after shutdown")
	}

	late := client.NewClient("b", "user-1", nil, h, testutil.DiscardLogger())
	h.Register(late)
	if _, ok := <-late.Send; ok {
		t.Error("expected a client registered after shutdown to be closed")
	}
}
