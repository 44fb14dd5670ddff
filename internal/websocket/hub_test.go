package websocket

import (
	"testing"
	"time"

	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log := logger.NewIsolatedLogger(t.TempDir() + "/hub.log")
	hub := NewHub(nil, log)
	go hub.Run()
	return hub
}

func registerAndWait(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	hub.register <- client
	assert.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[client.UserID]) > 0
	}, time.Second, 5*time.Millisecond)
}

func TestBroadcastChangeDeliversToConnectedClients(t *testing.T) {
	hub := newTestHub(t)

	client := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	registerAndWait(t, hub, client)

	hub.BroadcastChange(store.ChangeEvent{
		Collection: store.CollectionProjects,
		Action:     store.ActionUpdate,
		RecordID:   uuid.New(),
	})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"type":"change"`)
		assert.Contains(t, string(msg), store.CollectionProjects)
	case <-time.After(time.Second):
		t.Fatal("change event never reached the client")
	}
}

func TestBroadcastAuthTargetsSingleUser(t *testing.T) {
	hub := newTestHub(t)

	target := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	other := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	registerAndWait(t, hub, target)
	registerAndWait(t, hub, other)

	hub.BroadcastAuth(target.UserID, store.AuthSignedOut)

	select {
	case msg := <-target.Send:
		assert.Contains(t, string(msg), store.AuthSignedOut)
	case <-time.After(time.Second):
		t.Fatal("auth event never reached the target")
	}
	assert.Empty(t, other.Send)
}

func TestBroadcastDropsSlowClientWithoutPanic(t *testing.T) {
	hub := newTestHub(t)

	// Unbuffered Send with no reader models a consumer that stopped draining.
	slow := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte)}
	registerAndWait(t, hub, slow)

	event := store.ChangeEvent{Collection: store.CollectionProfiles, Action: store.ActionInsert}
	hub.BroadcastChange(event)
	hub.BroadcastChange(event)

	assert.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, stillThere := hub.clients[slow.UserID]
		return !stillThere
	}, time.Second, 5*time.Millisecond)

	// Send is closed exactly once, by the unregister path.
	_, open := <-slow.Send
	assert.False(t, open)

	healthy := &Client{Hub: hub, UserID: uuid.New(), Send: make(chan []byte, 4)}
	registerAndWait(t, hub, healthy)
	hub.BroadcastChange(event)

	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("hub stopped broadcasting after dropping a slow client")
	}
}
