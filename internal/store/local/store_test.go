package local

import (
	"testing"
	"time"

	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	log := logger.NewIsolatedLogger(t.TempDir() + "/store.log")
	return NewStore(nil, bus, nil, nil, log, "node-a")
}

func TestSubscribeChangesDeliversEvents(t *testing.T) {
	s := newTestStore(t)

	received := make(chan store.ChangeEvent, 1)
	sub, err := s.SubscribeChanges(store.CollectionProjects, func(event store.ChangeEvent) {
		received <- event
	})
	assert.NoError(t, err)
	defer sub.Unsubscribe()

	recordID := uuid.New()
	s.InjectRemote(store.ChangeEvent{
		Collection: store.CollectionProjects,
		Action:     store.ActionUpdate,
		RecordID:   recordID,
		Origin:     "node-b",
		OccurredAt: time.Now(),
	})

	select {
	case event := <-received:
		assert.Equal(t, store.CollectionProjects, event.Collection)
		assert.Equal(t, store.ActionUpdate, event.Action)
		assert.Equal(t, recordID, event.RecordID)
		assert.Equal(t, "node-b", event.Origin)
	case <-time.After(2 * time.Second):
		t.Fatal("change event was not delivered")
	}
}

func TestSubscribeChangesFiltersByCollection(t *testing.T) {
	s := newTestStore(t)

	received := make(chan store.ChangeEvent, 1)
	sub, err := s.SubscribeChanges(store.CollectionProfiles, func(event store.ChangeEvent) {
		received <- event
	})
	assert.NoError(t, err)
	defer sub.Unsubscribe()

	s.InjectRemote(store.ChangeEvent{
		Collection: store.CollectionProjects,
		Action:     store.ActionInsert,
		RecordID:   uuid.New(),
		Origin:     "node-a",
	})

	select {
	case event := <-received:
		t.Fatalf("unexpected event for collection %s", event.Collection)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := newTestStore(t)

	received := make(chan store.ChangeEvent, 2)
	sub, err := s.SubscribeChanges(store.CollectionProjects, func(event store.ChangeEvent) {
		received <- event
	})
	assert.NoError(t, err)
	sub.Unsubscribe()

	// Give the bus time to drop the subscriber before publishing.
	time.Sleep(100 * time.Millisecond)

	s.InjectRemote(store.ChangeEvent{
		Collection: store.CollectionProjects,
		Action:     store.ActionInsert,
		RecordID:   uuid.New(),
		Origin:     "node-a",
	})

	select {
	case <-received:
		t.Fatal("event delivered after unsubscribe")
	case <-time.After(200 * time.Millisecond):
	}
}
