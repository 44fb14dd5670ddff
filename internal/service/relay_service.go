package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"
	"commercial-hub-be/internal/store/local"
	"commercial-hub-be/internal/websocket"
	"commercial-hub-be/pkg/events"
	pktNats "commercial-hub-be/pkg/nats"
)

// IRelayService moves change events between the in-process bus, connected
// browsers, and other hub instances. Local-origin events go out to the
// websocket hub and NATS; remote events come back in through the bus so local
// caches refetch.
type IRelayService interface {
	Start() error
	Stop()
}

type relayService struct {
	local      *local.Store
	hub        *websocket.Hub
	publisher  *pktNats.Publisher
	subscriber *pktNats.Subscriber
	logger     logger.ILogger

	subs []store.Subscription
}

func NewRelayService(
	localStore *local.Store,
	hub *websocket.Hub,
	publisher *pktNats.Publisher,
	subscriber *pktNats.Subscriber,
	log logger.ILogger,
) IRelayService {
	return &relayService{
		local:      localStore,
		hub:        hub,
		publisher:  publisher,
		subscriber: subscriber,
		logger:     log,
	}
}

func (s *relayService) Start() error {
	for _, collection := range []string{store.CollectionProjects, store.CollectionProfiles} {
		sub, err := s.local.SubscribeChanges(collection, s.forward)
		if err != nil {
			return err
		}
		s.subs = append(s.subs, sub)
	}

	if s.subscriber != nil {
		durable := "hub-" + strings.ReplaceAll(s.local.InstanceID(), ".", "-")
		if err := s.subscriber.Subscribe("changes.>", durable, s.receive); err != nil {
			return err
		}
	}
	return nil
}

func (s *relayService) Stop() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

// forward pushes a local-origin change to browsers and other instances.
// Remote-origin events already reached both; they only feed local caches.
func (s *relayService) forward(event store.ChangeEvent) {
	if event.Origin != s.local.InstanceID() {
		return
	}

	if s.hub != nil {
		s.hub.BroadcastChange(event)
	}

	if s.publisher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := s.publisher.Publish(ctx, events.BaseEvent{
			Type: event.Collection,
			Data: map[string]interface{}{
				"collection":  event.Collection,
				"action":      event.Action,
				"record_id":   event.RecordID.String(),
				"origin":      event.Origin,
				"occurred_at": event.OccurredAt.Format(time.RFC3339Nano),
			},
			OccurredAt: event.OccurredAt,
		})
		if err != nil {
			s.logger.Warn("RelayService", "Failed to forward change to NATS", map[string]interface{}{
				"collection": event.Collection,
				"error":      err.Error(),
			})
		}
	}
}

// receive injects a change from another instance into the local bus.
func (s *relayService) receive(ctx context.Context, incoming events.Event) error {
	raw, err := json.Marshal(incoming.Payload())
	if err != nil {
		return err
	}
	var event store.ChangeEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return err
	}

	// Our own events come back from the stream; dropping them here keeps the
	// relay loop-free.
	if event.Origin == s.local.InstanceID() {
		return nil
	}

	s.local.InjectRemote(event)
	return nil
}
