package local

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/repository/specification"
	"commercial-hub-be/internal/repository/unitofwork"
	"commercial-hub-be/internal/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

const authTopic = "auth.state"

func changeTopic(collection string) string {
	return "changes." + collection
}

// AuthBackend is the session machinery the store delegates its auth surface
// to. Implemented by the auth service.
type AuthBackend interface {
	RequestLink(ctx context.Context, email, redirectTo string) error
	SessionByID(id uuid.UUID) (*entity.Session, bool)
	RevokeSession(ctx context.Context, id uuid.UUID) error
}

// Store implements store.Client over the hub's own persistence, the in-process
// change bus, and disk blob storage. Every upsert publishes a ChangeEvent on
// the bus; subscribers treat it as a refetch signal only.
type Store struct {
	uowFactory unitofwork.RepositoryFactory
	bus        *gochannel.GoChannel
	auth       AuthBackend
	blobs      *DiskBlobStore
	logger     logger.ILogger
	instanceID string

	mu      sync.RWMutex
	boundID *uuid.UUID // session bound to this client view, nil when signed out
}

func NewStore(
	uowFactory unitofwork.RepositoryFactory,
	bus *gochannel.GoChannel,
	auth AuthBackend,
	blobs *DiskBlobStore,
	log logger.ILogger,
	instanceID string,
) *Store {
	if instanceID == "" {
		instanceID = watermill.NewShortUUID()
	}
	return &Store{
		uowFactory: uowFactory,
		bus:        bus,
		auth:       auth,
		blobs:      blobs,
		logger:     log,
		instanceID: instanceID,
	}
}

func (s *Store) InstanceID() string {
	return s.instanceID
}

// BindSession attaches a session to this client view so CurrentSession
// resolves it. Pass uuid.Nil to unbind.
func (s *Store) BindSession(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == uuid.Nil {
		s.boundID = nil
		return
	}
	s.boundID = &id
}

// --- store.Data ---

func (s *Store) SelectProjects(ctx context.Context) ([]*entity.Project, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProjectRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (s *Store) SelectProfiles(ctx context.Context) ([]*entity.Profile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ProfileRepository().FindAll(ctx,
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
}

func (s *Store) FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, store.ErrRowNotFound
	}
	return profile, nil
}

func (s *Store) UpsertProfile(ctx context.Context, profile *entity.Profile) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ProfileRepository().FindOne(ctx, specification.ByID{ID: profile.Id})
	if err != nil {
		return err
	}

	if err := uow.ProfileRepository().Upsert(ctx, profile); err != nil {
		return err
	}

	action := store.ActionUpdate
	if existing == nil {
		action = store.ActionInsert
	}
	s.emitChange(ctx, store.CollectionProfiles, action, profile.Id)
	return nil
}

func (s *Store) UpsertProject(ctx context.Context, project *entity.Project) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ProjectRepository().FindOne(ctx, specification.ByID{ID: project.Id})
	if err != nil {
		return err
	}

	if err := uow.ProjectRepository().Upsert(ctx, project); err != nil {
		return err
	}

	action := store.ActionUpdate
	if existing == nil {
		action = store.ActionInsert
	}
	s.emitChange(ctx, store.CollectionProjects, action, project.Id)
	return nil
}

// --- store.Realtime ---

func (s *Store) SubscribeChanges(collection string, handler store.ChangeHandler) (store.Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	messages, err := s.bus.Subscribe(ctx, changeTopic(collection))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to %s: %w", collection, err)
	}

	go func() {
		for msg := range messages {
			var event store.ChangeEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				s.logger.Warn("Store", "Dropping malformed change event", map[string]interface{}{"error": err.Error()})
				msg.Ack()
				continue
			}
			handler(event)
			msg.Ack()
		}
	}()

	return subscription{cancel: cancel}, nil
}

// --- store.Auth ---

func (s *Store) CurrentSession(ctx context.Context) (*entity.Session, error) {
	s.mu.RLock()
	bound := s.boundID
	s.mu.RUnlock()

	if bound == nil {
		return nil, nil
	}
	sess, ok := s.auth.SessionByID(*bound)
	if !ok || sess.Expired(time.Now()) {
		return nil, nil
	}
	return sess, nil
}

func (s *Store) OnAuthStateChange(handler store.AuthHandler) (store.Subscription, error) {
	ctx, cancel := context.WithCancel(context.Background())
	messages, err := s.bus.Subscribe(ctx, authTopic)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to auth state: %w", err)
	}

	go func() {
		for msg := range messages {
			var payload authPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				msg.Ack()
				continue
			}

			var sess *entity.Session
			if payload.SessionID != uuid.Nil {
				if found, ok := s.auth.SessionByID(payload.SessionID); ok {
					sess = found
				}
			}
			handler(payload.Event, sess)
			msg.Ack()
		}
	}()

	return subscription{cancel: cancel}, nil
}

func (s *Store) SignInWithOtp(ctx context.Context, email, redirectTo string) error {
	return s.auth.RequestLink(ctx, email, redirectTo)
}

func (s *Store) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	return s.auth.RevokeSession(ctx, sessionID)
}

// PublishAuthEvent pushes an auth transition to every OnAuthStateChange
// subscriber. Called by the auth service after issuing or revoking a session.
func (s *Store) PublishAuthEvent(event string, sessionID uuid.UUID) {
	payload, err := json.Marshal(authPayload{Event: event, SessionID: sessionID})
	if err != nil {
		return
	}
	if err := s.bus.Publish(authTopic, message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("Store", "Failed to publish auth event", map[string]interface{}{"event": event, "error": err.Error()})
	}
}

// --- store.BlobStorage ---

func (s *Store) UploadBlob(ctx context.Context, bucket, path string, data io.Reader, size int64) error {
	return s.blobs.Upload(ctx, bucket, path, data, size)
}

func (s *Store) PublicURL(bucket, path string) string {
	return s.blobs.PublicURL(bucket, path)
}

// --- change emission ---

// InjectRemote republishes a change that originated on another instance onto
// the local bus, preserving its origin so the relay won't bounce it back.
func (s *Store) InjectRemote(event store.ChangeEvent) {
	s.publish(event)
}

func (s *Store) emitChange(ctx context.Context, collection, action string, recordID uuid.UUID) {
	event := store.ChangeEvent{
		Collection: collection,
		Action:     action,
		RecordID:   recordID,
		Origin:     s.instanceID,
		OccurredAt: time.Now(),
	}
	s.publish(event)
	s.audit(ctx, event)
}

func (s *Store) publish(event store.ChangeEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.bus.Publish(changeTopic(event.Collection), message.NewMessage(watermill.NewUUID(), payload)); err != nil {
		s.logger.Warn("Store", "Failed to publish change event", map[string]interface{}{
			"collection": event.Collection,
			"error":      err.Error(),
		})
	}
}

// audit writes the change to activity_logs. Best effort: a failed audit write
// never fails the triggering upsert.
func (s *Store) audit(ctx context.Context, event store.ChangeEvent) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	entry := &entity.ActivityLog{
		Id:         uuid.New(),
		Collection: event.Collection,
		Action:     event.Action,
		RecordId:   event.RecordID,
		Payload: map[string]interface{}{
			"origin":      event.Origin,
			"occurred_at": event.OccurredAt,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.ActivityLogRepository().Create(ctx, entry); err != nil {
		s.logger.Warn("Store", "Failed to write activity log", map[string]interface{}{"error": err.Error()})
	}
}

type authPayload struct {
	Event     string    `json:"event"`
	SessionID uuid.UUID `json:"session_id"`
}

type subscription struct {
	cancel context.CancelFunc
}

func (s subscription) Unsubscribe() {
	s.cancel()
}
