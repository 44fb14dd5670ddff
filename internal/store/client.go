package store

import (
	"context"
	"errors"
	"io"
	"time"

	"commercial-hub-be/internal/entity"

	"github.com/google/uuid"
)

// Collections tracked by the hub.
const (
	CollectionProjects = "projects"
	CollectionProfiles = "profiles"
)

// Change actions carried by notifications. The payload is only a signal to
// refetch; consumers never diff it.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Auth transitions pushed to OnAuthStateChange handlers.
const (
	AuthSignedIn       = "SIGNED_IN"
	AuthSignedOut      = "SIGNED_OUT"
	AuthTokenRefreshed = "TOKEN_REFRESHED"
)

// ErrRowNotFound distinguishes "no row yet" from transport failures. Profile
// resolution creates on this error and aborts on anything else.
var ErrRowNotFound = errors.New("store: row not found")

// ChangeEvent is one collection change notification.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Action     string    `json:"action"`
	RecordID   uuid.UUID `json:"record_id"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ChangeHandler func(event ChangeEvent)

// AuthHandler receives auth transitions. session is nil on sign-out.
type AuthHandler func(event string, session *entity.Session)

// Subscription is a live push channel; Unsubscribe stops delivery and releases
// the consumer goroutine.
type Subscription interface {
	Unsubscribe()
}

type Auth interface {
	// CurrentSession returns the bound session, or (nil, nil) when signed out.
	CurrentSession(ctx context.Context) (*entity.Session, error)
	OnAuthStateChange(handler AuthHandler) (Subscription, error)
	// SignInWithOtp dispatches a passwordless sign-in link. Success means the
	// link was sent, not that the user is authenticated.
	SignInWithOtp(ctx context.Context, email, redirectTo string) error
	SignOut(ctx context.Context, sessionID uuid.UUID) error
}

type Data interface {
	// SelectProjects returns all projects ordered by created_at descending.
	SelectProjects(ctx context.Context) ([]*entity.Project, error)
	// SelectProfiles returns all profiles ordered by updated_at descending.
	SelectProfiles(ctx context.Context) ([]*entity.Profile, error)
	// FetchProfile returns ErrRowNotFound when no profile exists for id.
	FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	UpsertProfile(ctx context.Context, profile *entity.Profile) error
	UpsertProject(ctx context.Context, project *entity.Project) error
}

type Realtime interface {
	SubscribeChanges(collection string, handler ChangeHandler) (Subscription, error)
}

type BlobStorage interface {
	UploadBlob(ctx context.Context, bucket, path string, data io.Reader, size int64) error
	PublicURL(bucket, path string) string
}

// Client is the full remote-store surface the dashboard pipeline consumes.
type Client interface {
	Auth
	Data
	Realtime
	BlobStorage
}
