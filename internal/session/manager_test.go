package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	session     *entity.Session
	sessionErr  error
	profiles    map[uuid.UUID]*entity.Profile
	fetchErr    error
	upsertErr   error
	signInCalls int
	signOutIDs  []uuid.UUID
	signOutErr  error
	authHandler store.AuthHandler
}

func newFakeClient() *fakeClient {
	return &fakeClient{profiles: make(map[uuid.UUID]*entity.Profile)}
}

func (f *fakeClient) CurrentSession(ctx context.Context) (*entity.Session, error) {
	return f.session, f.sessionErr
}

func (f *fakeClient) OnAuthStateChange(handler store.AuthHandler) (store.Subscription, error) {
	f.authHandler = handler
	return noopSubscription{}, nil
}

func (f *fakeClient) SignInWithOtp(ctx context.Context, email, redirectTo string) error {
	f.signInCalls++
	return nil
}

func (f *fakeClient) SignOut(ctx context.Context, sessionID uuid.UUID) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.signOutIDs = append(f.signOutIDs, sessionID)
	return nil
}

func (f *fakeClient) SelectProjects(ctx context.Context) ([]*entity.Project, error) { return nil, nil }
func (f *fakeClient) SelectProfiles(ctx context.Context) ([]*entity.Profile, error) { return nil, nil }

func (f *fakeClient) FetchProfile(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	profile, ok := f.profiles[id]
	if !ok {
		return nil, store.ErrRowNotFound
	}
	return profile, nil
}

func (f *fakeClient) UpsertProfile(ctx context.Context, profile *entity.Profile) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.profiles[profile.Id] = profile
	return nil
}

func (f *fakeClient) UpsertProject(ctx context.Context, project *entity.Project) error { return nil }

func (f *fakeClient) SubscribeChanges(collection string, handler store.ChangeHandler) (store.Subscription, error) {
	return noopSubscription{}, nil
}

func (f *fakeClient) UploadBlob(ctx context.Context, bucket, path string, data io.Reader, size int64) error {
	return nil
}

func (f *fakeClient) PublicURL(bucket, path string) string { return "" }

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

func testSession(email string) *entity.Session {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(email))
	return &entity.Session{
		Id:        uuid.New(),
		Identity:  entity.Identity{Id: id, Email: email},
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}
}

func newTestManager(t *testing.T, client store.Client) *Manager {
	t.Helper()
	return NewManager(client, logger.NewIsolatedLogger(t.TempDir()+"/session.log"))
}

func TestResolveProfileCreatesWithDefaultMood(t *testing.T) {
	client := newFakeClient()
	identity := entity.Identity{Id: uuid.New(), Email: "nina@example.com"}

	profile, err := ResolveProfile(context.Background(), client, identity)
	assert.NoError(t, err)
	assert.NotNil(t, profile)
	assert.Equal(t, identity.Id, profile.Id)
	assert.Equal(t, "nina@example.com", profile.Email)
	assert.Equal(t, entity.MoodDefault, profile.MoodStatus)

	// Resolving again returns the same row unchanged.
	again, err := ResolveProfile(context.Background(), client, identity)
	assert.NoError(t, err)
	assert.Equal(t, profile, again)
}

func TestResolveProfileReturnsExistingRow(t *testing.T) {
	client := newFakeClient()
	identity := entity.Identity{Id: uuid.New(), Email: "omar@example.com"}
	existing := &entity.Profile{Id: identity.Id, Email: identity.Email, MoodStatus: entity.MoodRocket}
	client.profiles[identity.Id] = existing

	profile, err := ResolveProfile(context.Background(), client, identity)
	assert.NoError(t, err)
	assert.Equal(t, entity.MoodRocket, profile.MoodStatus)
}

func TestResolveProfileWrapsUnexpectedFetchErrors(t *testing.T) {
	client := newFakeClient()
	client.fetchErr = errors.New("connection refused")

	_, err := ResolveProfile(context.Background(), client, entity.Identity{Id: uuid.New()})
	var resErr *entity.ProfileResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestResolveProfileFallsBackToRereadWhenCreateLosesRace(t *testing.T) {
	client := newFakeClient()
	identity := entity.Identity{Id: uuid.New(), Email: "pia@example.com"}
	client.upsertErr = errors.New("duplicate key")

	// First read misses, the create fails, the re-read also misses: the
	// profile is reported absent without an error.
	profile, err := ResolveProfile(context.Background(), client, identity)
	assert.NoError(t, err)
	assert.Nil(t, profile)

	// When the winning writer's row is visible on re-read, it is returned.
	winner := &entity.Profile{Id: identity.Id, Email: identity.Email, MoodStatus: entity.MoodParty}
	client.profiles[identity.Id] = winner
	profile, err = ResolveProfile(context.Background(), client, identity)
	assert.NoError(t, err)
	assert.Equal(t, winner, profile)
}

func TestSignInWithEmailRequiresInput(t *testing.T) {
	client := newFakeClient()
	manager := newTestManager(t, client)

	err := manager.SignInWithEmail(context.Background(), "  ", "http://localhost:3000")
	var authErr *entity.AuthRequestError
	assert.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0, client.signInCalls)

	err = manager.SignInWithEmail(context.Background(), "quinn@example.com", "http://localhost:3000")
	assert.NoError(t, err)
	assert.Equal(t, 1, client.signInCalls)
}

func TestSignOutDoesNotClearStateOptimistically(t *testing.T) {
	client := newFakeClient()
	client.session = testSession("rae@example.com")
	manager := newTestManager(t, client)
	assert.NoError(t, manager.Start(context.Background()))
	defer manager.Stop()

	assert.NotNil(t, manager.Session())

	assert.NoError(t, manager.SignOut(context.Background()))
	assert.NotNil(t, manager.Session(), "state clears via the push notification, not on request")

	// The signed-out notification arrives and clears state.
	client.authHandler(store.AuthSignedOut, nil)
	assert.Nil(t, manager.Session())
	assert.Nil(t, manager.Profile())
}

func TestSignOutWrapsTransportErrors(t *testing.T) {
	client := newFakeClient()
	client.session = testSession("sam@example.com")
	manager := newTestManager(t, client)
	manager.ResolveInitialSession(context.Background())

	client.signOutErr = errors.New("gateway timeout")
	err := manager.SignOut(context.Background())
	var authErr *entity.AuthRequestError
	assert.ErrorAs(t, err, &authErr)
}

func TestInitialResolutionFailureLeavesSignedOut(t *testing.T) {
	client := newFakeClient()
	client.sessionErr = errors.New("network unreachable")
	manager := newTestManager(t, client)

	assert.True(t, manager.Loading())
	manager.ResolveInitialSession(context.Background())
	assert.False(t, manager.Loading())
	assert.Nil(t, manager.Session())
}

func TestSignInTransitionClearsLoadingAndResolvesProfile(t *testing.T) {
	client := newFakeClient()
	manager := newTestManager(t, client)
	assert.NoError(t, manager.Start(context.Background()))
	defer manager.Stop()

	sess := testSession("tess@example.com")
	client.authHandler(store.AuthSignedIn, sess)

	assert.False(t, manager.Loading())
	assert.Equal(t, sess, manager.Session())
	profile := manager.Profile()
	assert.NotNil(t, profile)
	assert.Equal(t, "tess@example.com", profile.Email)
	assert.Equal(t, entity.MoodDefault, profile.MoodStatus)
}
