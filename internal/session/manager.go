// Package session tracks the authenticated identity of a client view and
// resolves its linked profile. State changes only in response to the store's
// auth notifications; sign-in and sign-out requests never mutate it directly.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/store"
)

// Manager holds the current session, identity, and profile for one client
// view. Reads after an auth transition observe the re-resolved profile.
type Manager struct {
	client store.Client
	logger logger.ILogger

	mu      sync.RWMutex
	session *entity.Session
	profile *entity.Profile
	loading bool

	sub store.Subscription
}

func NewManager(client store.Client, log logger.ILogger) *Manager {
	return &Manager{client: client, logger: log, loading: true}
}

// Start resolves any existing session and subscribes to auth transitions.
// Transport failures leave the manager signed out; startup never fails here.
func (m *Manager) Start(ctx context.Context) error {
	m.ResolveInitialSession(ctx)

	sub, err := m.client.OnAuthStateChange(func(event string, sess *entity.Session) {
		m.OnSessionChanged(context.Background(), event, sess)
	})
	if err != nil {
		return err
	}
	m.sub = sub
	return nil
}

// Stop tears down the auth subscription.
func (m *Manager) Stop() {
	if m.sub != nil {
		m.sub.Unsubscribe()
		m.sub = nil
	}
}

// ResolveInitialSession asks the store for an existing session once. Errors
// are logged and swallowed so a flaky remote cannot hang startup.
func (m *Manager) ResolveInitialSession(ctx context.Context) {
	sess, err := m.client.CurrentSession(ctx)
	if err != nil {
		m.logger.Warn("Session", "Initial session resolution failed", map[string]interface{}{"error": err.Error()})
		m.mu.Lock()
		m.session = nil
		m.profile = nil
		m.loading = false
		m.mu.Unlock()
		return
	}
	m.apply(ctx, sess)
}

// OnSessionChanged applies an auth transition pushed by the store. The
// profile is re-resolved before the lock is released, so reads after this
// call see consistent identity and profile state.
func (m *Manager) OnSessionChanged(ctx context.Context, event string, sess *entity.Session) {
	m.logger.Info("Session", "Auth state changed", map[string]interface{}{"event": event})
	m.apply(ctx, sess)
}

// SignInWithEmail asks the store to dispatch a magic link. Success means the
// link was sent; authentication completes later via the auth notification.
func (m *Manager) SignInWithEmail(ctx context.Context, email, redirectTo string) error {
	if strings.TrimSpace(email) == "" {
		return &entity.AuthRequestError{Op: "sign-in", Err: errors.New("email is required")}
	}
	if err := m.client.SignInWithOtp(ctx, email, redirectTo); err != nil {
		return &entity.AuthRequestError{Op: "sign-in", Err: err}
	}
	return nil
}

// SignOut requests remote sign-out. Local state clears when the store pushes
// the signed-out notification, never optimistically.
func (m *Manager) SignOut(ctx context.Context) error {
	m.mu.RLock()
	sess := m.session
	m.mu.RUnlock()
	if sess == nil {
		return nil
	}
	if err := m.client.SignOut(ctx, sess.Id); err != nil {
		return &entity.AuthRequestError{Op: "sign-out", Err: err}
	}
	return nil
}

// Session returns the current session, or nil when signed out.
func (m *Manager) Session() *entity.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Profile returns the resolved profile, or nil when absent.
func (m *Manager) Profile() *entity.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.profile
}

// Loading reports whether the initial session resolution is still pending.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) apply(ctx context.Context, sess *entity.Session) {
	var profile *entity.Profile
	if sess != nil {
		resolved, err := ResolveProfile(ctx, m.client, sess.Identity)
		if err != nil {
			m.logger.Warn("Session", "Profile resolution failed", map[string]interface{}{
				"user_id": sess.Identity.Id.String(),
				"error":   err.Error(),
			})
		}
		profile = resolved
	}

	m.mu.Lock()
	m.session = sess
	m.profile = profile
	m.loading = false
	m.mu.Unlock()
}

// ResolveProfile reads the profile for an identity and creates one with the
// default mood when no row exists yet. Concurrent first logins race on the
// create; the store's upsert-by-id makes the last writer win, so a failed
// create falls back to one re-read.
func ResolveProfile(ctx context.Context, data store.Data, identity entity.Identity) (*entity.Profile, error) {
	profile, err := data.FetchProfile(ctx, identity.Id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, store.ErrRowNotFound) {
		return nil, &entity.ProfileResolutionError{Err: err}
	}

	now := time.Now()
	created := &entity.Profile{
		Id:         identity.Id,
		Email:      identity.Email,
		MoodStatus: entity.MoodDefault,
		UpdatedAt:  &now,
	}
	if err := data.UpsertProfile(ctx, created); err != nil {
		// Another client may have created the row first; try the read once
		// more before reporting the profile absent.
		if again, readErr := data.FetchProfile(ctx, identity.Id); readErr == nil {
			return again, nil
		}
		return nil, nil
	}
	return created, nil
}
