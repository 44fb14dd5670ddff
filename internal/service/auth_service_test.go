package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"commercial-hub-be/internal/config"
	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/repository/contract"
	"commercial-hub-be/internal/repository/memory"
	"commercial-hub-be/internal/repository/specification"
	"commercial-hub-be/internal/repository/unitofwork"
	"commercial-hub-be/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUow struct {
	tokens *fakeLoginTokenRepo
	logs   *fakeActivityLogRepo
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		tokens: &fakeLoginTokenRepo{},
		logs:   &fakeActivityLogRepo{},
	}
}

func (f *fakeUow) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f }
func (f *fakeUow) Begin(ctx context.Context) error                         { return nil }
func (f *fakeUow) Commit() error                                           { return nil }
func (f *fakeUow) Rollback() error                                         { return nil }
func (f *fakeUow) ProfileRepository() contract.ProfileRepository           { return nil }
func (f *fakeUow) ProjectRepository() contract.ProjectRepository           { return nil }
func (f *fakeUow) LoginTokenRepository() contract.LoginTokenRepository     { return f.tokens }
func (f *fakeUow) ActivityLogRepository() contract.ActivityLogRepository   { return f.logs }

type fakeLoginTokenRepo struct {
	mu     sync.Mutex
	tokens []*entity.LoginToken
}

func (r *fakeLoginTokenRepo) Create(ctx context.Context, token *entity.LoginToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *fakeLoginTokenRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoginToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if matches(token, specs) {
			copied := *token
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeLoginTokenRepo) MarkUsed(ctx context.Context, token *entity.LoginToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.tokens {
		if stored.Id == token.Id {
			stored.Used = true
		}
	}
	return nil
}

func matches(token *entity.LoginToken, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByToken:
			if token.Token != s.Token {
				return false
			}
		case specification.Unused:
			if token.Used {
				return false
			}
		case specification.NotExpired:
			if !token.ExpiresAt.After(s.Now) {
				return false
			}
		}
	}
	return true
}

type fakeActivityLogRepo struct{}

func (r *fakeActivityLogRepo) Create(ctx context.Context, log *entity.ActivityLog) error {
	return nil
}

type fakeMailer struct {
	mu        sync.Mutex
	sent      []string
	redirects []string
	done      chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{done: make(chan struct{}, 4)}
}

func (m *fakeMailer) SendMagicLink(toEmail, token, redirectTo string) error {
	m.mu.Lock()
	m.sent = append(m.sent, toEmail)
	m.redirects = append(m.redirects, redirectTo)
	m.mu.Unlock()
	m.done <- struct{}{}
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) PublishAuthEvent(event string, sessionID uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func testAuthConfig() config.AuthConfig {
	hash, _ := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	return config.AuthConfig{
		JwtSecret:          "test-secret",
		MagicLinkTTLMin:    15,
		SessionTTLHours:    8,
		LegacyPasswordHash: string(hash),
	}
}

func newTestAuthService(t *testing.T, uow *fakeUow, m *fakeMailer) (IAuthService, *fakeNotifier) {
	t.Helper()
	svc := NewAuthService(
		uow,
		m,
		memory.NewSessionRepository(8*time.Hour),
		testAuthConfig(),
		logger.NewIsolatedLogger(t.TempDir()+"/auth.log"),
	)
	notifier := &fakeNotifier{}
	svc.SetNotifier(notifier)
	return svc, notifier
}

func TestRequestMagicLinkStoresTokenAndSendsEmail(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, _ := newTestAuthService(t, uow, mail)

	res, err := svc.RequestMagicLink(context.Background(), &dto.MagicLinkRequest{
		Email:      "  Dana@Example.COM ",
		RedirectTo: "http://localhost:5173",
	})
	assert.NoError(t, err)
	assert.Equal(t, "dana@example.com", res.Email)
	assert.True(t, res.ExpiresAt.After(time.Now()))

	assert.Len(t, uow.tokens.tokens, 1)
	assert.Equal(t, "dana@example.com", uow.tokens.tokens[0].Email)
	assert.False(t, uow.tokens.tokens[0].Used)

	select {
	case <-mail.done:
	case <-time.After(2 * time.Second):
		t.Fatal("magic link email was never sent")
	}

	// The caller's redirect target travels with the email.
	mail.mu.Lock()
	assert.Equal(t, []string{"http://localhost:5173"}, mail.redirects)
	mail.mu.Unlock()
}

func TestVerifyMagicLinkIsSingleUse(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, notifier := newTestAuthService(t, uow, mail)

	_, err := svc.RequestMagicLink(context.Background(), &dto.MagicLinkRequest{Email: "eli@example.com"})
	assert.NoError(t, err)
	token := uow.tokens.tokens[0].Token

	res, err := svc.VerifyMagicLink(context.Background(), token)
	assert.NoError(t, err)
	assert.Equal(t, "eli@example.com", res.User.Email)
	assert.NotEmpty(t, res.AccessToken)

	notifier.mu.Lock()
	assert.Contains(t, notifier.events, store.AuthSignedIn)
	notifier.mu.Unlock()

	// Second redemption fails.
	_, err = svc.VerifyMagicLink(context.Background(), token)
	assert.Error(t, err)
}

func TestVerifyMagicLinkRejectsExpiredToken(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, _ := newTestAuthService(t, uow, mail)

	uow.tokens.tokens = append(uow.tokens.tokens, &entity.LoginToken{
		Id:        uuid.New(),
		Email:     "fay@example.com",
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
		CreatedAt: time.Now().Add(-time.Hour),
	})

	_, err := svc.VerifyMagicLink(context.Background(), "stale-token")
	assert.Error(t, err)
}

func TestIdentityIsStablePerEmail(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, _ := newTestAuthService(t, uow, mail)

	_, err := svc.RequestMagicLink(context.Background(), &dto.MagicLinkRequest{Email: "gil@example.com"})
	assert.NoError(t, err)
	first, err := svc.VerifyMagicLink(context.Background(), uow.tokens.tokens[0].Token)
	assert.NoError(t, err)

	_, err = svc.RequestMagicLink(context.Background(), &dto.MagicLinkRequest{Email: "gil@example.com"})
	assert.NoError(t, err)
	second, err := svc.VerifyMagicLink(context.Background(), uow.tokens.tokens[1].Token)
	assert.NoError(t, err)

	assert.Equal(t, first.User.Id, second.User.Id, "identity id must survive re-login")
}

func TestVerifyMagicLinkIssuesValidJWT(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, _ := newTestAuthService(t, uow, mail)

	_, err := svc.RequestMagicLink(context.Background(), &dto.MagicLinkRequest{Email: "hal@example.com"})
	assert.NoError(t, err)
	res, err := svc.VerifyMagicLink(context.Background(), uow.tokens.tokens[0].Token)
	assert.NoError(t, err)

	parsed, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "hal@example.com", claims["email"])
	assert.Equal(t, res.User.Id.String(), claims["user_id"])
	assert.NotEmpty(t, claims["session_id"])

	// The session is resolvable by the id in the claims.
	sessionID, err := uuid.Parse(claims["session_id"].(string))
	assert.NoError(t, err)
	session, ok := svc.SessionByID(sessionID)
	assert.True(t, ok)
	assert.Equal(t, "hal@example.com", session.Identity.Email)
}

func TestLegacyLogin(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, _ := newTestAuthService(t, uow, mail)

	_, err := svc.LegacyLogin(context.Background(), &dto.LegacyLoginRequest{
		DisplayName: "Team Viewer",
		Password:    "wrong",
	})
	assert.Error(t, err)

	res, err := svc.LegacyLogin(context.Background(), &dto.LegacyLoginRequest{
		DisplayName: "Team Viewer",
		Password:    "letmein",
	})
	assert.NoError(t, err)
	assert.Equal(t, "team.viewer@legacy.local", res.User.Email)
}

func TestRevokeSessionPublishesSignedOut(t *testing.T) {
	uow := newFakeUow()
	mail := newFakeMailer()
	svc, notifier := newTestAuthService(t, uow, mail)

	_, err := svc.RequestMagicLink(context.Background(), &dto.MagicLinkRequest{Email: "ida@example.com"})
	assert.NoError(t, err)
	res, err := svc.VerifyMagicLink(context.Background(), uow.tokens.tokens[0].Token)
	assert.NoError(t, err)

	claims, _ := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	sessionID, _ := uuid.Parse(claims.Claims.(jwt.MapClaims)["session_id"].(string))

	assert.NoError(t, svc.Logout(context.Background(), sessionID))
	_, ok := svc.SessionByID(sessionID)
	assert.False(t, ok)

	notifier.mu.Lock()
	assert.Contains(t, notifier.events, store.AuthSignedOut)
	notifier.mu.Unlock()
}
