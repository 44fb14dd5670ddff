package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"commercial-hub-be/internal/config"
	"commercial-hub-be/internal/dto"
	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/pkg/logger"
	"commercial-hub-be/internal/pkg/mailer"
	"commercial-hub-be/internal/repository/memory"
	"commercial-hub-be/internal/repository/specification"
	"commercial-hub-be/internal/repository/unitofwork"
	"commercial-hub-be/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// identityNamespace seeds the email-derived identity id, so the same email
// always maps to the same profile row across sign-ins.
var identityNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

// AuthNotifier receives auth transitions to fan out to subscribed clients.
type AuthNotifier interface {
	PublishAuthEvent(event string, sessionID uuid.UUID)
}

type IAuthService interface {
	RequestMagicLink(ctx context.Context, req *dto.MagicLinkRequest) (*dto.MagicLinkResponse, error)
	VerifyMagicLink(ctx context.Context, token string) (*dto.VerifyResponse, error)
	LegacyLogin(ctx context.Context, req *dto.LegacyLoginRequest) (*dto.VerifyResponse, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error

	// local store AuthBackend surface
	RequestLink(ctx context.Context, email, redirectTo string) error
	SessionByID(id uuid.UUID) (*entity.Session, bool)
	RevokeSession(ctx context.Context, id uuid.UUID) error

	SetNotifier(notifier AuthNotifier)
}

type authService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	sessions     *memory.SessionRepository
	cfg          config.AuthConfig
	logger       logger.ILogger
	notifier     AuthNotifier
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	sessions *memory.SessionRepository,
	cfg config.AuthConfig,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:   uowFactory,
		emailService: emailService,
		sessions:     sessions,
		cfg:          cfg,
		logger:       log,
	}
}

// SetNotifier wires the auth event fanout. Set after the store is built; the
// store needs this service first.
func (s *authService) SetNotifier(notifier AuthNotifier) {
	s.notifier = notifier
}

func generateLinkToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RequestMagicLink creates a single-use login token and emails it. The
// response never reveals whether the email is known.
func (s *authService) RequestMagicLink(ctx context.Context, req *dto.MagicLinkRequest) (*dto.MagicLinkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	token, err := generateLinkToken()
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	loginToken := &entity.LoginToken{
		Id:         uuid.New(),
		Email:      email,
		Token:      token,
		RedirectTo: req.RedirectTo,
		ExpiresAt:  time.Now().Add(time.Duration(s.cfg.MagicLinkTTLMin) * time.Minute),
		CreatedAt:  time.Now(),
	}
	if err := uow.LoginTokenRepository().Create(ctx, loginToken); err != nil {
		return nil, err
	}

	// Send in the background so a slow SMTP server doesn't block the request.
	go func() {
		if err := s.emailService.SendMagicLink(email, token, loginToken.RedirectTo); err != nil {
			s.logger.Error("AuthService", "Failed to send magic link", map[string]interface{}{
				"email": email,
				"error": err.Error(),
			})
		}
	}()

	s.logger.Info("AuthService", "Magic link requested", map[string]interface{}{"email": email})

	return &dto.MagicLinkResponse{
		Email:     email,
		ExpiresAt: loginToken.ExpiresAt,
	}, nil
}

// VerifyMagicLink redeems a login token exactly once and issues a session.
func (s *authService) VerifyMagicLink(ctx context.Context, token string) (*dto.VerifyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	loginToken, err := uow.LoginTokenRepository().FindOne(ctx,
		specification.ByToken{Token: token},
		specification.Unused{},
		specification.NotExpired{Now: time.Now()},
	)
	if err != nil {
		return nil, err
	}
	if loginToken == nil {
		return nil, errors.New("invalid or expired sign-in link")
	}

	if err := uow.LoginTokenRepository().MarkUsed(ctx, loginToken); err != nil {
		return nil, err
	}

	session, err := s.issueSession(loginToken.Email)
	if err != nil {
		return nil, err
	}

	return &dto.VerifyResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
		User: dto.SessionIdentity{
			Id:    session.Identity.Id,
			Email: session.Identity.Email,
		},
	}, nil
}

// LegacyLogin keeps the old shared-password door open for the handful of
// users who never migrated to email links. The display name becomes the
// identity's mailbox-less handle.
func (s *authService) LegacyLogin(ctx context.Context, req *dto.LegacyLoginRequest) (*dto.VerifyResponse, error) {
	if s.cfg.LegacyPasswordHash == "" {
		return nil, errors.New("legacy login is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.LegacyPasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	handle := strings.ToLower(strings.TrimSpace(req.DisplayName))
	email := fmt.Sprintf("%s@legacy.local", strings.ReplaceAll(handle, " ", "."))

	session, err := s.issueSession(email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("AuthService", "Legacy login", map[string]interface{}{"handle": handle})

	return &dto.VerifyResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
		User: dto.SessionIdentity{
			Id:    session.Identity.Id,
			Email: session.Identity.Email,
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.RevokeSession(ctx, sessionID)
}

// --- AuthBackend ---

func (s *authService) RequestLink(ctx context.Context, email, redirectTo string) error {
	_, err := s.RequestMagicLink(ctx, &dto.MagicLinkRequest{Email: email, RedirectTo: redirectTo})
	return err
}

func (s *authService) SessionByID(id uuid.UUID) (*entity.Session, bool) {
	return s.sessions.Get(id.String())
}

func (s *authService) RevokeSession(ctx context.Context, id uuid.UUID) error {
	s.sessions.Delete(id.String())
	if s.notifier != nil {
		s.notifier.PublishAuthEvent(store.AuthSignedOut, uuid.Nil)
	}
	return nil
}

// issueSession mints a session and its JWT for an email identity. The
// identity id is derived from the email so the profile row survives
// re-login.
func (s *authService) issueSession(email string) (*entity.Session, error) {
	identity := entity.Identity{
		Id:    uuid.NewSHA1(identityNamespace, []byte(email)),
		Email: email,
	}

	now := time.Now()
	session := &entity.Session{
		Id:        uuid.New(),
		Identity:  identity,
		ExpiresAt: now.Add(time.Duration(s.cfg.SessionTTLHours) * time.Hour),
		CreatedAt: now,
	}

	claims := jwt.MapClaims{
		"session_id": session.Id.String(),
		"user_id":    identity.Id.String(),
		"email":      identity.Email,
		"exp":        session.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return nil, err
	}
	session.AccessToken = signed

	s.sessions.Save(session)
	if s.notifier != nil {
		s.notifier.PublishAuthEvent(store.AuthSignedIn, session.Id)
	}
	return session, nil
}
