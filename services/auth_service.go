package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stagestream/metrics"
	"stagestream/models"
	"stagestream/repositories"
	"stagestream/tracing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for every failed login so callers cannot
// tell which part of the credentials was wrong.
var ErrInvalidCredentials = &models.ErrorUnauthorized{Message: "Invalid credentials"}

const maxPasswordBytes = 72

var errInvalidSession = &models.ErrorUnauthorized{Message: "Unauthorized"}

// AuthConfig carries the settings the auth service needs from the process config.
type AuthConfig struct {
	StageKey   string
	SigningKey []byte
	SessionTTL time.Duration
	BcryptCost int
}

// SessionMeta describes the client a session is issued to.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// SessionClaims is the payload of the session cookie. The token ID is the
// session row's primary key.
type SessionClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	Authenticate(ctx context.Context, req models.LoginRequest) (*models.Admin, error)
	IssueSession(ctx context.Context, admin *models.Admin, meta SessionMeta) (*models.IssuedSession, error)
	ResolveSession(ctx context.Context, token string) (*models.Admin, *models.Session, error)
	RevokeSession(ctx context.Context, token string) error
	GetAdminByID(ctx context.Context, id uint) (*models.Admin, error)
}

type authService struct {
	adminRepo   repositories.AdminRepository
	sessionRepo repositories.SessionRepository
	cfg         AuthConfig
	now         func() time.Time
}

func NewAuthService(adminRepo repositories.AdminRepository, sessionRepo repositories.SessionRepository, cfg AuthConfig) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	return &authService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Authenticate checks a stage key and admin credentials. The first successful
// login for a stage key provisions the admin with the given credentials;
// later logins must match them.
func (s *authService) Authenticate(ctx context.Context, req models.LoginRequest) (*models.Admin, error) {
	ctx, span := tracing.Start(ctx, "auth.Authenticate")
	defer span.End()

	admin, err := s.authenticate(ctx, req)
	switch {
	case err == nil:
		metrics.AuthAttempts.WithLabelValues("success").Inc()
		span.SetAttributes(attribute.Int("admin.id", int(admin.ID)))
	case errors.Is(err, ErrInvalidCredentials):
		metrics.AuthAttempts.WithLabelValues("rejected").Inc()
	default:
		metrics.AuthAttempts.WithLabelValues("error").Inc()
		tracing.RecordError(span, err)
	}
	return admin, err
}

func (s *authService) authenticate(ctx context.Context, req models.LoginRequest) (*models.Admin, error) {
	if !s.stageKeyMatches(req.StageKey) {
		return nil, ErrInvalidCredentials
	}
	// bcrypt rejects input longer than 72 bytes.
	if len(req.Password) > maxPasswordBytes {
		return nil, &models.ErrorValidation{Message: "Password must be at most 72 bytes"}
	}

	admin, err := s.adminRepo.GetByStageKey(ctx, s.cfg.StageKey)
	if err == nil {
		return s.checkPassword(admin, req)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError("failed to load admin", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, models.NewInternalError("failed to hash password", err)
	}

	candidate := &models.Admin{
		Username: req.Username,
		Password: string(hashed),
		StageKey: s.cfg.StageKey,
	}
	created, err := s.adminRepo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return nil, models.NewInternalError("failed to provision admin", err)
	}
	if created {
		slog.InfoContext(ctx, "admin provisioned", slog.Uint64("admin_id", uint64(candidate.ID)))
		return candidate, nil
	}

	// Another login provisioned the admin first; its credentials win.
	admin, err = s.adminRepo.GetByStageKey(ctx, s.cfg.StageKey)
	if err != nil {
		return nil, models.NewInternalError("failed to load admin", err)
	}
	return s.checkPassword(admin, req)
}

// checkPassword verifies req against an existing admin. Only the password is
// compared; the username is fixed when the admin is provisioned.
func (s *authService) checkPassword(admin *models.Admin, req models.LoginRequest) (*models.Admin, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}

func (s *authService) stageKeyMatches(candidate string) bool {
	if s.cfg.StageKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.cfg.StageKey)) == 1
}

func (s *authService) IssueSession(ctx context.Context, admin *models.Admin, meta SessionMeta) (*models.IssuedSession, error) {
	now := s.now()

	if n, err := s.sessionRepo.DeleteExpired(ctx, now); err != nil {
		slog.WarnContext(ctx, "failed to prune sessions", slog.String("error", err.Error()))
	} else if n > 0 {
		slog.DebugContext(ctx, "pruned sessions", slog.Int64("count", n))
	}

	session := &models.Session{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, models.NewInternalError("failed to create session", err)
	}

	token, err := s.signToken(session, now)
	if err != nil {
		return nil, models.NewInternalError("failed to sign session", err)
	}

	return &models.IssuedSession{Session: session, Token: token}, nil
}

// ResolveSession returns the admin and session a cookie token refers to. The
// session must be live and its admin must belong to the configured stage key,
// so rotating STAGE_KEY logs every admin out.
func (s *authService) ResolveSession(ctx context.Context, token string) (*models.Admin, *models.Session, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, nil, errInvalidSession
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errInvalidSession
		}
		return nil, nil, models.NewInternalError("failed to load session", err)
	}
	if !session.Active(s.now()) || claims.Subject != fmt.Sprint(session.AdminID) {
		return nil, nil, errInvalidSession
	}

	admin, err := s.adminRepo.GetByID(ctx, session.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errInvalidSession
		}
		return nil, nil, models.NewInternalError("failed to load admin", err)
	}
	if !s.stageKeyMatches(admin.StageKey) {
		return nil, nil, errInvalidSession
	}

	return admin, session, nil
}

// RevokeSession ends the session a token refers to. Unparseable tokens are
// ignored so logout always succeeds.
func (s *authService) RevokeSession(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil
	}
	if err := s.sessionRepo.Revoke(ctx, claims.ID, s.now()); err != nil {
		return models.NewInternalError("failed to revoke session", err)
	}
	return nil
}

func (s *authService) GetAdminByID(ctx context.Context, id uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.ErrorNotFound{Message: "Admin not found"}
		}
		return nil, models.NewInternalError("failed to load admin", err)
	}
	return admin, nil
}

func (s *authService) signToken(session *models.Session, now time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   fmt.Sprint(session.AdminID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.SigningKey)
}

func (s *authService) parseToken(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, errInvalidSession
	}

	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.cfg.SigningKey, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, errInvalidSession
	}
	return claims, nil
}
