package authsvc

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/entrega-app/entrega/internal/dal/interfaces/isessionrepo"
	"github.com/entrega-app/entrega/internal/dal/interfaces/iuserrepo"
	sessionrepo "github.com/entrega-app/entrega/internal/dal/repositories/session/redis"
	userrepo "github.com/entrega-app/entrega/internal/dal/repositories/user/postgres"
	"github.com/entrega-app/entrega/internal/service/models/role"
	"github.com/entrega-app/entrega/internal/service/models/session"
	"github.com/entrega-app/entrega/internal/service/models/user"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("malformed email address")
	ErrShortPassword      = errors.New("password is too short")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// claims is the JWT payload. The session is keyed by the token's JTI; the
// identity held in Redis stays authoritative so logout invalidates tokens
// before they expire.
type claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// AuthService owns registration, login and session resolution. At most one
// identity is active per token; the identity is immutable for the session's
// lifetime.
type AuthService struct {
	users    iuserrepo.IUserRepository
	sessions isessionrepo.ISessionRepository
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{
		tokenTTL: 24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.users == nil || s.sessions == nil {
		panic("authsvc: storage is not configured")
	}
	if len(s.secret) == 0 {
		panic("authsvc: signing secret is not configured")
	}

	return s
}

// WithUserRepository sets the user repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserRepository(users iuserrepo.IUserRepository) option {
	return func(s *AuthService) {
		s.users = users
	}
}

// WithSessionRepository sets the session repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSessionRepository(sessions isessionrepo.ISessionRepository) option {
	return func(s *AuthService) {
		s.sessions = sessions
	}
}

// WithSigningSecret sets the HMAC secret for session tokens.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSigningSecret(secret []byte) option {
	return func(s *AuthService) {
		s.secret = secret
	}
}

// WithTokenTTL overrides the session lifetime.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithTokenTTL(ttl time.Duration) option {
	return func(s *AuthService) {
		s.tokenTTL = ttl
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *AuthService) {
		s.now = now
	}
}

// Register creates a new account and opens a session for it.
func (s *AuthService) Register(
	ctx context.Context,
	displayName, email, password string,
	r role.Role,
) (*session.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrShortPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	u, err := s.users.Insert(ctx, user.User{
		DisplayName: displayName,
		Email:       email,
		Role:        r,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, string(hash))
	if errors.Is(err, userrepo.ErrEmailTaken) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, u)
}

// Login verifies the credential and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, hash, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, u)
}

// Logout clears the session unconditionally. Unknown or malformed tokens are
// not an error; there is nothing left to clear either way.
func (s *AuthService) Logout(ctx context.Context, token string) {
	tokenID, err := s.parseTokenID(token)
	if err != nil {
		return
	}

	_ = s.sessions.Delete(ctx, tokenID)
}

// Identity resolves a bearer token to the active identity. The token must
// both verify and still have its session slots in the store.
func (s *AuthService) Identity(ctx context.Context, token string) (user.User, error) {
	tokenID, err := s.parseTokenID(token)
	if err != nil {
		return user.User{}, ErrInvalidSession
	}

	u, err := s.sessions.Get(ctx, tokenID)
	if errors.Is(err, sessionrepo.ErrSessionNotFound) {
		return user.User{}, ErrInvalidSession
	}
	if err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (s *AuthService) openSession(ctx context.Context, u user.User) (*session.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: u.ID,
		Role:   u.Role.String(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := s.sessions.Store(ctx, tokenID, u, s.tokenTTL); err != nil {
		return nil, err
	}

	return &session.Session{
		Token:     signed,
		User:      u,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *AuthService) parseTokenID(token string) (string, error) {
	parsed := &claims{}
	_, err := jwt.ParseWithClaims(token, parsed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", errors.New("token has no id")
	}

	return parsed.ID, nil
}
