package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"auratrack_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength is the minimum number of characters a password must have.
	minPasswordLength = 8

	// maxPasswordBytes is the longest input bcrypt accepts.
	maxPasswordBytes = 72

	// refreshTokenBytes is the entropy of a refresh token (hex encoded to 64 characters).
	refreshTokenBytes = 32

	// DefaultSessionTTL is the lifetime of a refresh token.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// DefaultMaxSessions is the number of concurrent sessions kept per user.
	DefaultMaxSessions = 5

	// dummyHash keeps login timing constant when the user does not exist.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user. It returns ErrUsernameTaken if the username exists.
	Create(ctx context.Context, user *entity.User) error

	// FindByUsername returns the matching user, or nil and no error when none exists.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByID returns the user with the given id or ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// JWTGenerator issues signed access tokens.
type JWTGenerator interface {
	GenerateToken(userID, username string) (string, error)
	Expiration() time.Duration
}

// SessionMeta describes the client a session is issued to.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// Tokens is the result of a successful login or refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // access token lifetime in seconds
}

// Config tunes session issuance.
type Config struct {
	SessionTTL  time.Duration
	MaxSessions int
}

// authUsecase implements the authentication business logic.
type authUsecase struct {
	users        UserRepository
	sessions     SessionRepository
	jwtGenerator JWTGenerator
	sessionTTL   time.Duration
	maxSessions  int
	now          func() time.Time
	newToken     func() (string, error)
}

// NewAuthUsecase creates a new instance of authUsecase.
// Zero values in cfg fall back to DefaultSessionTTL and DefaultMaxSessions.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwtGenerator JWTGenerator, cfg Config) *authUsecase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &authUsecase{
		users:        users,
		sessions:     sessions,
		jwtGenerator: jwtGenerator,
		sessionTTL:   cfg.SessionTTL,
		maxSessions:  cfg.MaxSessions,
		now:          time.Now,
		newToken:     newRefreshToken,
	}
}

// validateCredentials checks the username and password shape before hashing.
func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes long", ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

// GetUser returns the user record, or nil when the username is unknown.
func (u *authUsecase) GetUser(ctx context.Context, username string) (*entity.User, error) {
	return u.users.FindByUsername(ctx, username)
}

// VerifyPassword reports whether raw matches hash. A malformed hash is a mismatch.
func (u *authUsecase) VerifyPassword(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// CreateUser persists a user with an already hashed password.
func (u *authUsecase) CreateUser(ctx context.Context, username, passwordHash string) (*entity.User, error) {
	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    u.now().UTC().Truncate(time.Millisecond),
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup registers a new user with a bcrypt-hashed password.
func (u *authUsecase) Signup(ctx context.Context, username, password string) (*entity.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return u.CreateUser(ctx, username, string(hashed))
}

// Login authenticates the user and opens a new session.
// A bcrypt comparison runs even when the user does not exist, and every
// credential failure is reported as ErrInvalidCredentials.
func (u *authUsecase) Login(ctx context.Context, username, password string, meta SessionMeta) (*Tokens, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.PasswordHash
	}
	ok := u.VerifyPassword(password, passwordHash)
	if user == nil || !ok {
		return nil, ErrInvalidCredentials
	}

	return u.issue(ctx, user.ID, user.Username, meta)
}

// Refresh validates a refresh token, revokes it and issues a new token pair.
func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta SessionMeta) (*Tokens, error) {
	session, err := u.activeSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke session: %w", err)
	}
	return u.issue(ctx, session.UserID, session.Username, meta)
}

// Logout revokes the session identified by the refresh token.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	if !validRefreshToken(refreshToken) {
		return ErrInvalidRefreshToken
	}
	return u.sessions.Revoke(ctx, refreshToken)
}

// Session returns the user behind a valid access token subject.
func (u *authUsecase) Session(ctx context.Context, userID string) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

func (u *authUsecase) activeSession(ctx context.Context, refreshToken string) (*entity.Session, error) {
	if !validRefreshToken(refreshToken) {
		return nil, ErrInvalidRefreshToken
	}
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if !u.now().Before(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// issue creates a session for the user, dropping the oldest ones beyond maxSessions.
func (u *authUsecase) issue(ctx context.Context, userID, username string, meta SessionMeta) (*Tokens, error) {
	count, err := u.sessions.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}
	for ; count >= int64(u.maxSessions); count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to evict session: %w", err)
		}
	}

	refresh, err := u.newToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	now := u.now().UTC()
	session := &entity.Session{
		ID:        refresh,
		UserID:    userID,
		Username:  username,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	access, err := u.jwtGenerator.GenerateToken(userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(u.jwtGenerator.Expiration() / time.Second),
	}, nil
}

func newRefreshToken() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func validRefreshToken(s string) bool {
	if len(s) != refreshTokenBytes*2 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

