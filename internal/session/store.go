package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"github.com/AdrienBoutique/LeRegardDeManon-sub001/internal/api"
	"github.com/AdrienBoutique/LeRegardDeManon-sub001/pkg/logging"
)

// Fixed storage keys, mirroring the browser local-storage constants the
// back-office uses.
const (
	tokenKey = "leregard:auth:token"
	userKey  = "leregard:auth:user"
)

var (
	// ErrNoSession means no token is cached: the user must log in.
	ErrNoSession = errors.New("session: not logged in")
	// ErrExpired means the cached token's exp claim has passed; the session
	// was cleared.
	ErrExpired = errors.New("session: token expired")
)

// Store caches the login token and the authenticated user. It implements
// api.TokenSource so gateways pick the token up transparently.
type Store struct {
	rdb    *redis.Client
	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger
}

// NewStore constructs a session store. ttl bounds how long a session
// survives without re-login even if the token itself lives longer.
func NewStore(rdb *redis.Client, ttl time.Duration, logger *logging.Logger) *Store {
	if rdb == nil {
		panic("session: redis client required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{rdb: rdb, ttl: ttl, now: time.Now, logger: logger.Component("session")}
}

// Save stores the token and user after a successful login.
func (s *Store) Save(ctx context.Context, token string, user api.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: marshal user: %w", err)
	}
	if err := s.rdb.Set(ctx, tokenKey, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: store token: %w", err)
	}
	if err := s.rdb.Set(ctx, userKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: store user: %w", err)
	}
	return nil
}

// Token returns the cached token, clearing the session and failing when the
// token's exp claim has passed. Satisfies api.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("session: read token: %w", err)
	}
	if expired(token, s.now()) {
		if err := s.Clear(ctx); err != nil {
			s.logger.Warn("failed to clear expired session", "error", err)
		}
		return "", ErrExpired
	}
	return token, nil
}

// User returns the cached account profile.
func (s *Store) User(ctx context.Context) (*api.User, error) {
	raw, err := s.rdb.Get(ctx, userKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("session: read user: %w", err)
	}
	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("session: decode user: %w", err)
	}
	return &user, nil
}

// Clear wipes the session (logout).
func (s *Store) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, tokenKey, userKey).Err(); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// expired checks the token's exp claim without verifying the signature: the
// backend is the verifier, this is only a local freshness check to avoid
// sending dead tokens.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens carry no readable expiry; let the backend decide.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
