package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/AdamBejaoui/project-frontend/internal/infrastructure/config"
)

// TokenType identifies what a signed token grants
type TokenType string

const (
	// TokenTypeSession marks anonymous storefront session tokens
	TokenTypeSession TokenType = "session"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSessionID = errors.New("missing session_id in claims")
)

// SessionClaims represents the claims carried by a storefront session token
type SessionClaims struct {
	jwt.RegisteredClaims
	SessionID string    `json:"session_id"`
	TokenType TokenType `json:"token_type"`
}

// IssuedSession is a freshly minted session token with its metadata
type IssuedSession struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService mints and validates anonymous session tokens.
// Sessions carry no identity; they only bind a browser to its
// server-side cart and checkout state.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewSessionService creates a session token service. An empty secret gets an
// ephemeral random one, which invalidates outstanding sessions on restart;
// config validation rejects that in production.
func NewSessionService(cfg config.SessionConfig) *SessionService {
	secret := []byte(cfg.Secret)
	if cfg.Secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err == nil {
			secret = []byte(hex.EncodeToString(buf))
		}
	}

	return &SessionService{
		secret: secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
	}
}

// Issue mints a new anonymous session token
func (s *SessionService) Issue() (*IssuedSession, error) {
	now := time.Now()
	sessionID := uuid.New().String()

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   sessionID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
		TokenType: TokenTypeSession,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &IssuedSession{
		Token:     signed,
		SessionID: sessionID,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

// Validate parses a session token and returns its claims
func (s *SessionService) Validate(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.TokenType != TokenTypeSession {
		return nil, ErrInvalidTokenType
	}
	if claims.SessionID == "" {
		return nil, ErrMissingSessionID
	}

	return claims, nil
}

// GetSessionTTL returns the configured session lifetime
func (s *SessionService) GetSessionTTL() time.Duration {
	return s.ttl
}

// GetExpiresAtTime returns the token's expiration time as time.Time
func (c *SessionClaims) GetExpiresAtTime() time.Time {
	if c.ExpiresAt != nil {
		return c.ExpiresAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *SessionClaims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}
