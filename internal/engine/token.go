package engine

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signer mints HS256 bearer tokens identifying this client to the engine.
// Claims: id, username, iat, exp.
type Signer struct {
	secret   []byte
	id       string
	username string
	ttl      time.Duration
	now      func() time.Time
}

// NewSigner returns a signer for username with a fresh client id.
// A non-positive ttl defaults to 24h.
func NewSigner(secret, username string, ttl time.Duration) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if username == "" {
		username = "player"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Signer{
		secret:   []byte(secret),
		id:       uuid.NewString(),
		username: username,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// ID is the client id carried in every token.
func (s *Signer) ID() string { return s.id }

// Token signs a new token valid for the configured ttl.
func (s *Signer) Token() (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       s.id,
		"username": s.username,
		"exp":      now.Add(s.ttl).Unix(),
		"iat":      now.Unix(),
	})
	return t.SignedString(s.secret)
}
