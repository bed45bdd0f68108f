package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dualspace/launcher/internal/profile"
)

// ErrInvalidSession is returned for missing, expired or tampered tokens.
var ErrInvalidSession = errors.New("invalid session")

// Session identifies one unlocked conversation with the launcher.
type Session struct {
	ID        string
	Username  string
	Age       int
	Guest     bool
	ExpiresAt time.Time
}

// GuestProfile returns the non-persistent profile of a guest session.
func (s Session) GuestProfile() profile.UserProfile {
	g := profile.Guest()
	if s.Age > 0 {
		g.Age = s.Age
	}
	return g
}

type sessionClaims struct {
	Age   int  `json:"age"`
	Guest bool `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions builds a token issuer.
func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for an unlocked profile.
func (s *Sessions) Issue(p profile.UserProfile) (string, Session, error) {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		Username:  p.Username,
		Age:       p.Age,
		Guest:     p.GuestMode,
		ExpiresAt: now.Add(s.ttl),
	}
	claims := sessionClaims{
		Age:   sess.Age,
		Guest: sess.Guest,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, sess, nil
}

// Parse verifies a token and returns its session.
func (s *Sessions) Parse(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidSession
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return Session{}, ErrInvalidSession
	}
	return Session{
		ID:        claims.ID,
		Username:  claims.Subject,
		Age:       claims.Age,
		Guest:     claims.Guest,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
