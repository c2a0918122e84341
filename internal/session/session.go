package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Session scopes one form instance's roster. It is anonymous: the token
// identifies the page lifetime, not a user.
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}

// Claims is the signed session payload.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues and parses HS256 session tokens.
type Manager struct {
	signingKey string
	issuer     string
	ttl        time.Duration
}

// NewManager creates a session manager.
func NewManager(signingKey, issuer string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Manager{signingKey: signingKey, issuer: issuer, ttl: ttl}
}

// TTL returns the session lifetime, which roster backends use as their
// retention window.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue mints a fresh session with a random id.
func (m *Manager) Issue() (Session, error) {
	id := uuid.NewString()
	expires := time.Now().Add(m.ttl)

	claims := Claims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.signingKey))
	if err != nil {
		return Session{}, err
	}
	return Session{ID: id, Token: token, ExpiresAt: expires}, nil
}

// Parse validates a token and returns its claims.
func (m *Manager) Parse(tokenStr string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(m.signingKey), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	if claims.SessionID == "" {
		return Claims{}, errors.New("missing session id")
	}
	return *claims, nil
}
