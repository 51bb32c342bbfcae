// Package session identifies browsers with a signed cookie and keeps the
// per-mount view state (lesson tracker, demo forms) that belongs to them.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "loginlab_session"
	issuer     = "loginlab"
)

// DefaultLifetime bounds how long a browser session cookie is accepted.
const DefaultLifetime = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// Claims carries the browser session id in the subject.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager issues and verifies browser session cookies.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	secure   bool
	now      func() time.Time
}

// NewManager returns a manager signing with secret. An empty secret gets a
// random one, which invalidates every cookie on restart.
func NewManager(secret string, lifetime time.Duration, secure bool) *Manager {
	key := []byte(secret)
	if len(key) == 0 {
		key = RandomSecret()
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Manager{secret: key, lifetime: lifetime, secure: secure, now: time.Now}
}

// RandomSecret returns 32 random bytes.
func RandomSecret() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("session: read random secret: %v", err))
	}
	return b
}

// Issue signs a token for session id.
func (m *Manager) Issue(id string) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse validates a token and returns its session id.
func (m *Manager) Parse(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Ensure returns the session id from the request cookie, starting a new
// session and setting the cookie when it is missing or invalid.
func (m *Manager) Ensure(w http.ResponseWriter, r *http.Request) (id string, fresh bool, err error) {
	if c, cerr := r.Cookie(CookieName); cerr == nil {
		if sid, perr := m.Parse(c.Value); perr == nil {
			return sid, false, nil
		}
	}

	id = uuid.NewString()
	token, err := m.Issue(id)
	if err != nil {
		return "", false, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
	return id, true, nil
}
