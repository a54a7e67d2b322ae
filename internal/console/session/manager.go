package session

import (
	"context"
	"net/http"
	"time"

	"github.com/avvvet/nobleco-console/internal/console/models"
	"github.com/go-chi/jwtauth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// CookieName is the cookie jwtauth.Verifier reads.
const CookieName = "jwt"

// Manager issues the console session cookie (a JWT carrying the session
// id) and resolves it back to a Session.
type Manager struct {
	backend Backend
	auth    *jwtauth.JWTAuth
	ttl     time.Duration
	secure  bool
}

func NewManager(backend Backend, auth *jwtauth.JWTAuth, ttl time.Duration, secure bool) *Manager {
	return &Manager{backend: backend, auth: auth, ttl: ttl, secure: secure}
}

func (m *Manager) Auth() *jwtauth.JWTAuth {
	return m.auth
}

// Open returns the session for sid without touching the cookie.
func (m *Manager) Open(sid string) *Session {
	return New(sid, Scoped(m.backend, sid))
}

// Start creates a session for a successful platform login and sets the
// cookie. The cookie never outlives the platform token.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, token string, user *models.User) (*Session, error) {
	sid := uuid.NewString()
	s := m.Open(sid)
	if err := s.Login(ctx, token, user); err != nil {
		return nil, err
	}

	expires := time.Now().Add(m.ttl)
	if exp, ok := TokenExpiry(token); ok && exp.Before(expires) {
		expires = exp
	}

	_, signed, err := m.auth.Encode(map[string]interface{}{
		"sid": sid,
		"exp": expires.Unix(),
	})
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// End clears the stored session and expires the cookie.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, s *Session) {
	if s != nil {
		if err := s.Logout(ctx); err != nil {
			log.Errorf("session %s logout: %v", s.ID, err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware puts the session named by a verified token into the request
// context. Requests without a valid token continue anonymous; use it after
// jwtauth.Verifier.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err == nil && token != nil {
			if sid, ok := claims["sid"].(string); ok && sid != "" {
				r = r.WithContext(NewContext(r.Context(), m.Open(sid)))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// TokenExpiry reads the exp claim of the platform token without verifying
// it; the console does not hold the platform signing key.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
