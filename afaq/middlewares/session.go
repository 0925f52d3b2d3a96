package middlewares

import (
	"context"
	"errors"
	"net/http"
	"time"

	"afaq/afaq/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// SessionCookie carries the guest session as a signed token.
const SessionCookie = "guest_uuid"

var ErrInvalidSession = errors.New("invalid session token")

type SessionManager struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

func NewSessionManager(cfg config.Config) *SessionManager {
	return &SessionManager{
		secret: []byte(cfg.SessionSecret),
		maxAge: cfg.SessionMaxAge,
		secure: cfg.CookieSecure,
		now:    time.Now,
	}
}

func (m *SessionManager) Sign(sessionID string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": sessionID,
		"iat":        now.Unix(),
		"exp":        now.Add(m.maxAge).Unix(),
	})
	return token.SignedString(m.secret)
}

func (m *SessionManager) Parse(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", ErrInvalidSession
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSession
	}
	sessionID, ok := claims["session_id"].(string)
	if !ok || sessionID == "" {
		return "", ErrInvalidSession
	}
	return sessionID, nil
}

// SetCookie (re)issues the session cookie with a full max age.
func (m *SessionManager) SetCookie(w http.ResponseWriter, sessionID string) error {
	token, err := m.Sign(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Middleware puts the session id of a valid cookie into the request context.
// Requests without one pass through untouched.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookie); err == nil {
			if sessionID, err := m.Parse(c.Value); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), SessionIDKey, sessionID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Ensure returns the request's session id, minting a new one when absent,
// and refreshes the cookie either way.
func (m *SessionManager) Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	sessionID, ok := SessionID(r.Context())
	if !ok {
		sessionID = uuid.New().String()
	}
	if err := m.SetCookie(w, sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

func SessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}
