package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/ledgerdash/internal/usecase"
)

const (
	// SessionCookieName is the cookie carrying the session ID.
	SessionCookieName = "ledgerdash_session"
	// SessionHeader overrides the cookie for API clients.
	SessionHeader = "X-Session-ID"

	maxSessionIDLength = 64
)

type sessionKey struct{}

// SessionMiddleware attaches a session ID to every request, issuing a new
// one when the client sent none or a malformed one.
type SessionMiddleware struct {
	ids    usecase.IDGenerator
	ttl    time.Duration
	secure bool
}

// NewSessionMiddleware creates a new SessionMiddleware.
func NewSessionMiddleware(ids usecase.IDGenerator, ttl time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{ids: ids, ttl: ttl, secure: secure}
}

// Wrap wraps an http.Handler with session resolution.
func (m *SessionMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if id == "" {
			if c, err := r.Cookie(SessionCookieName); err == nil {
				id = c.Value
			}
		}

		if !validSessionID(id) {
			id = m.ids.Generate()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(m.ttl.Seconds()),
				HttpOnly: true,
				Secure:   m.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(SessionHeader, id)

		next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
	})
}

// WithSessionID returns a copy of ctx carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFromContext returns the session ID set by SessionMiddleware.
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

func validSessionID(id string) bool {
	if id == "" || len(id) > maxSessionIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
