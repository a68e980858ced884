package auth

import (
	"context"
	"net/http"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "quill_session"

// contextKey is the context key type for auth values.
type contextKey string

// UserIDKey is the context key under which the authenticated user's ID
// is stored.
const UserIDKey = contextKey("userID")

// SessionResolver resolves a session token to the owning user's ID.
type SessionResolver interface {
	Resolve(token string) (string, bool)
}

// RequireAuth gates protected routes: requests whose session cookie
// resolves to a user proceed with the user ID in context, everything
// else is redirected to the login page.
func RequireAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			userID, ok := sessions.Resolve(token)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the session token from the request cookie,
// or returns "" when absent.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// UserIDFromContext returns the authenticated user's ID set by
// RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}
