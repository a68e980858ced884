package handlers

import (
	"errors"
	"net/http"

	"github.com/quillhq/quill-be/internal/auth"
	"github.com/quillhq/quill-be/internal/services"
	"github.com/quillhq/quill-be/internal/session"
	"github.com/rs/zerolog/log"
)

// invalidCredentialsMessage is the single string returned for every
// login failure, whether the user is missing or the password is wrong.
const invalidCredentialsMessage = "invalid username or password"

// AuthHandler orchestrates registration, login and logout.
type AuthHandler struct {
	users         services.UserServiceProvider
	sessions      *session.Manager
	events        services.EventServiceProvider
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, sessions *session.Manager, events services.EventServiceProvider, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		users:         users,
		sessions:      sessions,
		events:        events,
		secureCookies: secureCookies,
	}
}

// registrationContext is returned when registration fails, echoing the
// submitted username so a client can re-render its form.
type registrationContext struct {
	Error    string `json:"error"`
	Username string `json:"username"`
}

// loginContext is returned when login fails.
type loginContext struct {
	Error string `json:"error"`
}

// Register handles new user registration. On success the client is
// redirected to the login page; registration does not log the user in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, registrationContext{Error: "malformed request body"})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	_, err := h.users.CreateUser(username, password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			writeJSON(w, http.StatusBadRequest, registrationContext{
				Error:    "username and password must not be empty",
				Username: username,
			})
		case errors.Is(err, services.ErrDuplicateUsername):
			writeJSON(w, http.StatusConflict, registrationContext{
				Error:    "username taken",
				Username: username,
			})
		default:
			log.Error().Err(err).Str("username", username).Msg("Failed to register user")
			writeJSON(w, http.StatusInternalServerError, registrationContext{
				Error:    "registration failed",
				Username: username,
			})
		}
		return
	}

	log.Info().Str("username", username).Msg("User registered")
	h.events.CreateEvent("user.register", "info", "User '"+username+"' registered", nil)

	http.Redirect(w, r, "/login", http.StatusFound)
}

// Login authenticates the user and opens a session. All credential
// failures produce the same generic context.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, loginContext{Error: "malformed request body"})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := h.users.AuthenticateUser(username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("username", username).Msg("Failed authentication attempt")
			writeJSON(w, http.StatusUnauthorized, loginContext{Error: invalidCredentialsMessage})
			return
		}
		log.Error().Err(err).Str("username", username).Msg("Login failed internally")
		writeJSON(w, http.StatusInternalServerError, loginContext{Error: "login failed"})
		return
	}

	token, err := h.sessions.Create(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		writeJSON(w, http.StatusInternalServerError, loginContext{Error: "login failed"})
		return
	}

	h.setSessionCookie(w, token)
	h.events.CreateEvent("user.login", "info", "User '"+user.Username+"' logged in", nil)

	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the current session and clears the cookie. It
// redirects even when there was no session to destroy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if err := h.sessions.Destroy(token); err != nil {
		log.Warn().Err(err).Msg("Failed to destroy session")
	}

	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

// GetMe returns the currently authenticated user.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, loginContext{Error: "not authenticated"})
		return
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Session user not found")
		writeJSON(w, http.StatusNotFound, loginContext{Error: "user not found"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl := h.sessions.TTL(); ttl > 0 {
		cookie.MaxAge = int(ttl.Seconds())
	}
	http.SetCookie(w, cookie)
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
