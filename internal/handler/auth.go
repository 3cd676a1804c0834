package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"github.com/sakif/contributor-cards/internal/auth"
	"github.com/sakif/contributor-cards/internal/service"
)

// stateCookieName holds the CSRF nonce between the login redirect and the
// provider callback.
const stateCookieName = "oauth_state"

// AuthHandler drives the OAuth login flow for every configured provider
// and manages the session credential cookie.
type AuthHandler struct {
	providers      map[string]auth.Provider // keyed by URL segment: "github", "ohmygpt"
	authService    *service.AuthService
	frontendOrigin string // where the browser lands after login
	secureCookies  bool
	logger         *slog.Logger
}

// NewAuthHandler creates an AuthHandler. providers maps the {provider}
// path segment to its strategy; an unknown segment 404s.
func NewAuthHandler(
	providers map[string]auth.Provider,
	authService *service.AuthService,
	frontendOrigin string,
	secureCookies bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		providers:      providers,
		authService:    authService,
		frontendOrigin: frontendOrigin,
		secureCookies:  secureCookies,
		logger:         logger,
	}
}

// provider resolves the {provider} URL parameter, or writes a 404.
func (h *AuthHandler) provider(w http.ResponseWriter, r *http.Request) (auth.Provider, bool) {
	name := chi.URLParam(r, "provider")
	p, ok := h.providers[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "unknown OAuth provider " + name,
		})
		return nil, false
	}
	return p, true
}

// HandleLogin starts the OAuth flow.
//
// HTTP: GET /auth/{provider}
//
// A fresh random nonce goes into a short-lived HttpOnly cookie and rides
// along to the provider as the state parameter. The callback accepts only
// a state matching this cookie, which binds the authorization request to
// this browser session.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // long enough to approve, short enough to limit exposure
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow.
//
// HTTP: GET /auth/{provider}/callback?code=xxx&state=yyy
//
// Order matters: the CSRF state is checked before anything touches the
// provider or the database, so a forged callback performs no user upsert.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.provider(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()

	// --- Step 1: CSRF state ---
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || query.Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback: state mismatch",
			slog.String("platform", string(provider.Platform())),
		)
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "CSRF token mismatch",
		})
		return
	}

	// The nonce is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// --- Step 2: provider-reported errors (user denied, etc.) ---
	if errParam := query.Get("error"); errParam != "" {
		h.logger.Error("oauth callback: provider returned error",
			slog.String("platform", string(provider.Platform())),
			slog.String("error", errParam),
			slog.String("description", query.Get("error_description")),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "OAuth authorization failed",
		})
		return
	}

	code := query.Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "missing OAuth code",
		})
		return
	}

	// --- Step 3: exchange, resolve user, issue credential ---
	user, sessionToken, err := h.authService.CompleteLogin(r.Context(), provider, code)
	if err != nil {
		h.logger.Error("oauth callback: login failed",
			slog.String("platform", string(provider.Platform())),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "authentication failed",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    sessionToken,
		Path:     "/",
		MaxAge:   int(auth.TokenDuration / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Debug("session issued", slog.String("uid", user.UID))

	// --- Step 4: back to the app ---
	http.Redirect(w, r, h.frontendOrigin, http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
//
// HTTP: POST /logout
//
// The JWT itself stays valid until expiry — stateless logout just removes
// the browser's copy.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleUser returns the caller's public profile (no access token).
//
// HTTP: GET /user (auth required)
func (h *AuthHandler) HandleUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		// Unreachable behind RequireAuth, but don't depend on wiring.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "authentication required",
		})
		return
	}

	profile, err := h.authService.PublicProfile(r.Context(), uid)
	if err != nil {
		h.logger.Error("failed to load profile", slog.String("uid", uid), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleCheck is the credential liveness probe.
//
// HTTP: GET /auth/check (auth required — reaching here means the
// credential validated)
func (h *AuthHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
