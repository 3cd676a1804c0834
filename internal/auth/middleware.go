package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// SessionCookieName is the cookie carrying the JWT session credential.
const SessionCookieName = "jwt"

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the resolved identity.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth gates protected routes. The credential is accepted from an
// "Authorization: Bearer" header first, then from the session cookie.
//
// Status codes follow the credential's failure mode:
//   - no credential at all        → 401
//   - credential present, invalid → 403 (bad signature, expired, no sub)
//
// On success the resolved uid is stored in the request context; handlers
// read it back with UserIDFromContext. The context value is the only place
// identity lives — there is no request-scoped global.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential, ok := extractCredential(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}

			uid, err := tokens.Validate(credential)
			if err != nil {
				writeAuthError(w, http.StatusForbidden, "forbidden", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext retrieves the authenticated caller's uid.
// Returns ("", false) when the request carried no valid credential.
func UserIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userIDKey).(string)
	return uid, ok && uid != ""
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": message})
}

// extractCredential pulls the raw token out of the request: Bearer header
// takes precedence, then the session cookie.
func extractCredential(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
			return token, true
		}
	}

	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
