package util

import (
	"net/http"
	"strings"
)

// SessionCookieName is the cookie carrying the credential token for
// browser clients.
const SessionCookieName = "token"

// TokenFromRequest extracts the bearer credential from the session cookie
// or, failing that, from the Authorization header. Returns "" when neither
// is present; the caller treats that as unauthenticated.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
