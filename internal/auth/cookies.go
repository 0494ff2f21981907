package auth

import (
	"net/http"
	"strings"
)

// SetSessionCookie writes the token to its cookie.
func SetSessionCookie(w http.ResponseWriter, t SessionToken, secure bool) {
	http.SetCookie(w, t.Cookie(secure))
}

// ClearSessionCookies expires the access and refresh token cookies.
func ClearSessionCookies(w http.ResponseWriter) {
	expireCookie(w, AccessTokenCookie)
	expireCookie(w, RefreshTokenCookie)
}

// ClearAllCookies expires the session cookies plus the server identity cookies.
func ClearAllCookies(w http.ResponseWriter) {
	ClearSessionCookies(w)
	expireCookie(w, InstanceIDCookie)
	expireCookie(w, StartTimeCookie)
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ExtractToken returns the access token from the sb-access-token cookie,
// falling back to an "Authorization: Bearer" header. Empty when neither is set.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return BearerToken(r)
}

// BearerToken returns the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
