// Package carrier handles the two opaque cookie carriers: the session
// token and the workspace selection pointer. The core only defines
// token semantics; this is the transport shim.
package carrier

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// workspacePointerTTL keeps the selection pointer long-lived relative
// to the session; it is re-validated against memberships on every
// resolution anyway.
const workspacePointerTTL = 365 * 24 * time.Hour

func newCookie(name, value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Get reads a cookie value, empty string when absent.
func Get(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSession writes the session cookie with the session's own expiry.
func SetSession(c echo.Context, name, token string, expiresAt time.Time, secure bool) {
	c.SetCookie(newCookie(name, token, expiresAt, secure))
}

// SetWorkspace writes the long-lived workspace selection pointer.
func SetWorkspace(c echo.Context, name, workspaceID string, secure bool) {
	c.SetCookie(newCookie(name, workspaceID, time.Now().Add(workspacePointerTTL), secure))
}

// Clear expires a carrier cookie.
func Clear(c echo.Context, name string, secure bool) {
	c.SetCookie(newCookie(name, "", time.Unix(0, 0), secure))
}
