package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// CurrentUser returns the authenticated user id, or nil for anonymous
// requests.
func CurrentUser(c echo.Context) *uint64 {
	if v, ok := c.Get(ctxUserID).(uint64); ok && v != 0 {
		return &v
	}
	return nil
}

// CurrentRole returns the authenticated role, or "" for anonymous requests.
func CurrentRole(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// userKey identifies the caller for rate limit keys: the user id, or
// "anon".
func userKey(c echo.Context) string {
	if id := CurrentUser(c); id != nil {
		return strconv.FormatUint(*id, 10)
	}
	return "anon"
}
