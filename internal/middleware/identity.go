package middleware

import "github.com/labstack/echo/v4"

// AdminIDFrom returns the admin id stored by JWTAuth.
func AdminIDFrom(c echo.Context) (uint64, bool) {
    id, ok := c.Get(ctxAdminID).(uint64)
    return id, ok && id != 0
}

// UsernameFrom returns the admin username stored by JWTAuth, or "".
func UsernameFrom(c echo.Context) string {
    s, _ := c.Get(ctxUsername).(string)
    return s
}
