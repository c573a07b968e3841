package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// Health is the liveness probe used by load balancers.  It returns a plain
// text "ok" with 200 as long as the process serves requests.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Readiness reports whether the backing services answer.  A nil DB means the
// memory store is in use; a nil Redis means caching and rate limiting are
// off, which is degraded but still ready.
type Readiness struct {
    DB    *sql.DB
    Redis *redis.Client
}

func (h *Readiness) Check(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status := http.StatusOK
    body := echo.Map{"database": "memory", "redis": "disabled"}
    if h.DB != nil {
        if err := h.DB.PingContext(ctx); err != nil {
            body["database"] = "down"
            status = http.StatusServiceUnavailable
        } else {
            body["database"] = "up"
        }
    }
    if h.Redis != nil {
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            body["redis"] = "down"
        } else {
            body["redis"] = "up"
        }
    }
    return c.JSON(status, body)
}
