package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health answers liveness probes with a plain "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports whether the database answers.  Redis is optional, so its
// state is reported but never fails the probe.
func Ready(db Pinger, rdb *redis.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		out := echo.Map{"database": "ok", "redis": "disabled"}
		status := http.StatusOK
		if db == nil || db.PingContext(ctx) != nil {
			out["database"] = "down"
			status = http.StatusServiceUnavailable
		}
		if rdb != nil {
			out["redis"] = "ok"
			if rdb.Ping(ctx).Err() != nil {
				out["redis"] = "down"
			}
		}
		return c.JSON(status, out)
	}
}
