package http

import (
	"errors"
	"log/slog"
	"net/http"

	"blogjobs/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// AbuseCounterMiddleware counts every error response per client IP and
// refuses requests from an IP once its count reaches threshold. The
// EverydayJob prunes IPs that stayed below the threshold, so a blocked IP
// stays blocked until the process restarts. A threshold below 1 disables
// blocking.
func AbuseCounterMiddleware(counter ports.AbuseCounter, threshold int64, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if threshold > 0 {
				ip := c.RealIP()
				if n := counter.Count(ip); n >= threshold {
					logger.Debug("request refused", "ip", ip, "count", n)
					return c.JSON(http.StatusTooManyRequests, Error{
						Code:    http.StatusTooManyRequests,
						Message: "Too many failed requests",
					})
				}
			}

			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			if status >= http.StatusBadRequest {
				ip := c.RealIP()
				n := counter.Increment(ip)
				logger.Debug("request error counted", "ip", ip, "status", status, "count", n)
			}
			return err
		}
	}
}
