package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/complaint-desk/pkg/util/errorutil"
)

// RequestLogger logs every request and feeds the request counters.
// Route templates are used as metric keys so ids do not explode cardinality.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			// not rendered yet; the error middleware sits further out
			status = apperrors.ToDomainError(err).HTTPStatus
		}
		metrics.RecordRequest(RoutePath(c), c.Method(), status, latency)

		logger.Info("http request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

// RoutePath is the matched route template, or the raw path when nothing matched.
func RoutePath(c *fiber.Ctx) string {
	if path := c.Route().Path; path != "" {
		return path
	}
	return c.Path()
}
