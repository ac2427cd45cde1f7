// Package middleware contains HTTP middlewares for delivery.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs each request once it completes. Webhook deliveries
// carry Bitbucket's X-Event-Key header; when present it is attached so
// a delivery can be correlated with the pipeline logs downstream.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		fields := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", requestID(c),
		}
		if key := c.Get("X-Event-Key"); key != "" {
			fields = append(fields, "event_key", key)
		}

		if status >= fiber.StatusInternalServerError {
			log.Warnw("request failed", fields...)
		} else {
			log.Infow("request handled", fields...)
		}
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
