// Package middleware provides shared fiber middleware
package middleware

import (
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/adpulse/adpulse/internal/logger"
)

// Logger returns a middleware that logs HTTP requests
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue chain
		err := c.Next()

		logger.WithFields(map[string]interface{}{
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
			"method":  c.Method(),
			"path":    c.Path(),
			"handler": c.Route().Name,
		}).Info("request")

		return err
	}
}
