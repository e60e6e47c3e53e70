// Package webapi serves the read-only HTTP surface:
// - servicerequest: service request reports and listings
package webapi

import (
	"errors"
	"strings"
	"time"

	"github.com/amirasaad/ledgersync/pkg/app"
	"github.com/amirasaad/ledgersync/webapi/common"
	servicerequestweb "github.com/amirasaad/ledgersync/webapi/servicerequest"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupApp builds the Fiber app over the application services.
func SetupApp(a *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	})

	maxRequests, window := 100, time.Minute
	if a.Config != nil && a.Config.RateLimit != nil {
		maxRequests, window = a.Config.RateLimit.MaxRequests, a.Config.RateLimit.Window
	}
	fiberApp.Use(limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				first, _, _ := strings.Cut(forwardedFor, ",")
				return strings.TrimSpace(first)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Ledger reconciliation API is running! 🚀")
	})
	fiberApp.Get("/health", func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "ok", nil)
	})

	servicerequestweb.Routes(fiberApp, a.ServiceRequests)
	return fiberApp
}
