package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/http/server"
)

// NewTimeoutMW bounds the request context by duration. Handlers and stores
// that honor context cancellation give up once it expires.
func NewTimeoutMW(duration time.Duration) server.Middleware {
	return server.Middleware{
		Priority: PriorityTimeout,
		Handler: func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), duration)
			defer cancel()

			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
