package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/http/server"
)

// NewErrorHandlerMW renders errors returned by handlers as JSON responses.
// When hideDetails is false the error trace and details are included.
func NewErrorHandlerMW(hideDetails bool) server.Middleware {
	return server.Middleware{
		Priority: PriorityErrorHandler,
		Handler: func(c *fiber.Ctx) error {
			err := c.Next()
			if err == nil {
				return nil
			}

			// already rendered further down the chain
			if c.Response() != nil && c.Response().StatusCode() >= fiber.StatusBadRequest {
				return err
			}

			return server.WriteErrorResponse(c, err, hideDetails)
		},
	}
}
