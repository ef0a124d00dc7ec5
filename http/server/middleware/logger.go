package middleware

import (
	"time"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/http/server"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/meta"
)

// NewLoggerMW logs every request: info for 2xx and 3xx, warn for 4xx and
// error for 5xx responses. Errors are logged with their code, type, trace,
// fields and details.
func NewLoggerMW(log logger.Logger) server.Middleware {
	log = log.Named("http.request")

	return server.Middleware{
		Priority: PriorityLogger,
		Handler: func(c *fiber.Ctx) error {
			start := time.Now()

			err := c.Next()

			statusCode := c.Response().StatusCode()
			entry := log.WithContext(c.UserContext()).
				With("http_status_code", statusCode).
				With("http_method", c.Method()).
				With("http_path", c.Path()).
				With("http_route", c.Route().Path).
				With("duration", time.Since(start)).
				With("request_size", c.Request().Header.ContentLength()).
				With("response_size", len(c.Response().Body()))

			if fileID := meta.Find(c.UserContext(), meta.FileID); fileID != "" {
				entry = entry.With(string(meta.FileID), fileID)
			}

			if err != nil {
				e := errx.AsErrorX(err)
				entry = entry.With("error", map[string]any{
					"code":    e.Code(),
					"message": e.Error(),
					"type":    e.Type().String(),
					"trace":   e.Trace(),
					"fields":  e.Fields(),
					"details": e.Details(),
				})
			}

			switch {
			case statusCode >= fiber.StatusInternalServerError:
				entry.Error("request failed")
			case statusCode >= fiber.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request processed successfully")
			}

			return err
		},
	}
}
