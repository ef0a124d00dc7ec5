package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/http/server"
	"github.com/rise-and-shine/filemanager/meta"
	"github.com/rise-and-shine/filemanager/tracing"
)

// NewMetaInjectMW stores the request metadata and the service identity in
// the request context so that loggers and error responses can pick them up.
func NewMetaInjectMW(serviceName, serviceVersion string) server.Middleware {
	return server.Middleware{
		Priority: PriorityMetaInject,
		Handler: func(c *fiber.Ctx) error {
			ctx := c.UserContext()

			traceID := meta.Find(ctx, meta.TraceID)
			if traceID == "" {
				traceID = tracing.GetStartingTraceID(ctx)
			}

			ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
				meta.TraceID:        traceID,
				meta.IPAddress:      c.IP(),
				meta.UserAgent:      c.Get(fiber.HeaderUserAgent),
				meta.RemoteAddr:     c.Context().RemoteAddr().String(),
				meta.Referer:        c.Get(fiber.HeaderReferer),
				meta.ServiceName:    serviceName,
				meta.ServiceVersion: serviceVersion,
				meta.AcceptLanguage: c.Get(fiber.HeaderAcceptLanguage),
			})
			c.SetUserContext(ctx)

			return c.Next()
		},
	}
}
