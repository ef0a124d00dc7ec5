package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/http/server"
	"github.com/rise-and-shine/filemanager/meta"
	"github.com/rise-and-shine/filemanager/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.23.1"
	"go.opentelemetry.io/otel/trace"
)

// HeaderTraceID is the response header carrying the request's trace id.
const HeaderTraceID = "X-Trace-ID"

// NewTracingMW starts a server span per request, continuing a trace
// propagated in the request headers, and returns its trace id in the
// X-Trace-ID response header.
func NewTracingMW() server.Middleware {
	tracer := otel.Tracer("http-server")

	return server.Middleware{
		Priority: PriorityTracing,
		Handler: func(c *fiber.Ctx) error {
			carrier := propagation.MapCarrier{}
			c.Request().Header.VisitAll(func(key, value []byte) {
				carrier.Set(string(key), string(value))
			})
			ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)

			ctx, span := tracer.Start(ctx, c.Method()+" /", trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			traceID := tracing.GetStartingTraceID(ctx)
			ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{meta.TraceID: traceID})
			c.Set(HeaderTraceID, traceID)
			c.SetUserContext(ctx)

			err := c.Next()

			routePattern := c.Route().Path
			if routePattern != "" && routePattern != "/" {
				span.SetName(fmt.Sprintf("%s %s", c.Method(), routePattern))
			}

			span.SetAttributes(
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.HTTPRouteKey.String(routePattern),
				semconv.URLPathKey.String(c.Path()),
				semconv.HTTPResponseStatusCodeKey.Int(c.Response().StatusCode()),
			)

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}

			return err
		},
	}
}
