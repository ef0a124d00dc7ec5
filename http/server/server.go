// Package server provides an HTTP server based on Fiber with prioritized
// middleware and errx based error responses.
package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// HTTPServer is a Fiber application bound to a listen address.
type HTTPServer struct {
	cfg    Config
	router *fiber.App
}

// NewHTTPServer creates an HTTPServer. Middlewares are applied in order of
// descending priority.
func NewHTTPServer(cfg Config, middlewares []Middleware) *HTTPServer {
	router := fiber.New(fiber.Config{
		ReadTimeout:              cfg.ReadTimeout,
		WriteTimeout:             cfg.WriteTimeout,
		IdleTimeout:              cfg.IdleTimeout,
		ErrorHandler:             customErrorHandler(cfg.HideErrorDetails),
		DisableStartupMessage:    true,
		Immutable:                true,
		BodyLimit:                cfg.BodyLimit,
		EnableSplittingOnParsers: true,
	})

	applyMiddlewares(router, middlewares)

	return &HTTPServer{cfg: cfg, router: router}
}

// RegisterRouter registers routes through registerFunc.
func (s *HTTPServer) RegisterRouter(registerFunc func(r fiber.Router)) {
	registerFunc(s.router)
}

// App returns the underlying Fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.router
}

// Start listens on the configured address until Stop is called.
func (s *HTTPServer) Start() error {
	return s.router.Listen(s.cfg.Address())
}

// Stop stops accepting connections and waits for in-flight requests until
// ctx is done.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.router.ShutdownWithContext(ctx)
}
