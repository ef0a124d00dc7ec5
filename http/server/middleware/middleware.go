// Package middleware provides the Fiber middlewares used by the HTTP server.
//
// Each middleware carries a priority; higher values run earlier:
//
//   - Recovery (1000): catches panics in the chain
//   - Tracing (900): starts a server span and sets the trace id
//   - Timeout (800): bounds the request context
//   - MetaInject (700): stores request metadata in the context
//   - Logger (500): logs every request with its outcome
//   - ErrorHandler (400): renders errors as JSON responses
//
// Usage:
//
//	srv := server.NewHTTPServer(cfg, []server.Middleware{
//		middleware.NewRecoveryMW(log),
//		middleware.NewTracingMW(),
//		middleware.NewTimeoutMW(cfg.HandleTimeout),
//		middleware.NewMetaInjectMW("filemanager", version),
//		middleware.NewLoggerMW(log),
//		middleware.NewErrorHandlerMW(cfg.HideErrorDetails),
//	})
package middleware

// Priorities of the middlewares in this package.
const (
	PriorityRecovery     = 1000
	PriorityTracing      = 900
	PriorityTimeout      = 800
	PriorityMetaInject   = 700
	PriorityLogger       = 500
	PriorityErrorHandler = 400
)
