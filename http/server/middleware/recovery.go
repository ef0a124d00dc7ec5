package middleware

import (
	"runtime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/http/server"
	"github.com/rise-and-shine/filemanager/logger"
)

const stackTraceSize = 4096

// NewRecoveryMW turns panics further down the chain into internal errors
// carrying the stack trace.
func NewRecoveryMW(log logger.Logger) server.Middleware {
	log = log.Named("http.recovery")

	return server.Middleware{
		Priority: PriorityRecovery,
		Handler: func(c *fiber.Ctx) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				stackTrace := make([]byte, stackTraceSize)
				stackTrace = stackTrace[:runtime.Stack(stackTrace, false)]

				log.WithContext(c.UserContext()).
					With("stack_trace", string(stackTrace)).
					With("panic_message", r).
					Error("recovered from panic")

				err = errx.New("panic recovered", errx.WithDetails(errx.D{
					"stack_trace":   string(stackTrace),
					"panic_message": r,
				}))
			}()

			return c.Next()
		},
	}
}
