package server

import (
	"sort"

	"github.com/gofiber/fiber/v2"
)

// Middleware is a Fiber handler with a priority. Higher priorities run first.
type Middleware struct {
	Priority int
	Handler  fiber.Handler
}

// ByOrder sorts middlewares by descending priority.
type ByOrder []Middleware

func (b ByOrder) Len() int { return len(b) }

func (b ByOrder) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

func (b ByOrder) Less(i, j int) bool { return b[i].Priority > b[j].Priority }

// applyMiddlewares registers middlewares by descending priority, skipping nil handlers.
func applyMiddlewares(app *fiber.App, middlewares []Middleware) {
	sorted := append([]Middleware(nil), middlewares...)
	sort.Stable(ByOrder(sorted))
	for _, mw := range sorted {
		if mw.Handler == nil {
			continue
		}
		app.Use(mw.Handler)
	}
}
