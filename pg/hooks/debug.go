// Package hooks contains bun query hooks.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rise-and-shine/filemanager/logger"
	"github.com/uptrace/bun"
)

var _ bun.QueryHook = (*DebugHook)(nil)

// DebugHook logs the queries bun executes. Failed queries are logged at
// error level, empty results and slow queries at warn level and, in verbose
// mode, every other query at debug level.
type DebugHook struct {
	log                logger.Logger
	enabled            bool
	verbose            bool
	slowQueryThreshold time.Duration
}

// DebugHookOption configures a DebugHook.
type DebugHookOption func(*DebugHook)

// NewDebugHook returns an enabled, verbose hook with a 100ms slow query
// threshold that writes to the global logger unless WithLogger is given.
func NewDebugHook(opts ...DebugHookOption) *DebugHook {
	hook := &DebugHook{
		enabled:            true,
		verbose:            true,
		slowQueryThreshold: 100 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(hook)
	}

	if hook.log == nil {
		hook.log = logger.Named("pg.query")
	}

	return hook
}

// WithEnabled turns the hook on or off.
func WithEnabled(enabled bool) DebugHookOption {
	return func(h *DebugHook) {
		h.enabled = enabled
	}
}

// WithVerbose controls whether successful queries are logged too.
func WithVerbose(verbose bool) DebugHookOption {
	return func(h *DebugHook) {
		h.verbose = verbose
	}
}

// WithSlowQueryThreshold sets the duration above which a query is reported
// as slow. Zero disables slow query detection.
func WithSlowQueryThreshold(threshold time.Duration) DebugHookOption {
	return func(h *DebugHook) {
		h.slowQueryThreshold = threshold
	}
}

// WithLogger sets the logger the hook writes to.
func WithLogger(log logger.Logger) DebugHookOption {
	return func(h *DebugHook) {
		h.log = log
	}
}

// BeforeQuery implements bun.QueryHook.
func (h *DebugHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *DebugHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if !h.enabled {
		return
	}

	duration := time.Since(event.StartTime)
	noRows := errors.Is(event.Err, sql.ErrNoRows)
	failed := event.Err != nil && !noRows && !errors.Is(event.Err, sql.ErrTxDone)
	slow := h.slowQueryThreshold > 0 && duration >= h.slowQueryThreshold

	if !h.verbose && !failed && !noRows && !slow {
		return
	}

	entry := h.log.
		WithContext(ctx).
		With("query", formatQuery(event.Query)).
		With("duration", duration.Round(time.Microsecond))

	if len(event.QueryArgs) > 0 {
		entry = entry.With("args", event.QueryArgs)
	}

	msg := "[pg] " + event.Operation()
	switch {
	case failed:
		entry.With("error", event.Err).Error(msg)
	case noRows:
		entry.With("error", event.Err).Warn(msg)
	case slow:
		entry.Warn(msg)
	default:
		entry.Debug(msg)
	}
}

func formatQuery(query string) string {
	return strings.ReplaceAll(query, `"`, "")
}
