package logger

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

//nolint:gochecknoglobals // process wide logger used by infrastructure packages
var (
	global   atomic.Pointer[Logger]
	setOnce  sync.Once
	initOnce sync.Once
)

// SetGlobal configures the process wide logger. It must be called once,
// during startup, before anything logs through the package level functions.
func SetGlobal(cfg Config) {
	called := false
	setOnce.Do(func() {
		initOnce.Do(func() {})

		l, err := newLogger(cfg)
		if err != nil {
			panic("[logger]: failed to initialize global logger: " + err.Error())
		}
		global.Store(&l)
		called = true
	})
	if !called {
		panic("[logger]: SetGlobal can only be called once")
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

// Info logs a message at info level using the global logger.
func Info(msg any) {
	getGlobal().Info(msg)
}

// Infof logs a formatted message at info level using the global logger.
func Infof(format string, args ...any) {
	getGlobal().Infof(format, args...)
}

// Warnx logs an errx error at warn level using the global logger.
func Warnx(err error) {
	getGlobal().Warnx(err)
}

// Errorx logs an errx error at error level using the global logger.
func Errorx(err error) {
	getGlobal().Errorx(err)
}

// Fatalx logs an errx error at fatal level using the global logger and then calls os.Exit(1).
func Fatalx(err error) {
	getGlobal().Fatalx(err)
}

// With returns the global logger enriched with the given key-value pairs.
func With(keysAndValues ...any) Logger {
	return getGlobal().With(keysAndValues...)
}

// WithContext returns the global logger enriched with request metadata from ctx.
func WithContext(ctx context.Context) Logger {
	return getGlobal().WithContext(ctx)
}

// Named returns the global logger with a sub-scope added to its name.
func Named(name string) Logger {
	return getGlobal().Named(name)
}

// Sync flushes any buffered entries of the global logger.
func Sync() error {
	return getGlobal().Sync()
}

// getGlobal returns the global logger, lazily creating a debug console
// logger when SetGlobal was never called.
func getGlobal() Logger {
	if l := global.Load(); l != nil {
		return *l
	}
	initOnce.Do(func() {
		l, err := newLogger(Config{Level: levelDebug, Encoding: EncodingConsole})
		if err != nil {
			panic("[logger]: failed to initialize default logger: " + err.Error())
		}
		global.Store(&l)
	})
	return *global.Load()
}
