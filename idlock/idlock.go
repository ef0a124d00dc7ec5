// Package idlock serializes work on the same identifier.
//
// Two implementations are provided: Local for a single process and Redis for
// several instances sharing one storage directory.
package idlock

import (
	"context"
	"sync"

	"github.com/code19m/errx"
)

// Error codes returned by lockers.
const (
	CodeLockTimeout = "LOCK_TIMEOUT"
	CodeLockFailed  = "LOCK_FAILED"
)

// Unlock releases a lock. Calling it more than once is harmless.
type Unlock func()

// Locker acquires exclusive locks keyed by an identifier.
type Locker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
}

// Local is an in-process Locker. The zero value is not usable, use NewLocal.
type Local struct {
	mu    sync.Mutex
	locks map[string]*slot
}

type slot struct {
	sem  chan struct{}
	refs int
}

// NewLocal creates a Local locker.
func NewLocal() *Local {
	return &Local{locks: make(map[string]*slot)}
}

func (l *Local) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	s, ok := l.locks[key]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		l.locks[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, s)
		return nil, timeoutErr(ctx, key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.sem
			l.release(key, s)
		})
	}, nil
}

// Len returns the number of keys currently held or waited on.
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

func (l *Local) release(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(l.locks, key)
	}
}

func timeoutErr(ctx context.Context, key string) error {
	return errx.Wrap(ctx.Err(),
		errx.WithCode(CodeLockTimeout),
		errx.WithType(errx.T_Conflict),
		errx.WithDetails(errx.D{"key": key}),
	)
}
