package reconcile

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/meta"
	"github.com/rise-and-shine/filemanager/tracing"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

const (
	// CodeInvalidSchedule is returned when a cron pattern cannot be parsed.
	CodeInvalidSchedule = "INVALID_SCHEDULE"

	shutdownTimeout = 10 * time.Second
	tracerName      = "reconcile"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

// ParseSchedule parses a five field cron expression or a descriptor.
func ParseSchedule(pattern string) (cron.Schedule, error) {
	parser := cron.NewParser(
		cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	schedule, err := parser.Parse(pattern)
	if err != nil {
		return nil, errx.Wrap(err,
			errx.WithCode(CodeInvalidSchedule),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"cron_pattern": pattern}),
		)
	}
	return schedule, nil
}

// Scheduler runs a Task each time its schedule fires. Runs never overlap:
// a run that outlasts the next tick delays the following one.
type Scheduler struct {
	name     string
	schedule cron.Schedule
	task     Task

	started   atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}

	log logger.Logger
}

// NewScheduler creates a Scheduler. name identifies the task in logs and spans.
func NewScheduler(name string, schedule cron.Schedule, task Task, log logger.Logger) *Scheduler {
	return &Scheduler{
		name:      name,
		schedule:  schedule,
		task:      task,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		log:       log.Named("reconcile.scheduler"),
	}
}

// Start blocks until Stop is called or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return errx.New("[scheduler]: already started")
	}
	defer close(s.stoppedCh)

	for {
		next := s.schedule.Next(time.Now())
		if next.IsZero() {
			s.log.With("task", s.name).Warn("[scheduler]: schedule never fires again")
			return nil
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-s.stopCh:
			timer.Stop()
			return nil
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

// Stop signals the loop to exit and waits for a running task to finish.
func (s *Scheduler) Stop() error {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if !s.started.Load() {
		return nil
	}

	select {
	case <-s.stoppedCh:
		return nil
	case <-time.After(shutdownTimeout):
		return errx.New("[scheduler]: shutdown timeout exceeded", errx.WithDetails(errx.D{"task": s.name}))
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "reconcile."+s.name)
	defer span.End()

	ctx = meta.InjectMetaToContext(ctx, map[meta.ContextKey]string{
		meta.TraceID: tracing.GetStartingTraceID(ctx),
	})

	started := time.Now()
	err := s.task(ctx)
	log := s.log.WithContext(ctx).With("task", s.name, "duration", time.Since(started).String())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Errorx(err)
		return
	}
	log.Debug("[scheduler]: task finished")
}
