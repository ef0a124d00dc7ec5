package main

import (
	"context"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/filemanager/memstore"
	"github.com/rise-and-shine/filemanager/filemanager/pgstore"
	"github.com/rise-and-shine/filemanager/http/fileapi"
	"github.com/rise-and-shine/filemanager/http/server"
	"github.com/rise-and-shine/filemanager/http/server/middleware"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/pg"
	"github.com/rise-and-shine/filemanager/reconcile"
	"github.com/rise-and-shine/filemanager/tracing"
)

const shutdownTimeout = 15 * time.Second

type app struct {
	log       logger.Logger
	server    *server.HTTPServer
	scheduler *reconcile.Scheduler
	closers   []func() error
}

func newApp(ctx context.Context, cfg Config) (*app, error) {
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Lock.validate(); err != nil {
		return nil, err
	}

	a := &app{log: logger.Named("app")}

	shutdownTracer, err := tracing.InitGlobalTracer(cfg.Tracing, serviceName, version)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	a.closers = append(a.closers, shutdownTracer)

	store, err := a.newStore(ctx, cfg.Store)
	if err != nil {
		a.close()
		return nil, err
	}

	locker := a.newLocker(cfg.Lock)

	manager := filemanager.New(cfg.Files, store, filemanager.WithLogger(logger.Named("filemanager")))

	if !cfg.Reconcile.Disable {
		schedule, err := reconcile.ParseSchedule(cfg.Reconcile.CronPattern)
		if err != nil {
			a.close()
			return nil, err
		}
		refresher := reconcile.NewHashRefresher(manager, locker, cfg.Reconcile.BatchSize, a.log)
		a.scheduler = reconcile.NewScheduler("refresh_hashes", schedule, refresher.Task(), a.log)
	}

	a.server = server.NewHTTPServer(cfg.HTTP, []server.Middleware{
		middleware.NewRecoveryMW(a.log),
		middleware.NewTracingMW(),
		middleware.NewTimeoutMW(cfg.HTTP.HandleTimeout),
		middleware.NewMetaInjectMW(serviceName, version),
		middleware.NewLoggerMW(a.log),
		middleware.NewErrorHandlerMW(cfg.HTTP.HideErrorDetails),
	})
	a.server.RegisterRouter(fileapi.New(cfg.API, manager, locker, a.log).Register)

	return a, nil
}

func (a *app) newStore(ctx context.Context, cfg StoreConfig) (filemanager.RecordStore, error) {
	if cfg.Driver == storeDriverMemory {
		a.log.Warn("file records are kept in memory and lost on restart")
		return memstore.New(), nil
	}

	db, err := pg.NewBunDB(ctx, cfg.postgresConfig())
	if err != nil {
		return nil, errx.Wrap(err)
	}
	a.closers = append(a.closers, db.Close)

	if err = db.PingContext(ctx); err != nil {
		return nil, errx.Wrap(err)
	}

	if cfg.Migrate {
		if err = pgstore.Migrate(ctx, db, cfg.Schema); err != nil {
			return nil, errx.Wrap(err)
		}
		a.log.Info("file table migrations applied")
	}

	return pgstore.New(db, pgstore.WithSchema(cfg.Schema), pgstore.WithLogger(logger.Named("pgstore"))), nil
}

func (a *app) newLocker(cfg LockConfig) idlock.Locker {
	if cfg.Driver != lockDriverRedis {
		return idlock.NewLocal()
	}

	client := idlock.NewRedisClient(cfg.Redis)
	a.closers = append(a.closers, client.Close)
	return idlock.NewRedis(client, cfg.Redis)
}

// run serves HTTP until ctx is done, then shuts the server down gracefully.
func (a *app) run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start()
	}()
	a.log.Infof("%s %s is listening", serviceName, version)

	if a.scheduler != nil {
		go func() {
			if err := a.scheduler.Start(ctx); err != nil {
				a.log.Errorx(err)
			}
		}()
		defer func() {
			if err := a.scheduler.Stop(); err != nil {
				a.log.Warnx(err)
			}
		}()
	}

	select {
	case err := <-errCh:
		return errx.Wrap(err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return errx.Wrap(a.server.Stop(stopCtx))
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warnx(errx.Wrap(err))
		}
	}
	a.closers = nil
}
