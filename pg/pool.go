package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CodeConnectFailed is returned when the pool cannot be configured or opened.
const CodeConnectFailed = "PG_CONNECT_FAILED"

// NewPool opens a pgx pool sized by cfg. Connections beyond PoolMinConns are
// opened on demand.
func NewPool(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, connectErr(err, cfg)
	}

	poolCfg.MaxConns = cfg.PoolMaxConns
	poolCfg.MinConns = cfg.PoolMinConns
	poolCfg.MaxConnLifetime = cfg.PoolMaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.PoolMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, connectErr(err, cfg)
	}
	return pool, nil
}

func connectErr(err error, cfg Config) error {
	return errx.Wrap(err,
		errx.WithCode(CodeConnectFailed),
		errx.WithDetails(errx.D{"host": cfg.Host, "port": cfg.Port, "database": cfg.Database}),
	)
}
