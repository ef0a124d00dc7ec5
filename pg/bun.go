// Package pg connects to PostgreSQL through a pgx pool and the bun ORM.
//
// It also classifies PostgreSQL errors and applies embedded goose migrations.
package pg

import (
	"context"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rise-and-shine/filemanager/pg/hooks"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/extra/bunotel"
)

// NewBunDB opens a pool for cfg and wraps it in a bun.DB with the query hooks
// installed.
func NewBunDB(ctx context.Context, cfg Config) (*bun.DB, error) {
	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	sqldb := stdlib.OpenDBFromPool(pool)

	bunDB := bun.NewDB(sqldb, pgdialect.New())
	applyHooks(bunDB, cfg.Debug)

	return bunDB, nil
}

// applyHooks adds the query logging hook, active only when debug is true,
// and the OpenTelemetry hook.
func applyHooks(db *bun.DB, debug bool) {
	// Add custom query logging hook
	db.AddQueryHook(
		hooks.NewDebugHook(
			hooks.WithEnabled(debug),
			hooks.WithVerbose(true),
		),
	)

	// Add OpenTelemetry hook
	db.AddQueryHook(bunotel.NewQueryHook())
}
