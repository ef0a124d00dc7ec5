package pg

import (
	"context"
	"database/sql"
	"io/fs"
	"sync"

	"github.com/code19m/errx"
	"github.com/pressly/goose/v3"
)

// CodeMigrationFailed is returned when applying migrations fails.
const CodeMigrationFailed = "MIGRATION_FAILED"

//nolint:gochecknoglobals // goose keeps its base FS and dialect in package state
var (
	migrateMu sync.Mutex

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// Migrate applies every pending goose migration found in dir of fsys.
func Migrate(ctx context.Context, db *sql.DB, fsys fs.FS, dir string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return errx.Wrap(err, errx.WithCode(CodeMigrationFailed))
	}

	if err := gooseUpContext(ctx, db, dir); err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeMigrationFailed),
			errx.WithDetails(errx.D{"dir": dir}),
		)
	}
	return nil
}
