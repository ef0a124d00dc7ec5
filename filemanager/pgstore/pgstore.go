// Package pgstore provides a PostgreSQL filemanager.RecordStore built on bun.
package pgstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/pg"
	"github.com/samber/lo"
	"github.com/uptrace/bun"
)

// Error codes returned by the Store.
const (
	CodeRecordNotFound = "RECORD_NOT_FOUND"
	CodeUnknownField   = "UNKNOWN_FIELD"
)

const (
	defaultSchema   = "public"
	defaultAttempts = 3
	defaultDelay    = 50 * time.Millisecond
)

// Migrations holds the goose migrations for the file table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//nolint:gochecknoglobals // static set of updatable columns
var updatableFields = []string{
	filemanager.FieldName,
	filemanager.FieldPath,
	filemanager.FieldExtension,
	filemanager.FieldFilename,
	filemanager.FieldMimeType,
	filemanager.FieldByteSize,
	filemanager.FieldHash,
}

// Verify that Store implements filemanager.RecordStore at compile time.
var _ filemanager.RecordStore = (*Store)(nil)

// Store keeps file records in the file table.
//
// Statements that fail without taking effect, such as a connection that
// could not be acquired or a deadlock, are sent again a few times.
type Store struct {
	idb      bun.IDB
	schema   string
	attempts uint
	delay    time.Duration
	log      logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithSchema sets the schema the file table lives in. Defaults to public.
func WithSchema(name string) Option {
	return func(s *Store) { s.schema = name }
}

// WithRetry sets how many times a transient failure is attempted and the
// base delay between attempts.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *Store) {
		s.attempts = attempts
		s.delay = delay
	}
}

// WithLogger sets the logger used to report retried statements.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store on top of idb, which may be a *bun.DB or a bun.Tx.
func New(idb bun.IDB, opts ...Option) *Store {
	s := &Store{
		idb:      idb,
		schema:   defaultSchema,
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.attempts == 0 {
		s.attempts = 1
	}
	if s.log == nil {
		s.log = logger.Named("pgstore")
	}
	return s
}

// Migrate creates schema when it is missing and creates or upgrades the file
// table in it. The migrations use unqualified names, so db must resolve them
// to schema: connect with pg.Config.SearchPath set to schema. Migrate refuses
// to run when the current schema of db is a different one.
func Migrate(ctx context.Context, db *bun.DB, schema string) error {
	if _, err := db.NewRaw("CREATE SCHEMA IF NOT EXISTS ?", bun.Ident(schema)).Exec(ctx); err != nil {
		return errx.Wrap(err,
			errx.WithCode(pg.CodeMigrationFailed),
			errx.WithDetails(errx.D{"schema": schema}),
		)
	}

	var current string
	if err := db.NewRaw("SELECT current_schema()").Scan(ctx, &current); err != nil {
		return errx.Wrap(err,
			errx.WithCode(pg.CodeMigrationFailed),
			errx.WithDetails(errx.D{"schema": schema}),
		)
	}
	if current != schema {
		return errx.New(
			"search path does not resolve to the file table schema",
			errx.WithCode(pg.CodeMigrationFailed),
			errx.WithDetails(errx.D{"schema": schema, "current_schema": current}),
		)
	}

	return pg.Migrate(ctx, db.DB, Migrations, "migrations")
}

func (s *Store) Create(ctx context.Context, record filemanager.FileRecord) (filemanager.ID, error) {
	record.ID = 0

	q := s.idb.NewInsert().Model(&record).Returning("?", bun.Ident(filemanager.FieldID))
	q = q.ModelTableExpr("?.? AS ?", bun.Ident(s.schema), bun.Ident("file"), bun.Ident("f"))

	err := s.retry(ctx, func() error {
		_, err := q.Exec(ctx)
		return err
	})
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return record.ID, nil
}

func (s *Store) FindByID(ctx context.Context, id filemanager.ID) (*filemanager.FileRecord, error) {
	rec := &filemanager.FileRecord{ID: id}

	q := s.idb.NewSelect().Model(rec).WherePK()
	q = q.ModelTableExpr("?.? AS ?", bun.Ident(s.schema), bun.Ident("file"), bun.Ident("f"))

	err := s.retry(ctx, func() error {
		return q.Scan(ctx)
	})
	if pg.IsNotFound(err) {
		return nil, nil //nolint:nilnil // absence is not an error for FindByID
	}
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return rec, nil
}

func (s *Store) Update(ctx context.Context, record filemanager.FileRecord, fields []string) error {
	if unknown := lo.Without(fields, updatableFields...); len(unknown) > 0 {
		return errx.New(
			"unknown file record fields",
			errx.WithCode(CodeUnknownField),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"fields": unknown}),
		)
	}
	if len(fields) == 0 {
		return nil
	}

	q := s.idb.NewUpdate().Model(&record).Column(fields...).WherePK()
	q = q.ModelTableExpr("?.? AS ?", bun.Ident(s.schema), bun.Ident("file"), bun.Ident("f"))

	var result sql.Result
	err := s.retry(ctx, func() error {
		var err error
		result, err = q.Exec(ctx)
		return err
	})
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return checkAffected(result, q, "no file record found to update", record.ID)
}

func (s *Store) Delete(ctx context.Context, id filemanager.ID) error {
	q := s.idb.NewDelete().Model(&filemanager.FileRecord{ID: id}).WherePK()
	q = q.ModelTableExpr("?.? AS ?", bun.Ident(s.schema), bun.Ident("file"), bun.Ident("f"))

	var result sql.Result
	err := s.retry(ctx, func() error {
		var err error
		result, err = q.Exec(ctx)
		return err
	})
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return checkAffected(result, q, "no file record found to delete", id)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	q := s.idb.NewSelect().Model((*filemanager.FileRecord)(nil))
	q = q.ModelTableExpr("?.? AS ?", bun.Ident(s.schema), bun.Ident("file"), bun.Ident("f"))

	var count int
	err := s.retry(ctx, func() error {
		var err error
		count, err = q.Count(ctx)
		return err
	})
	if err != nil {
		return 0, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return count, nil
}

func (s *Store) List(ctx context.Context, lq filemanager.ListQuery) ([]filemanager.FileRecord, error) {
	if unknown := lo.Without(lq.Sort.Fields(), filemanager.SortableFields...); len(unknown) > 0 {
		return nil, errx.New(
			"unknown sort fields",
			errx.WithCode(CodeUnknownField),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"fields": unknown}),
		)
	}

	records := make([]filemanager.FileRecord, 0, lq.Limit)

	q := s.idb.NewSelect().Model(&records)
	q = q.ModelTableExpr("?.? AS ?", bun.Ident(s.schema), bun.Ident("file"), bun.Ident("f"))
	for _, opt := range lq.Sort {
		q = q.OrderExpr("?.? "+opt.D.SQL(), bun.Ident("f"), bun.Ident(opt.F))
	}
	if !lq.Sort.Has(filemanager.FieldID) {
		q = q.OrderExpr("?.? ASC", bun.Ident("f"), bun.Ident(filemanager.FieldID))
	}
	if lq.Limit > 0 {
		q = q.Limit(lq.Limit)
	}
	if lq.Offset > 0 {
		q = q.Offset(lq.Offset)
	}

	err := s.retry(ctx, func() error {
		records = records[:0]
		return q.Scan(ctx)
	})
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}

	return records, nil
}

func (s *Store) retry(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.MaxJitter(s.delay/2),
		retry.LastErrorOnly(true),
		retry.RetryIf(pg.IsTransient),
		retry.OnRetry(func(n uint, err error) {
			s.log.WithContext(ctx).With("attempt", n+1).Warnf("[pgstore] retrying statement: %v", err)
		}),
	)
}

func checkAffected(result sql.Result, q fmt.Stringer, msg string, id filemanager.ID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, errx.WithDetails(pg.GetPgErrorDetails(err, q)))
	}
	if rows == 0 {
		return errx.New(
			msg,
			errx.WithCode(CodeRecordNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"file_id": id}),
		)
	}
	return nil
}
