package pgstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/filemanager/pgstore"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/pg"
	"github.com/rise-and-shine/filemanager/sorter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

var recordColumns = []string{
	"id", "name", "path", "extension", "filename", "mime_type", "byte_size", "hash", "created_at",
}

func newStore(t *testing.T, opts ...pgstore.Option) (*pgstore.Store, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	opts = append([]pgstore.Option{
		pgstore.WithRetry(3, time.Millisecond),
		pgstore.WithLogger(logger.Nop()),
	}, opts...)
	return pgstore.New(db, opts...), mock
}

func TestStore_Create(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(`INSERT INTO "public"\."file" AS "f" .*'report'.* RETURNING "?id"?`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	id, err := store.Create(t.Context(), filemanager.FileRecord{
		ID:        99,
		Name:      "report",
		Extension: "pdf",
		Filename:  "Report.pdf",
		MimeType:  "application/pdf",
		ByteSize:  10,
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, filemanager.ID(42), id)
}

func TestStore_Create_RetriesTransientFailures(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(`INSERT INTO "public"\."file"`).
		WillReturnError(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"})
	mock.ExpectQuery(`INSERT INTO "public"\."file"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := store.Create(t.Context(), filemanager.FileRecord{Name: "a", Extension: "txt"})
	require.NoError(t, err)
	assert.Equal(t, filemanager.ID(7), id)
}

func TestStore_Create_DoesNotRetryOtherFailures(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectQuery(`INSERT INTO "public"\."file"`).
		WillReturnError(&pgconn.PgError{Code: "23502", Message: "null value in column"})

	_, err := store.Create(t.Context(), filemanager.FileRecord{Name: "a"})
	require.Error(t, err)

	e := errx.AsErrorX(err)
	assert.Equal(t, "23502", e.Details()["pg.code"])
}

func TestStore_FindByID(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectQuery(`SELECT .* FROM "public"\."file" AS "f" WHERE .*"f"\."id" = 5`).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(5, "report", "docs", "pdf", "Report.pdf", "application/pdf", 10, "abc", created))

		rec, err := store.FindByID(t.Context(), 5)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, filemanager.ID(5), rec.ID)
		assert.Equal(t, "report", rec.Name)
		require.NotNil(t, rec.Path)
		assert.Equal(t, "docs", *rec.Path)
		assert.Equal(t, int64(10), rec.ByteSize)
		assert.Equal(t, "abc", rec.Hash)
		assert.True(t, created.Equal(rec.CreatedAt))
	})

	t.Run("null path", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectQuery(`SELECT .* FROM "public"\."file"`).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(6, "a", nil, "txt", "a.txt", "text/plain", 1, "", created))

		rec, err := store.FindByID(t.Context(), 6)
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Nil(t, rec.Path)
	})

	t.Run("missing", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectQuery(`SELECT .* FROM "public"\."file"`).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		rec, err := store.FindByID(t.Context(), 404)
		require.NoError(t, err)
		assert.Nil(t, rec)
	})
}

func TestStore_Update(t *testing.T) {
	t.Run("writes only the listed columns", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectExec(`UPDATE "public"\."file" AS "f" SET "hash" = 'abc' WHERE .*"f"\."id" = 5`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Update(t.Context(),
			filemanager.FileRecord{ID: 5, Name: "ignored", Hash: "abc"},
			[]string{filemanager.FieldHash},
		)
		require.NoError(t, err)
	})

	t.Run("missing row", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectExec(`UPDATE "public"\."file"`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Update(t.Context(), filemanager.FileRecord{ID: 5}, []string{filemanager.FieldHash})
		require.Error(t, err)
		assert.True(t, errx.IsCodeIn(err, pgstore.CodeRecordNotFound))
		assert.Equal(t, errx.T_NotFound, errx.GetType(err))
	})

	t.Run("unknown field", func(t *testing.T) {
		store, _ := newStore(t)

		err := store.Update(t.Context(), filemanager.FileRecord{ID: 5}, []string{"owner_id"})
		require.Error(t, err)
		assert.True(t, errx.IsCodeIn(err, pgstore.CodeUnknownField))
	})
}

func TestStore_Delete(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(`DELETE FROM "public"\."file" AS "f" WHERE .*"f"\."id" = 9`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "public"\."file"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(t.Context(), 9))

	err := store.Delete(t.Context(), 9)
	assert.True(t, errx.IsCodeIn(err, pgstore.CodeRecordNotFound))
}

func TestStore_Count(t *testing.T) {
	store, mock := newStore(t, pgstore.WithSchema("storage"))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "storage"\."file" AS "f"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := store.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestStore_List(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	t.Run("ordered window", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectQuery(`SELECT .* FROM "public"\."file" AS "f" ` +
			`ORDER BY "f"\."byte_size" DESC, "f"\."id" ASC LIMIT 2 OFFSET 4`).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(8, "big", nil, "bin", "big.bin", "application/octet-stream", 900, "", created).
				AddRow(3, "small", "docs", "txt", "small.txt", "text/plain", 5, "abc", created))

		records, err := store.List(t.Context(), filemanager.ListQuery{
			Limit:  2,
			Offset: 4,
			Sort:   sorter.Make(sorter.Opt{F: filemanager.FieldByteSize, D: sorter.Desc}),
		})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, filemanager.ID(8), records[0].ID)
		assert.Equal(t, filemanager.ID(3), records[1].ID)
		require.NotNil(t, records[1].Path)
		assert.Equal(t, "docs", *records[1].Path)
	})

	t.Run("id order is not repeated", func(t *testing.T) {
		store, mock := newStore(t)
		mock.ExpectQuery(`ORDER BY "f"\."id" DESC LIMIT 10$`).
			WillReturnRows(sqlmock.NewRows(recordColumns))

		records, err := store.List(t.Context(), filemanager.ListQuery{
			Limit: 10,
			Sort:  sorter.Make(sorter.Opt{F: filemanager.FieldID, D: sorter.Desc}),
		})
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("unknown sort field", func(t *testing.T) {
		store, _ := newStore(t)

		_, err := store.List(t.Context(), filemanager.ListQuery{
			Limit: 10,
			Sort:  sorter.Make(sorter.Opt{F: "path", D: sorter.Asc}),
		})
		assert.True(t, errx.IsCodeIn(err, pgstore.CodeUnknownField))
	})
}

func TestStore_ContextCanceled(t *testing.T) {
	store, mock := newStore(t, pgstore.WithRetry(5, time.Hour))

	mock.ExpectExec(`DELETE FROM "public"\."file"`).
		WillReturnError(&pgconn.PgError{Code: "40001"})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := store.Delete(ctx, 1)
	require.Error(t, err)
}

func TestMigrate_SchemaMismatch(t *testing.T) {
	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS "files"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT current_schema\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow("public"))

	err = pgstore.Migrate(t.Context(), db, "files")
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, pg.CodeMigrationFailed))
	assert.Equal(t, "public", errx.AsErrorX(err).Details()["current_schema"])
	assert.NoError(t, mock.ExpectationsWereMet(), "no migration runs outside the schema")
}

func TestMigrate_SchemaCreateFails(t *testing.T) {
	sqldb, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec(`CREATE SCHEMA IF NOT EXISTS "files"`).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied for database"})

	err = pgstore.Migrate(t.Context(), db, "files")
	require.Error(t, err)
	assert.True(t, errx.IsCodeIn(err, pg.CodeMigrationFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
