package reconcile_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/filemanager/memstore"
	"github.com/rise-and-shine/filemanager/filestore"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textUpload struct{ content string }

func (u textUpload) Extension() string                             { return "txt" }
func (u textUpload) OriginalName() string                          { return "note.txt" }
func (u textUpload) MimeType() string                              { return "text/plain" }
func (u textUpload) Size() int64                                   { return int64(len(u.content)) }
func (u textUpload) HasError() (bool, filemanager.UploadErrorCode) { return false, filemanager.UploadOK }
func (u textUpload) SaveAs(path string) error                      { return os.WriteFile(path, []byte(u.content), 0o600) }

func saveWithoutHash(t *testing.T, mgr *filemanager.Manager, store *memstore.Store, content string) *filemanager.FileRecord {
	t.Helper()

	rec, err := mgr.Save(t.Context(), textUpload{content: content}, nil, nil)
	require.NoError(t, err)

	rec.Hash = ""
	require.NoError(t, store.Update(t.Context(), *rec, []string{filemanager.FieldHash}))
	return rec
}

func TestHashRefresher_Run(t *testing.T) {
	ctx := t.Context()
	store := memstore.New()
	mgr := filemanager.New(filemanager.Config{BasePath: t.TempDir()}, store, filemanager.WithLogger(logger.Nop()))

	missing := saveWithoutHash(t, mgr, store, "one")
	_, err := mgr.Save(ctx, textUpload{content: "two"}, nil, nil)
	require.NoError(t, err)
	gone := saveWithoutHash(t, mgr, store, "three")
	require.NoError(t, os.Remove(mgr.ResolvePath(gone, true)))

	refresher := reconcile.NewHashRefresher(mgr, idlock.NewLocal(), 2, logger.Nop())

	res, err := refresher.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Scanned: 3, Refreshed: 1, Orphaned: 1}, res)

	rec, err := mgr.Load(ctx, missing.ID)
	require.NoError(t, err)
	assert.True(t, rec.HasHash())

	res, err = refresher.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Scanned: 3, Orphaned: 1}, res, "orphans are skipped, not retried as failures")
}

type digestFailingFS struct{ filestore.Disk }

func (digestFailingFS) Digest(string) (string, error) { return "", errors.New("io error") }

func TestHashRefresher_CountsFailures(t *testing.T) {
	ctx := t.Context()
	store := memstore.New()
	base := t.TempDir()
	mgr := filemanager.New(filemanager.Config{BasePath: base}, store, filemanager.WithLogger(logger.Nop()))
	saveWithoutHash(t, mgr, store, "one")

	broken := filemanager.New(filemanager.Config{BasePath: base}, store,
		filemanager.WithFS(digestFailingFS{}),
		filemanager.WithLogger(logger.Nop()),
	)

	res, err := reconcile.NewHashRefresher(broken, idlock.NewLocal(), 10, logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Scanned: 1, Failed: 1}, res)
}

type failingFiles struct{}

func (failingFiles) List(context.Context, filemanager.ListQuery) ([]filemanager.FileRecord, int, error) {
	return nil, 0, errors.New("store unavailable")
}

func (failingFiles) RefreshHash(context.Context, filemanager.ID) (*filemanager.FileRecord, error) {
	return nil, errors.New("unreachable")
}

func TestHashRefresher_ListFailure(t *testing.T) {
	refresher := reconcile.NewHashRefresher(failingFiles{}, idlock.NewLocal(), 10, logger.Nop())

	_, err := refresher.Run(t.Context())
	require.Error(t, err)
	require.Error(t, refresher.Task()(t.Context()))
}

func TestHashRefresher_WaitsForLock(t *testing.T) {
	ctx := t.Context()
	store := memstore.New()
	mgr := filemanager.New(filemanager.Config{BasePath: t.TempDir()}, store, filemanager.WithLogger(logger.Nop()))
	rec := saveWithoutHash(t, mgr, store, "locked")

	locker := idlock.NewLocal()
	unlock, err := locker.Lock(ctx, "1")
	require.NoError(t, err)

	done := make(chan reconcile.Result)
	go func() {
		res, _ := reconcile.NewHashRefresher(mgr, locker, 10, logger.Nop()).Run(ctx)
		done <- res
	}()

	loaded, err := mgr.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.False(t, loaded.HasHash(), "refresh must not run while the id is locked")

	unlock()
	assert.Equal(t, reconcile.Result{Scanned: 1, Refreshed: 1}, <-done)
}
