// Package reconcile repairs file records whose content digest could not be
// stored at upload time.
//
// A HashRefresher walks all records in id order and recomputes the digest of
// every record that has none. Each record is refreshed under the same
// per-id lock the HTTP API uses, so a refresh never races a delete. A
// Scheduler runs the refresh on a cron schedule.
package reconcile

import (
	"context"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/sorter"
	"github.com/spf13/cast"
)

const defaultLockTimeout = 5 * time.Second

// Files is the part of filemanager.Manager the refresher needs.
type Files interface {
	List(ctx context.Context, q filemanager.ListQuery) ([]filemanager.FileRecord, int, error)
	RefreshHash(ctx context.Context, id filemanager.ID) (*filemanager.FileRecord, error)
}

// Result summarizes one refresh run. Orphaned counts records whose file was
// never written; they are left to whoever cleans up partial uploads.
type Result struct {
	Scanned   int
	Refreshed int
	Orphaned  int
	Failed    int
}

// HashRefresher recomputes missing content digests.
type HashRefresher struct {
	files       Files
	locker      idlock.Locker
	batchSize   int
	lockTimeout time.Duration
	log         logger.Logger
}

// NewHashRefresher creates a HashRefresher reading batchSize records per page.
func NewHashRefresher(files Files, locker idlock.Locker, batchSize int, log logger.Logger) *HashRefresher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &HashRefresher{
		files:       files,
		locker:      locker,
		batchSize:   batchSize,
		lockTimeout: defaultLockTimeout,
		log:         log.Named("reconcile.hash"),
	}
}

// Run refreshes every record without a digest. Records without a stored file
// are skipped. Other failures on single records are logged and counted; Run only returns an error when listing fails or ctx
// is done.
func (r *HashRefresher) Run(ctx context.Context) (Result, error) {
	var res Result
	q := filemanager.ListQuery{
		Limit: r.batchSize,
		Sort:  sorter.Make(sorter.Opt{F: filemanager.FieldID, D: sorter.Asc}),
	}

	for {
		records, _, err := r.files.List(ctx, q)
		if err != nil {
			return res, errx.Wrap(err)
		}

		for _, rec := range records {
			if err = ctx.Err(); err != nil {
				return res, errx.Wrap(err)
			}
			res.Scanned++
			if rec.HasHash() {
				continue
			}

			err = r.refresh(ctx, rec.ID)
			if errx.IsCodeIn(err, filemanager.CodeFileMissing) {
				res.Orphaned++
				r.log.WithContext(ctx).With("file_id", rec.ID).Debug("[reconcile]: skipping record without a stored file")
				continue
			}
			if err != nil {
				res.Failed++
				r.log.WithContext(ctx).With("file_id", rec.ID).Warnx(err)
				continue
			}
			res.Refreshed++
		}

		if len(records) < q.Limit {
			return res, nil
		}
		q.Offset += q.Limit
	}
}

func (r *HashRefresher) refresh(ctx context.Context, id filemanager.ID) error {
	lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	unlock, err := r.locker.Lock(lockCtx, cast.ToString(int64(id)))
	if err != nil {
		return errx.Wrap(err)
	}
	defer unlock()

	_, err = r.files.RefreshHash(ctx, id)
	return err
}

// Task adapts the refresher to a scheduled task that logs its result.
func (r *HashRefresher) Task() Task {
	return func(ctx context.Context) error {
		res, err := r.Run(ctx)
		if err != nil {
			return err
		}
		if res.Refreshed > 0 || res.Failed > 0 {
			r.log.WithContext(ctx).With(
				"scanned", res.Scanned,
				"refreshed", res.Refreshed,
				"orphaned", res.Orphaned,
				"failed", res.Failed,
			).Info("[reconcile]: missing hashes refreshed")
		}
		return nil
	}
}
