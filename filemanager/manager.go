// Package filemanager stores uploaded files on disk and their metadata in a record store.
//
// Saving is two-phased: the record is created first, because the physical
// filename {name}-{id}.{extension} needs the id assigned by the store, then the
// directory is ensured, the bytes are written and the content digest is
// stored. Deleting removes the file first and the record last, so a record is
// never dropped while its file still occupies disk space.
//
// Failures that leave state behind are reported with their own error codes:
// CodeDirectoryCreateFailed and CodeFileWriteFailed leave an orphan record,
// CodeHashPersistFailed leaves a record without a digest. They are logged with
// reconcile=true and counted in the manager's metrics.
//
// A Manager is safe for concurrent use on different ids. Callers must
// serialize operations on the same id.
package filemanager

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/code19m/errx"
	"github.com/rcrowley/go-metrics"
	"github.com/rise-and-shine/filemanager/filestore"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/pathpolicy"
	"github.com/rise-and-shine/filemanager/sorter"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "filemanager"

// Manager coordinates the record store and the filesystem.
type Manager struct {
	cfg     Config
	store   RecordStore
	fs      filestore.FS
	log     logger.Logger
	now     func() time.Time
	metrics *managerMetrics
	tracer  trace.Tracer
}

// Option configures a Manager.
type Option func(*Manager)

// WithFS sets the filesystem. Defaults to the local disk.
func WithFS(fs filestore.FS) Option {
	return func(m *Manager) { m.fs = fs }
}

// WithLogger sets the logger. Defaults to the global logger.
func WithLogger(log logger.Logger) Option {
	return func(m *Manager) { m.log = log }
}

// WithClock sets the function used for CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithMetrics registers the manager's metrics in r instead of a private registry.
func WithMetrics(r metrics.Registry) Option {
	return func(m *Manager) { m.metrics = newManagerMetrics(r) }
}

// New creates a Manager. The configuration is copied and never changes afterwards.
func New(cfg Config, store RecordStore, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg.withDefaults(),
		store:  store,
		fs:     filestore.NewDisk(),
		now:    time.Now,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Named(tracerName)
	}
	if m.metrics == nil {
		m.metrics = newManagerMetrics(metrics.NewRegistry())
	}
	return m
}

// Metrics returns the registry holding the manager's counters and timers.
func (m *Manager) Metrics() metrics.Registry {
	return m.metrics.registry
}

// Save stores the upload and returns the created record.
//
// name overrides the name derived from the original filename and path places
// the file in a sub-directory of the files directory; both may be nil.
// On CodeHashPersistFailed the returned record is valid and durable.
func (m *Manager) Save(ctx context.Context, src UploadSource, name, path *string) (*FileRecord, error) {
	ctx, span := m.tracer.Start(ctx, "filemanager.Save")
	defer span.End()
	defer m.metrics.saveTimer.UpdateSince(time.Now())

	rec, err := m.save(ctx, src, name, path)
	if rec != nil {
		span.SetAttributes(attribute.Int64("file.id", int64(rec.ID)))
	}
	m.observe(ctx, span, err)
	if err == nil {
		m.metrics.saved.Inc(1)
	}
	return rec, err
}

func (m *Manager) save(ctx context.Context, src UploadSource, name, path *string) (*FileRecord, error) {
	if failed, code := src.HasError(); failed {
		return nil, errx.New(
			"file could not be uploaded: "+code.String(),
			errx.WithCode(CodeUploadInvalid),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"upload_error": int(code), "filename": src.OriginalName()}),
		)
	}

	rec, err := m.newRecord(src, name, path)
	if err != nil {
		return nil, err
	}

	id, err := m.store.Create(ctx, rec)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodePersistFailed), errx.WithType(errx.T_Internal))
	}
	rec.ID = id

	dir := m.dirPath(&rec)
	if err = m.ensureDir(dir); err != nil {
		return nil, errx.Wrap(err,
			errx.WithCode(CodeDirectoryCreateFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": id, "dir": dir}),
		)
	}

	fullPath := m.ResolvePath(&rec, true)
	if err = src.SaveAs(fullPath); err != nil {
		return nil, errx.Wrap(err,
			errx.WithCode(CodeFileWriteFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": id, "path": fullPath}),
		)
	}

	if err = m.storeHash(ctx, &rec); err != nil {
		return &rec, err
	}

	return &rec, nil
}

// newRecord builds the record for src. Only the hash and the id are left empty.
func (m *Manager) newRecord(src UploadSource, name, path *string) (FileRecord, error) {
	original := src.OriginalName()

	n := pathpolicy.DeriveDefaultName(original)
	if name != nil {
		n = *name
	}

	mimeType := src.MimeType()
	if mimeType == "" {
		mimeType = filestore.ContentTypeOctetStream
	}

	rec := FileRecord{
		Name:      pathpolicy.SanitizeName(n),
		Extension: pathpolicy.SanitizeName(strings.ToLower(strings.TrimPrefix(src.Extension(), "."))),
		Filename:  original,
		MimeType:  mimeType,
		ByteSize:  src.Size(),
		CreatedAt: m.now(),
	}

	if path != nil {
		p := pathpolicy.StoragePath(pathpolicy.TrimPath(*path))
		if err := validatePath(p); err != nil {
			return FileRecord{}, err
		}
		if p != "" {
			rec.Path = &p
		}
	}

	return rec, nil
}

// validatePath rejects sub-directories that would escape the files directory.
func validatePath(p string) error {
	for _, seg := range strings.Split(p, pathpolicy.Separator) {
		if seg == ".." || seg == "." || strings.Contains(seg, `\`) {
			return errx.New(
				"path must not contain relative segments",
				errx.WithCode(CodeUploadInvalid),
				errx.WithType(errx.T_Validation),
				errx.WithFields(errx.M{"path": "invalid segment: " + seg}),
			)
		}
	}
	return nil
}

// ensureDir creates dir unless it exists. A non-directory at dir is an error.
func (m *Manager) ensureDir(dir string) error {
	return errx.Wrap(m.fs.MkdirAll(dir, m.cfg.DirMode))
}

// checkStored fails with CodeFileMissing when the record's file is gone.
func (m *Manager) checkStored(rec *FileRecord) error {
	fullPath := m.ResolvePath(rec, true)

	exists, err := m.fs.Exists(fullPath)
	if err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeHashPersistFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": rec.ID, "path": fullPath}),
		)
	}
	if !exists {
		return errx.New(
			"stored file is missing",
			errx.WithCode(CodeFileMissing),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"file_id": rec.ID, "path": fullPath}),
		)
	}
	return nil
}

// storeHash computes the digest of the record's file and persists it.
// On failure rec.Hash is left as it was in the store.
func (m *Manager) storeHash(ctx context.Context, rec *FileRecord) error {
	fullPath := m.ResolvePath(rec, true)

	sum, err := m.fs.Digest(fullPath)
	if err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeHashPersistFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": rec.ID, "path": fullPath}),
		)
	}

	updated := *rec
	updated.Hash = sum
	if err = m.store.Update(ctx, updated, []string{FieldHash}); err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeHashPersistFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": rec.ID}),
		)
	}

	rec.Hash = sum
	return nil
}

// Load returns the record with the given id.
func (m *Manager) Load(ctx context.Context, id ID) (*FileRecord, error) {
	ctx, span := m.tracer.Start(ctx, "filemanager.Load", trace.WithAttributes(attribute.Int64("file.id", int64(id))))
	defer span.End()

	rec, err := m.load(ctx, id)
	m.observe(ctx, span, err)
	return rec, err
}

func (m *Manager) load(ctx context.Context, id ID) (*FileRecord, error) {
	rec, err := m.store.FindByID(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithCode(CodeLoadFailed), errx.WithType(errx.T_Internal))
	}
	if rec == nil {
		return nil, errx.New(
			fmt.Sprintf("file with id %d not found", id),
			errx.WithCode(CodeNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"file_id": id}),
		)
	}
	return rec, nil
}

// List returns a window of records together with the total number of records.
// An empty q.Sort orders by ascending id.
func (m *Manager) List(ctx context.Context, q ListQuery) ([]FileRecord, int, error) {
	ctx, span := m.tracer.Start(ctx, "filemanager.List", trace.WithAttributes(
		attribute.Int("list.limit", q.Limit),
		attribute.Int("list.offset", q.Offset),
		attribute.String("list.sort", q.Sort.String()),
	))
	defer span.End()

	records, total, err := m.list(ctx, q)
	m.observe(ctx, span, err)
	return records, total, err
}

func (m *Manager) list(ctx context.Context, q ListQuery) ([]FileRecord, int, error) {
	if q.Limit <= 0 || q.Offset < 0 {
		return nil, 0, errx.New(
			"list window must have a positive limit and a non-negative offset",
			errx.WithCode(CodeListInvalid),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"limit": q.Limit, "offset": q.Offset}),
		)
	}
	if unknown := lo.Without(q.Sort.Fields(), SortableFields...); len(unknown) > 0 {
		return nil, 0, errx.New(
			"records cannot be ordered by "+strings.Join(unknown, ", "),
			errx.WithCode(CodeListInvalid),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"sort": q.Sort.String()}),
		)
	}
	if len(q.Sort) == 0 {
		q.Sort = sorter.Make(sorter.Opt{F: FieldID, D: sorter.Asc})
	}

	total, err := m.store.Count(ctx)
	if err != nil {
		return nil, 0, errx.Wrap(err, errx.WithCode(CodeListFailed), errx.WithType(errx.T_Internal))
	}
	if total <= q.Offset {
		return []FileRecord{}, total, nil
	}

	records, err := m.store.List(ctx, q)
	if err != nil {
		return nil, 0, errx.Wrap(err, errx.WithCode(CodeListFailed), errx.WithType(errx.T_Internal))
	}
	return records, total, nil
}

// Delete removes the file and then its record. A file that is already gone
// does not prevent the record from being deleted. When the file cannot be
// removed the record is kept and CodeFileDeleteFailed is returned.
func (m *Manager) Delete(ctx context.Context, id ID) error {
	ctx, span := m.tracer.Start(ctx, "filemanager.Delete", trace.WithAttributes(attribute.Int64("file.id", int64(id))))
	defer span.End()
	defer m.metrics.deleteTimer.UpdateSince(time.Now())

	err := m.delete(ctx, id)
	m.observe(ctx, span, err)
	if err == nil {
		m.metrics.deleted.Inc(1)
	}
	return err
}

func (m *Manager) delete(ctx context.Context, id ID) error {
	rec, err := m.load(ctx, id)
	if err != nil {
		return err
	}

	fullPath := m.ResolvePath(rec, true)
	if err = m.fs.Remove(fullPath); err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeFileDeleteFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": id, "path": fullPath}),
		)
	}

	if err = m.store.Delete(ctx, id); err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeRecordDeleteFailed),
			errx.WithType(errx.T_Internal),
			errx.WithDetails(errx.D{"file_id": id}),
		)
	}

	return nil
}

// RefreshHash recomputes the digest of the stored file and persists it.
// It is the retry path for CodeHashPersistFailed. A record whose file was
// never written reports CodeFileMissing.
func (m *Manager) RefreshHash(ctx context.Context, id ID) (*FileRecord, error) {
	ctx, span := m.tracer.Start(ctx, "filemanager.RefreshHash", trace.WithAttributes(attribute.Int64("file.id", int64(id))))
	defer span.End()

	rec, err := m.load(ctx, id)
	if err == nil {
		err = m.checkStored(rec)
	}
	if err == nil {
		err = m.storeHash(ctx, rec)
	}
	m.observe(ctx, span, err)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Verify reports whether the stored file still matches the record's hash.
// A record without a hash never matches.
func (m *Manager) Verify(ctx context.Context, id ID) (bool, error) {
	ctx, span := m.tracer.Start(ctx, "filemanager.Verify", trace.WithAttributes(attribute.Int64("file.id", int64(id))))
	defer span.End()

	rec, err := m.load(ctx, id)
	if err != nil {
		m.observe(ctx, span, err)
		return false, err
	}

	sum, err := m.fs.Digest(m.ResolvePath(rec, true))
	if err != nil {
		err = errx.Wrap(err, errx.WithDetails(errx.D{"file_id": id}))
		m.observe(ctx, span, err)
		return false, err
	}

	return rec.HasHash() && sum == rec.Hash, nil
}

// Open opens the stored file of rec for reading. The caller must close it.
func (m *Manager) Open(ctx context.Context, rec *FileRecord) (io.ReadCloser, error) {
	_, span := m.tracer.Start(ctx, "filemanager.Open", trace.WithAttributes(attribute.Int64("file.id", int64(rec.ID))))
	defer span.End()

	rc, err := m.fs.Open(m.ResolvePath(rec, true))
	if err != nil {
		err = errx.Wrap(err, errx.WithCode(CodeFileOpenFailed), errx.WithDetails(errx.D{"file_id": rec.ID}))
		m.observe(ctx, span, err)
		return nil, err
	}
	return rc, nil
}

// SanitizeName returns raw with the characters that are illegal in stored names removed.
func (m *Manager) SanitizeName(raw string) string {
	return pathpolicy.SanitizeName(raw)
}

// observe records err on the span and reports partial failures.
func (m *Manager) observe(ctx context.Context, span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	log := m.log.WithContext(ctx)
	switch {
	case errx.IsCodeIn(err, reconcileCodes...):
		m.metrics.orphans.Inc(1)
		log.With("reconcile", true).Errorx(err)
	case errx.IsCodeIn(err, CodeHashPersistFailed):
		m.metrics.hashFailures.Inc(1)
		log.With("reconcile", true).Warnx(err)
	case errx.IsCodeIn(err, CodeFileDeleteFailed):
		m.metrics.deleteFailures.Inc(1)
		log.Errorx(err)
	}
}
