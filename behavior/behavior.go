// Package behavior binds managed files to host entities.
//
// A host entity exposes the id of its file through HasManagedFile. Binder
// saves and deletes the file through a filemanager.Manager and persists the
// host through a HostStore, keeping the two consistent: a host is never
// persisted with the id of a file that was not created, and never keeps the
// id of a file that was deleted.
package behavior

import (
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/logger"
)

// Error codes returned by Binder.
const (
	// CodeNoManagedFile is returned when the host does not reference a file.
	CodeNoManagedFile = "NO_MANAGED_FILE"

	// CodeHostSaveFailed is returned when the host could not be persisted.
	CodeHostSaveFailed = "HOST_SAVE_FAILED"
)

// HasManagedFile is implemented by entities that own one managed file.
// The zero ID means no file is attached.
type HasManagedFile interface {
	FileID() filemanager.ID
	SetFileID(id filemanager.ID)
}

// HostStore persists host entities.
type HostStore[H HasManagedFile] interface {
	Save(ctx context.Context, host H) error
}

// HostStoreFunc adapts a function to HostStore.
type HostStoreFunc[H HasManagedFile] func(ctx context.Context, host H) error

func (f HostStoreFunc[H]) Save(ctx context.Context, host H) error {
	return f(ctx, host)
}

// Binder attaches files managed by a Manager to hosts of type H.
type Binder[H HasManagedFile] struct {
	manager *filemanager.Manager
	hosts   HostStore[H]
	log     logger.Logger
}

// NewBinder creates a Binder.
func NewBinder[H HasManagedFile](manager *filemanager.Manager, hosts HostStore[H], log logger.Logger) *Binder[H] {
	return &Binder[H]{
		manager: manager,
		hosts:   hosts,
		log:     log.Named("behavior"),
	}
}

// SaveFile saves src, stores the new id on host and persists host.
//
// If the host cannot be persisted the new file is deleted again and the
// previous id is restored on host. A file that was attached before is not
// touched; callers replacing a file delete the old one explicitly.
func (b *Binder[H]) SaveFile(ctx context.Context, host H, src filemanager.UploadSource, name, path *string) (*filemanager.FileRecord, error) {
	rec, err := b.manager.Save(ctx, src, name, path)
	if err != nil && !errx.IsCodeIn(err, filemanager.CodeHashPersistFailed) {
		return nil, errx.Wrap(err)
	}
	hashErr := err

	previous := host.FileID()
	host.SetFileID(rec.ID)

	if err = b.hosts.Save(ctx, host); err != nil {
		host.SetFileID(previous)
		if delErr := b.manager.Delete(ctx, rec.ID); delErr != nil {
			b.log.WithContext(ctx).With("file_id", rec.ID).Errorx(delErr)
		}
		return nil, errx.Wrap(err,
			errx.WithCode(CodeHostSaveFailed),
			errx.WithDetails(errx.D{"file_id": rec.ID}),
		)
	}

	return rec, hashErr
}

// LoadFile returns the record of the file attached to host.
func (b *Binder[H]) LoadFile(ctx context.Context, host H) (*filemanager.FileRecord, error) {
	id, err := fileID(host)
	if err != nil {
		return nil, err
	}
	rec, err := b.manager.Load(ctx, id)
	return rec, errx.Wrap(err)
}

// DeleteFile deletes the file attached to host, clears the id and persists host.
// When the file cannot be deleted host keeps its id.
func (b *Binder[H]) DeleteFile(ctx context.Context, host H) error {
	id, err := fileID(host)
	if err != nil {
		return err
	}

	if err = b.manager.Delete(ctx, id); err != nil && !errx.IsCodeIn(err, filemanager.CodeNotFound) {
		return errx.Wrap(err)
	}

	host.SetFileID(0)
	if err = b.hosts.Save(ctx, host); err != nil {
		return errx.Wrap(err,
			errx.WithCode(CodeHostSaveFailed),
			errx.WithDetails(errx.D{"file_id": id}),
		)
	}
	return nil
}

// ResolveFileURL returns the URL of the file attached to host.
func (b *Binder[H]) ResolveFileURL(ctx context.Context, host H, absolute bool) (string, error) {
	rec, err := b.LoadFile(ctx, host)
	if err != nil {
		return "", err
	}
	return b.manager.ResolveURL(rec, absolute), nil
}

// ResolveFilePath returns the filesystem path of the file attached to host.
func (b *Binder[H]) ResolveFilePath(ctx context.Context, host H, absolute bool) (string, error) {
	rec, err := b.LoadFile(ctx, host)
	if err != nil {
		return "", err
	}
	return b.manager.ResolvePath(rec, absolute), nil
}

func fileID(host HasManagedFile) (filemanager.ID, error) {
	id := host.FileID()
	if id == 0 {
		return 0, errx.New(
			"host has no managed file",
			errx.WithCode(CodeNoManagedFile),
			errx.WithType(errx.T_Validation),
		)
	}
	return id, nil
}
