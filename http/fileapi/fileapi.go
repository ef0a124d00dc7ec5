// Package fileapi exposes the file manager over HTTP.
package fileapi

import (
	"context"
	"mime"

	"github.com/code19m/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/rcrowley/go-metrics"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/rise-and-shine/filemanager/idlock"
	"github.com/rise-and-shine/filemanager/logger"
	"github.com/rise-and-shine/filemanager/meta"
	"github.com/rise-and-shine/filemanager/pagination"
	"github.com/rise-and-shine/filemanager/sorter"
	"github.com/rise-and-shine/filemanager/upload"
	"github.com/rise-and-shine/filemanager/val"
	"github.com/spf13/cast"
)

// Handler serves the /api/v1/files routes.
type Handler struct {
	cfg     Config
	manager *filemanager.Manager
	locker  idlock.Locker
	log     logger.Logger
}

// New creates a Handler. Requests on the same file id are serialized through locker.
func New(cfg Config, manager *filemanager.Manager, locker idlock.Locker, log logger.Logger) *Handler {
	return &Handler{
		cfg:     cfg,
		manager: manager,
		locker:  locker,
		log:     log.Named("fileapi"),
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r fiber.Router) {
	files := r.Group("/api/v1/files")
	files.Get("/", h.list)
	files.Post("/", h.upload)
	files.Get("/:id", h.get)
	files.Get("/:id/download", h.download)
	files.Delete("/:id", h.delete)

	r.Get("/metrics", h.metrics)

	if h.cfg.ServeFiles {
		r.Static("/"+h.manager.BaseURL(false), h.manager.BasePath(true), fiber.Static{
			Browse:   false,
			Download: false,
		})
	}
}

func (h *Handler) upload(c *fiber.Ctx) error {
	var form uploadForm
	if err := c.BodyParser(&form); err != nil {
		return errx.Wrap(err, errx.WithCode(val.CodeValidationFailed), errx.WithType(errx.T_Validation))
	}
	if err := val.ValidateSchema(form); err != nil {
		return err
	}

	header, err := c.FormFile("file")
	if err != nil {
		// reported by the manager as an upload without a file
		header = nil
	}
	src := upload.FromMultipart(header, upload.WithMaxSize(h.cfg.MaxUploadSize))

	rec, err := h.manager.Save(c.UserContext(), src, optional(form.Name), optional(form.Path))
	switch {
	case err == nil:
	case rec != nil && errx.IsCodeIn(err, filemanager.CodeHashPersistFailed):
		// the file is stored, only its digest is missing
		h.log.WithContext(c.UserContext()).Warnx(err)
	default:
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(h.toView(c, rec))
}

func (h *Handler) list(c *fiber.Ctx) error {
	req := pagination.Request{
		PageNumber: c.QueryInt("page_number"),
		PageSize:   c.QueryInt("page_size"),
	}
	req.Normalize(pagination.WithMaxPageSize(h.cfg.MaxPageSize))

	records, total, err := h.manager.List(c.UserContext(), filemanager.ListQuery{
		Limit:  req.Limit(),
		Offset: req.Offset(),
		Sort:   sorter.MakeFromStr(c.Query("sort"), filemanager.SortableFields...),
	})
	if err != nil {
		return err
	}

	page := pagination.NewResponse(records, int64(total), req)
	return c.JSON(pagination.Map(page, func(rec filemanager.FileRecord) fileView {
		return h.toView(c, &rec)
	}))
}

func (h *Handler) get(c *fiber.Ctx) error {
	return h.withFile(c, func(ctx context.Context, id filemanager.ID) error {
		rec, err := h.manager.Load(ctx, id)
		if err != nil {
			return err
		}
		return c.JSON(h.toView(c, rec))
	})
}

func (h *Handler) download(c *fiber.Ctx) error {
	return h.withFile(c, func(ctx context.Context, id filemanager.ID) error {
		rec, err := h.manager.Load(ctx, id)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentDisposition,
			mime.FormatMediaType("attachment", map[string]string{"filename": rec.PhysicalFilename()}))
		c.Set(fiber.HeaderContentType, rec.MimeType)

		if h.cfg.XSendFile {
			c.Set(h.cfg.XSendFileHeader, h.manager.ResolvePath(rec, true))
			c.Status(fiber.StatusOK)
			return nil
		}

		body, err := h.manager.Open(ctx, rec)
		if err != nil {
			return err
		}
		// closed by fasthttp once the body is written
		return c.SendStream(body, int(rec.ByteSize))
	})
}

func (h *Handler) delete(c *fiber.Ctx) error {
	return h.withFile(c, func(ctx context.Context, id filemanager.ID) error {
		if err := h.manager.Delete(ctx, id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func (h *Handler) metrics(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	metrics.WriteJSONOnce(h.manager.Metrics(), c)
	return nil
}

// withFile parses the :id parameter and runs fn while holding the lock on that id.
func (h *Handler) withFile(c *fiber.Ctx, fn func(ctx context.Context, id filemanager.ID) error) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return errx.New(
			"file id must be a positive integer",
			errx.WithCode(CodeInvalidFileID),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"id": c.Params("id")}),
		)
	}
	key := cast.ToString(id)

	ctx := meta.InjectMetaToContext(c.UserContext(), map[meta.ContextKey]string{meta.FileID: key})
	c.SetUserContext(ctx)

	lockCtx, cancel := context.WithTimeout(ctx, h.cfg.LockTimeout)
	defer cancel()

	unlock, err := h.locker.Lock(lockCtx, key)
	if err != nil {
		return err
	}
	defer unlock()

	return fn(ctx, filemanager.ID(id))
}
