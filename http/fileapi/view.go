package fileapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rise-and-shine/filemanager/filemanager"
	"github.com/samber/lo"
)

type uploadForm struct {
	Name string `form:"name" validate:"max=255"`
	Path string `form:"path" validate:"max=255,relpath"`
}

type fileView struct {
	ID          filemanager.ID `json:"id"`
	Name        string         `json:"name"`
	Path        string         `json:"path,omitempty"`
	Extension   string         `json:"extension"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	ByteSize    int64          `json:"byte_size"`
	Hash        string         `json:"hash"`
	CreatedAt   time.Time      `json:"created_at"`
	URL         string         `json:"url"`
	RelativeURL string         `json:"relative_url"`
}

func (h *Handler) toView(c *fiber.Ctx, rec *filemanager.FileRecord) fileView {
	relative := h.manager.ResolveURL(rec, false)
	absolute := h.manager.ResolveURL(rec, true)
	if absolute == relative {
		// no public base URL configured, files are reachable on this host
		absolute = strings.TrimRight(c.BaseURL(), "/") + "/" + relative
	}

	return fileView{
		ID:          rec.ID,
		Name:        rec.Name,
		Path:        lo.FromPtr(rec.Path),
		Extension:   rec.Extension,
		Filename:    rec.Filename,
		MimeType:    rec.MimeType,
		ByteSize:    rec.ByteSize,
		Hash:        rec.Hash,
		CreatedAt:   rec.CreatedAt,
		URL:         absolute,
		RelativeURL: relative,
	}
}

func optional(s string) *string {
	return lo.Ternary(strings.TrimSpace(s) == "", nil, &s)
}
