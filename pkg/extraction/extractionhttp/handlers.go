// Package extractionhttp exposes the extraction playground over HTTP.
package extractionhttp

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/pdfscope/pdfscope/pkg/docstore"
	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/extraction/extractionsrv"
	"github.com/pdfscope/pdfscope/pkg/preview"
)

// Handlers wires the extraction service, document store, and preview service
// into fiber routes. Errors are returned as-is; the app's global error
// handler translates them.
type Handlers struct {
	svc      *extractionsrv.Service
	docs     *docstore.Store
	previews *preview.Service
}

func NewHandlers(svc *extractionsrv.Service, docs *docstore.Store, previews *preview.Service) *Handlers {
	return &Handlers{svc: svc, docs: docs, previews: previews}
}

// RegisterRoutes mounts all extraction routes on the app.
func (h *Handlers) RegisterRoutes(app *fiber.App) {
	app.Post("/upload", h.upload)
	app.Post("/extract", h.extract)
	app.Get("/pipelines", h.pipelines)
	app.Get("/results/:id", h.result)
	app.Get("/preview/:filename/:page", h.renderPreview)
	app.Get("/file/:filename", h.file)
}

func (h *Handlers) upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return extraction.ErrInvalidRequest("multipart field 'file' is required")
	}

	src, err := fh.Open()
	if err != nil {
		return extraction.ErrInvalidRequest("uploaded file is unreadable")
	}
	defer src.Close()

	name, err := h.docs.Save(c.Context(), fh.Filename, src)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"filename": name,
		"size":     fh.Size,
	})
}

func (h *Handlers) extract(c *fiber.Ctx) error {
	var req extractionsrv.Request
	if err := c.BodyParser(&req); err != nil {
		return extraction.ErrInvalidRequest("request body must be JSON")
	}

	resp, err := h.svc.Extract(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *Handlers) pipelines(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"pipelines": h.svc.Pipelines(),
	})
}

func (h *Handlers) result(c *fiber.Ctx) error {
	resp, err := h.svc.Result(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *Handlers) renderPreview(c *fiber.Ctx) error {
	filename, err := pathParam(c, "filename")
	if err != nil {
		return err
	}
	page, err := c.ParamsInt("page")
	if err != nil {
		return extraction.ErrInvalidRequest("page must be an integer")
	}

	data, err := h.previews.Render(c.Context(), filename, page)
	if err != nil {
		return err
	}

	if width := c.QueryInt("w", 0); width > 0 {
		data, err = preview.Thumbnail(data, width)
		if err != nil {
			return err
		}
	}

	c.Type("png")
	return c.Send(data)
}

func (h *Handlers) file(c *fiber.Ctx) error {
	filename, err := pathParam(c, "filename")
	if err != nil {
		return err
	}

	info, err := h.docs.Stat(c.Context(), filename)
	if err != nil {
		return err
	}
	stream, err := h.docs.Open(c.Context(), filename)
	if err != nil {
		return err
	}

	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	} else {
		c.Type("pdf")
	}
	return c.SendStream(stream, int(info.Size))
}

// pathParam decodes a path parameter and rejects traversal attempts before
// any storage lookup.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		decoded = raw
	}
	if err := docstore.ValidateName(decoded); err != nil {
		return "", err
	}
	return decoded, nil
}
