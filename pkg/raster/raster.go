// Package raster renders PDF pages to PNG images.
package raster

import (
	"bytes"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// Page is one rendered page. WidthPx and HeightPx are the dimensions of the
// encoded image.
type Page struct {
	PNG      []byte
	WidthPx  int
	HeightPx int
}

// Document renders pages of one open PDF. Page indexes are zero-based.
// Implementations are not safe for concurrent use; open one Document per
// goroutine.
type Document interface {
	PageCount() int
	RenderPNG(page int, dpi int) (Page, error)
	Close() error
}

// Renderer opens PDF files for rendering.
type Renderer interface {
	Open(path string) (Document, error)
}

// New returns the MuPDF-backed renderer.
func New() Renderer { return fitzRenderer{} }

type fitzRenderer struct{}

func (fitzRenderer) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int { return d.doc.NumPage() }

func (d *fitzDocument) RenderPNG(page int, dpi int) (Page, error) {
	img, err := d.doc.ImageDPI(page, float64(dpi))
	if err != nil {
		return Page{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Page{}, err
	}

	bounds := img.Bounds()
	return Page{
		PNG:      buf.Bytes(),
		WidthPx:  bounds.Dx(),
		HeightPx: bounds.Dy(),
	}, nil
}

func (d *fitzDocument) Close() error { return d.doc.Close() }
