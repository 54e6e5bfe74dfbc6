package ocrpipe

import (
	"context"

	"github.com/pdfscope/pdfscope/pkg/asyncx"
	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/geom"
	"github.com/pdfscope/pdfscope/pkg/logx"
	"github.com/pdfscope/pdfscope/pkg/raster"
)

// ID is the pipeline identifier clients request.
const ID = "ocr"

type Pipeline struct {
	engine    Engine
	renderer  raster.Renderer
	languages []string
	workers   int
}

func New(engine Engine, renderer raster.Renderer, languages []string, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		engine:    engine,
		renderer:  renderer,
		languages: languages,
		workers:   workers,
	}
}

func (p *Pipeline) ID() string { return ID }

func (p *Pipeline) Available() bool { return p.engine.Available() }

// Extract rasterizes every page at the preview resolution and runs the OCR
// engine over the images. Rendering failures fail the pipeline; a page whose
// recognition fails degrades to empty content with its image geometry
// intact. Pages are recognized concurrently.
func (p *Pipeline) Extract(ctx context.Context, doc extraction.Document, dpi int) ([]extraction.PageResult, error) {
	d, err := p.renderer.Open(doc.Path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	// The renderer is not safe for concurrent use, so all pages render
	// up front and only recognition fans out.
	count := d.PageCount()
	pages := make([]raster.Page, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := d.RenderPNG(i, dpi)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	indexes := make([]int, count)
	for i := range indexes {
		indexes[i] = i
	}
	results, err := asyncx.Pool(ctx, p.workers, indexes, func(ctx context.Context, i int) (extraction.PageResult, error) {
		return p.recognizePage(doc.ID, i, pages[i], dpi), nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Pipeline) recognizePage(docID string, index int, page raster.Page, dpi int) extraction.PageResult {
	result := extraction.PageResult{
		PageGeometry: extraction.PageGeometry{
			PageNumber: index,
			WidthPx:    page.WidthPx,
			HeightPx:   page.HeightPx,
		},
		Words:  []extraction.WordBox{},
		Tables: []extraction.TableBlock{},
	}

	rec, err := p.engine.Recognize(page.PNG, p.languages, dpi)
	if err != nil {
		logx.WithFields(logx.Fields{"document": docID, "page": index, "engine": p.engine.Name()}).
			WithError(err).Warn("ocr: recognition failed")
		return result
	}

	for _, tok := range rec.Tokens {
		if extraction.CleanToken(tok.Text) == "" {
			continue
		}
		result.Words = append(result.Words, extraction.WordBox{
			Text:       tok.Text,
			BBox:       geom.BoxFromSize(tok.Left, tok.Top, tok.Width, tok.Height),
			Confidence: extraction.Confidence(tok.Confidence),
		})
	}
	result.Text = rec.PlainText

	return result
}
