// Package structural extracts text, word boxes, and tables from the PDF
// content stream, without rasterizing.
package structural

import (
	"context"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"

	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/geom"
	"github.com/pdfscope/pdfscope/pkg/logx"
)

// ID is the pipeline identifier clients request.
const ID = "structural"

// parsedDocument is the slice of the parser this adapter consumes. Page
// indexes are zero-based. Each method may fail independently; the adapter
// degrades that concern alone.
type parsedDocument interface {
	PageCount() (int, error)
	PageSize(index int) (widthPts, heightPts float64, err error)
	Fragments(index int) ([]text.TextFragment, error)
	PageText(index int) (string, error)
	Tables(index int) ([][][]string, error)
	Close() error
}

type Pipeline struct {
	open func(path string) (parsedDocument, error)
}

func New() *Pipeline { return &Pipeline{open: openTabula} }

func (p *Pipeline) ID() string { return ID }

// Available always reports true: the parser is pure Go and carries no
// runtime dependencies.
func (p *Pipeline) Available() bool { return true }

// Extract parses the document and returns one PageResult per page. Page
// concerns that cannot be read degrade to empty content independently; only
// a document that cannot be opened or counted fails the pipeline.
func (p *Pipeline) Extract(ctx context.Context, doc extraction.Document, dpi int) ([]extraction.PageResult, error) {
	d, err := p.open(doc.Path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	count, err := d.PageCount()
	if err != nil {
		return nil, err
	}

	results := make([]extraction.PageResult, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, extractPage(d, i, dpi, doc.ID))
	}
	return results, nil
}

// extractPage never fails: geometry, text, words, and tables degrade
// independently so one broken content stream does not blank the rest of the
// page.
func extractPage(d parsedDocument, index, dpi int, docID string) extraction.PageResult {
	result := extraction.PageResult{
		PageGeometry: extraction.PageGeometry{PageNumber: index},
		Words:        []extraction.WordBox{},
		Tables:       []extraction.TableBlock{},
	}

	widthPts, heightPts, err := d.PageSize(index)
	if err != nil {
		logPageError(docID, index, err, "structural: page geometry unreadable")
		widthPts, heightPts = 0, 0
	}
	result.WidthPts = widthPts
	result.HeightPts = heightPts
	result.WidthPx = geom.ToPixels(widthPts, dpi)
	result.HeightPx = geom.ToPixels(heightPts, dpi)

	if fragments, err := d.Fragments(index); err != nil {
		logPageError(docID, index, err, "structural: word extraction failed")
	} else {
		for _, f := range fragments {
			if extraction.CleanToken(f.Text) == "" {
				continue
			}
			result.Words = append(result.Words, extraction.WordBox{
				Text: f.Text,
				BBox: fragmentBox(f, heightPts, dpi),
			})
		}
	}

	if txt, err := d.PageText(index); err != nil {
		logPageError(docID, index, err, "structural: text extraction failed")
	} else {
		result.Text = txt
	}

	if tables, err := d.Tables(index); err != nil {
		logPageError(docID, index, err, "structural: table extraction failed")
	} else {
		for _, rows := range tables {
			result.Tables = append(result.Tables, extraction.TableBlock{Rows: rows})
		}
	}

	return result
}

func logPageError(docID string, index int, err error, msg string) {
	logx.WithFields(logx.Fields{"document": docID, "page": index}).
		WithError(err).Warn(msg)
}

// fragmentBox converts a fragment's bottom-origin point coordinates into a
// top-origin pixel box at the preview resolution.
func fragmentBox(f text.TextFragment, pageHeightPts float64, dpi int) geom.Box {
	top := pageHeightPts - f.Y - f.Height
	bottom := pageHeightPts - f.Y
	return geom.BoxFromPoints(f.X, top, f.X+f.Width, bottom, dpi)
}

// tabulaDocument adapts a tabula reader to the parsedDocument seam.
type tabulaDocument struct {
	r *reader.Reader
}

func openTabula(path string) (parsedDocument, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, err
	}
	return &tabulaDocument{r: r}, nil
}

func (d *tabulaDocument) PageCount() (int, error) { return d.r.PageCount() }

func (d *tabulaDocument) PageSize(index int) (float64, float64, error) {
	pg, err := d.r.GetPage(index)
	if err != nil {
		return 0, 0, err
	}
	width, err := pg.Width()
	if err != nil {
		return 0, 0, err
	}
	height, err := pg.Height()
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func (d *tabulaDocument) Fragments(index int) ([]text.TextFragment, error) {
	pg, err := d.r.GetPage(index)
	if err != nil {
		return nil, err
	}
	return d.r.ExtractTextFragments(pg)
}

func (d *tabulaDocument) PageText(index int) (string, error) {
	txt, _, err := tabula.FromReader(d.r).Pages(index + 1).Text()
	return txt, err
}

// Tables extracts the raw cell grids of one page. The filtered layout
// document renumbers its pages from 1 regardless of the requested index, so
// every returned page belongs to the request and is consumed as-is.
func (d *tabulaDocument) Tables(index int) ([][][]string, error) {
	layout, _, err := tabula.FromReader(d.r).Pages(index + 1).Document()
	if err != nil {
		return nil, err
	}
	var out [][][]string
	for _, lp := range layout.Pages {
		for _, table := range lp.ExtractTables() {
			out = append(out, tableRows(table))
		}
	}
	return out, nil
}

func (d *tabulaDocument) Close() error { return d.r.Close() }

func tableRows(t *model.Table) [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = cell.Text
		}
		rows[i] = cells
	}
	return rows
}
