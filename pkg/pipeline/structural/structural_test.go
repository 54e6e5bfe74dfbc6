package structural

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/text"

	"github.com/pdfscope/pdfscope/pkg/extraction"
	"github.com/pdfscope/pdfscope/pkg/geom"
)

type fakePage struct {
	widthPts     float64
	heightPts    float64
	sizeErr      error
	fragments    []text.TextFragment
	fragmentsErr error
	text         string
	textErr      error
	tables       [][][]string
	tablesErr    error
}

type fakeDocument struct {
	pages    []fakePage
	countErr error
	closed   bool
}

func (d *fakeDocument) PageCount() (int, error) {
	if d.countErr != nil {
		return 0, d.countErr
	}
	return len(d.pages), nil
}

func (d *fakeDocument) PageSize(index int) (float64, float64, error) {
	p := d.pages[index]
	if p.sizeErr != nil {
		return 0, 0, p.sizeErr
	}
	return p.widthPts, p.heightPts, nil
}

func (d *fakeDocument) Fragments(index int) ([]text.TextFragment, error) {
	p := d.pages[index]
	return p.fragments, p.fragmentsErr
}

func (d *fakeDocument) PageText(index int) (string, error) {
	p := d.pages[index]
	return p.text, p.textErr
}

func (d *fakeDocument) Tables(index int) ([][][]string, error) {
	p := d.pages[index]
	return p.tables, p.tablesErr
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

func newFakePipeline(d *fakeDocument, openErr error) *Pipeline {
	return &Pipeline{open: func(string) (parsedDocument, error) {
		if openErr != nil {
			return nil, openErr
		}
		return d, nil
	}}
}

func letterPage() fakePage {
	return fakePage{widthPts: 612, heightPts: 792}
}

func TestExtractMultiPage(t *testing.T) {
	first := letterPage()
	first.fragments = []text.TextFragment{
		{Text: "Hello", X: 0, Y: 0, Width: 72, Height: 12},
		{Text: "  ", X: 90, Y: 0, Width: 10, Height: 12},
	}
	first.text = "Hello"

	second := letterPage()
	second.text = "Totals"
	second.tables = [][][]string{{{"h1", "h2"}, {"a", "b"}}}

	doc := &fakeDocument{pages: []fakePage{first, second}}
	p := newFakePipeline(doc, nil)

	pages, err := p.Extract(context.Background(), extraction.Document{ID: "doc", Path: "doc.pdf"}, 150)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if !doc.closed {
		t.Fatal("document was not closed")
	}

	pg := pages[0]
	if pg.PageNumber != 0 || pg.WidthPx != 1275 || pg.HeightPx != 1650 {
		t.Fatalf("page 0 geometry = %d %dx%d, want 0 1275x1650", pg.PageNumber, pg.WidthPx, pg.HeightPx)
	}
	if len(pg.Words) != 1 {
		t.Fatalf("page 0 has %d words, want 1 (blank fragments dropped)", len(pg.Words))
	}
	if want := (geom.Box{0, 1625, 150, 1650}); pg.Words[0].BBox != want {
		t.Fatalf("word box = %v, want %v", pg.Words[0].BBox, want)
	}
	if pg.Text != "Hello" {
		t.Fatalf("page 0 text = %q", pg.Text)
	}

	// Tables found on pages past the first must survive the per-page
	// layout pass.
	pg = pages[1]
	if pg.PageNumber != 1 {
		t.Fatalf("page 1 numbered %d", pg.PageNumber)
	}
	if len(pg.Tables) != 1 {
		t.Fatalf("page 1 has %d tables, want 1", len(pg.Tables))
	}
	if got := pg.Tables[0].Rows[1][0]; got != "a" {
		t.Fatalf("table cell = %q, want %q", got, "a")
	}
}

func TestExtractOpenFailure(t *testing.T) {
	p := newFakePipeline(nil, errors.New("corrupt header"))
	pages, err := p.Extract(context.Background(), extraction.Document{Path: "broken.pdf"}, 150)
	if err == nil {
		t.Fatal("expected open failure to fail the pipeline")
	}
	if pages != nil {
		t.Fatalf("expected no pages, got %d", len(pages))
	}
}

func TestExtractPageCountFailure(t *testing.T) {
	doc := &fakeDocument{countErr: errors.New("bad xref")}
	p := newFakePipeline(doc, nil)
	if _, err := p.Extract(context.Background(), extraction.Document{Path: "broken.pdf"}, 150); err == nil {
		t.Fatal("expected page count failure to fail the pipeline")
	}
}

func TestExtractContextCancelled(t *testing.T) {
	doc := &fakeDocument{pages: []fakePage{letterPage()}}
	p := newFakePipeline(doc, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Extract(ctx, extraction.Document{Path: "doc.pdf"}, 150); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestExtractPageDegradation(t *testing.T) {
	boom := errors.New("boom")
	full := letterPage()
	full.fragments = []text.TextFragment{{Text: "w", X: 0, Y: 0, Width: 10, Height: 10}}
	full.text = "body"
	full.tables = [][][]string{{{"c"}}}

	tests := []struct {
		name       string
		mutate     func(*fakePage)
		wantText   string
		wantWords  int
		wantTables int
		wantZeroPx bool
	}{
		{
			name:       "size failure zeroes geometry only",
			mutate:     func(p *fakePage) { p.sizeErr = boom },
			wantText:   "body",
			wantWords:  1,
			wantTables: 1,
			wantZeroPx: true,
		},
		{
			name:       "fragment failure empties words only",
			mutate:     func(p *fakePage) { p.fragmentsErr = boom },
			wantText:   "body",
			wantWords:  0,
			wantTables: 1,
		},
		{
			name:       "text failure blanks text only",
			mutate:     func(p *fakePage) { p.textErr = boom },
			wantText:   "",
			wantWords:  1,
			wantTables: 1,
		},
		{
			name:       "table failure empties tables only",
			mutate:     func(p *fakePage) { p.tablesErr = boom },
			wantText:   "body",
			wantWords:  1,
			wantTables: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := full
			tt.mutate(&page)
			doc := &fakeDocument{pages: []fakePage{page}}
			p := newFakePipeline(doc, nil)

			pages, err := p.Extract(context.Background(), extraction.Document{ID: "doc", Path: "doc.pdf"}, 150)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			pg := pages[0]
			if pg.Text != tt.wantText {
				t.Fatalf("text = %q, want %q", pg.Text, tt.wantText)
			}
			if len(pg.Words) != tt.wantWords {
				t.Fatalf("got %d words, want %d", len(pg.Words), tt.wantWords)
			}
			if len(pg.Tables) != tt.wantTables {
				t.Fatalf("got %d tables, want %d", len(pg.Tables), tt.wantTables)
			}
			if tt.wantZeroPx && (pg.WidthPx != 0 || pg.HeightPx != 0) {
				t.Fatalf("geometry = %dx%d, want 0x0", pg.WidthPx, pg.HeightPx)
			}
			if !tt.wantZeroPx && (pg.WidthPx != 1275 || pg.HeightPx != 1650) {
				t.Fatalf("geometry = %dx%d, want 1275x1650", pg.WidthPx, pg.HeightPx)
			}
			if pg.Words == nil || pg.Tables == nil {
				t.Fatal("degraded concerns must stay empty slices, not nil")
			}
		})
	}
}

func TestExtractWordBoxesFitPage(t *testing.T) {
	page := letterPage()
	page.fragments = []text.TextFragment{
		{Text: strings.Repeat("x", 10), X: 0, Y: 0, Width: page.widthPts, Height: page.heightPts},
	}
	doc := &fakeDocument{pages: []fakePage{page}}
	p := newFakePipeline(doc, nil)

	pages, err := p.Extract(context.Background(), extraction.Document{Path: "doc.pdf"}, 150)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	pg := pages[0]
	box := pg.Words[0].BBox
	// A full-page fragment must land exactly on the page's pixel bounds:
	// both share the same points-to-pixels truncation.
	if box[2] != pg.WidthPx || box[3] != pg.HeightPx {
		t.Fatalf("box %v exceeds page %dx%d", box, pg.WidthPx, pg.HeightPx)
	}
}

func TestFragmentBox(t *testing.T) {
	// US Letter page, 150 DPI. A fragment sitting 700pt above the page
	// bottom lands near the top of a top-origin pixel image.
	const pageHeight = 792.0

	tests := []struct {
		name string
		frag text.TextFragment
		want geom.Box
	}{
		{
			name: "origin fragment spans the page bottom",
			frag: text.TextFragment{X: 0, Y: 0, Width: 72, Height: 12},
			want: geom.Box{0, 1625, 150, 1650},
		},
		{
			name: "high fragment maps near the image top",
			frag: text.TextFragment{X: 100, Y: 700, Width: 50, Height: 10},
			want: geom.Box{208, 170, 312, 191},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fragmentBox(tt.frag, pageHeight, 150)
			if got != tt.want {
				t.Fatalf("fragmentBox = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFragmentBoxEdgesOrdered(t *testing.T) {
	frag := text.TextFragment{X: 10, Y: 400, Width: 30, Height: 14}
	box := fragmentBox(frag, 792, 150)
	if box[0] >= box[2] || box[1] >= box[3] {
		t.Fatalf("box %v is not ordered left<right, top<bottom", box)
	}
}

func TestTableRows(t *testing.T) {
	table := &model.Table{
		Rows: [][]model.Cell{
			{{Text: "h1"}, {Text: "h2"}},
			{{Text: "a"}, {Text: "b"}},
			{},
		},
	}
	got := tableRows(table)
	want := [][]string{{"h1", "h2"}, {"a", "b"}, {}}
	if len(got) != len(want) {
		t.Fatalf("tableRows returned %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("row %d has %d cells, want %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("cell [%d][%d] = %q, want %q", i, j, got[i][j], want[i][j])
			}
		}
	}
}
