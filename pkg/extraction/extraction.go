// Package extraction defines the result model shared by all extraction
// pipelines and the contracts the orchestrator composes them through.
//
// Every pipeline reports word positions in the pixel space of the page's
// preview image, regardless of the coordinate space its backend works in, so
// callers can overlay extracted boxes directly on the rendered page.
package extraction

import (
	"strings"

	"github.com/pdfscope/pdfscope/pkg/geom"
)

// Document is an opaque handle to an uploaded PDF. The core never mutates or
// deletes it.
type Document struct {
	// ID is the stable storage name of the document.
	ID string
	// Path is a local filesystem path the parser and rasterizer can open.
	Path string
}

// PageGeometry describes one page's dimensions. WidthPx/HeightPx are always
// present and always refer to the preview resolution, even when the
// pipeline's native coordinates are in points. Point dimensions are absent
// for raster-only pipelines.
type PageGeometry struct {
	PageNumber int     `json:"page_number"`
	WidthPts   float64 `json:"width_pts,omitempty"`
	HeightPts  float64 `json:"height_pts,omitempty"`
	WidthPx    int     `json:"width_px"`
	HeightPx   int     `json:"height_px"`
}

// WordBox is a single extracted token with its box in preview pixel space.
// Confidence is nil when the backend reports none; -1 means the backend ran
// but could not score the token.
type WordBox struct {
	Text       string   `json:"text"`
	BBox       geom.Box `json:"bbox"`
	Confidence *int     `json:"conf,omitempty"`
}

// TableBlock is a raw cell grid passed through from the structural backend.
type TableBlock struct {
	Rows [][]string `json:"rows"`
}

// PageResult holds everything extracted from one page. Words keep the order
// the backend reported them in; they are never re-sorted.
type PageResult struct {
	PageGeometry
	Text   string       `json:"text"`
	Words  []WordBox    `json:"words"`
	Tables []TableBlock `json:"tables"`
}

// PipelineResult is one pipeline's output: either pages or a whole-pipeline
// error, never both.
type PipelineResult struct {
	Pages []PageResult `json:"pages,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Failed reports whether the pipeline as a whole failed.
func (r *PipelineResult) Failed() bool { return r.Error != "" }

// Response aggregates all pipeline results for one extraction request.
type Response struct {
	Document  string                     `json:"filename"`
	Pipelines map[string]*PipelineResult `json:"pipelines"`
	Summary   string                     `json:"summary"`
	ResultRef string                     `json:"result_ref,omitempty"`
}

// Confidence builds a *int confidence clamped to [-1, 100].
func Confidence(v int) *int {
	if v < -1 {
		v = -1
	}
	if v > 100 {
		v = 100
	}
	return &v
}

// CleanToken trims a token's text; tokens that come back empty are discarded
// by the adapters before they reach a PageResult.
func CleanToken(s string) string {
	return strings.TrimSpace(s)
}
