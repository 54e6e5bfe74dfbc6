// Package ocrpipe extracts text from PDFs by rasterizing pages and running
// an OCR engine over the images.
package ocrpipe

// Token is one recognized word. Left/Top/Width/Height are pixels in the
// source image; Confidence is 0-100, or -1 when the engine could not score
// the token.
type Token struct {
	Text       string
	Confidence int
	Left       int
	Top        int
	Width      int
	Height     int
}

// Recognition is the engine output for one image. Tokens and PlainText come
// from separate engine passes and are not reconciled against each other, so
// their contents can disagree. A Recognize error discards both.
type Recognition struct {
	Tokens    []Token
	PlainText string
}

// Engine recognizes text in a PNG image. Implementations must be safe for
// concurrent Recognize calls.
type Engine interface {
	Name() string
	// Available reports whether the engine's native dependencies are
	// installed in this build.
	Available() bool
	Recognize(png []byte, languages []string, dpi int) (Recognition, error)
}
