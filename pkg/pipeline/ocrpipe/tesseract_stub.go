//go:build !ocr

package ocrpipe

import "errors"

// ErrNotBuilt is returned when OCR is used in a build without the ocr tag.
var ErrNotBuilt = errors.New("tesseract support not compiled in; rebuild with -tags ocr")

// TesseractEngine is a placeholder used when the binary was built without
// Tesseract. It stays registered so clients can discover the pipeline and
// learn why it is unavailable.
type TesseractEngine struct{}

func NewTesseractEngine() *TesseractEngine { return &TesseractEngine{} }

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Available() bool { return false }

func (e *TesseractEngine) Recognize(png []byte, languages []string, dpi int) (Recognition, error) {
	return Recognition{}, ErrNotBuilt
}
