//go:build ocr

package ocrpipe

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs Tesseract through gosseract. Each Recognize call uses
// its own client, so concurrent calls are safe.
type TesseractEngine struct{}

func NewTesseractEngine() *TesseractEngine { return &TesseractEngine{} }

func (e *TesseractEngine) Name() string { return "tesseract" }

func (e *TesseractEngine) Available() bool { return true }

func (e *TesseractEngine) Recognize(png []byte, languages []string, dpi int) (Recognition, error) {
	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetImageFromBytes(png); err != nil {
		return Recognition{}, fmt.Errorf("set image: %w", err)
	}
	if len(languages) > 0 {
		if err := c.SetLanguage(languages...); err != nil {
			return Recognition{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if dpi > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(dpi)); err != nil {
			return Recognition{}, fmt.Errorf("set dpi: %w", err)
		}
	}

	var rec Recognition

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return Recognition{}, fmt.Errorf("word boxes: %w", err)
	}
	rec.Tokens = make([]Token, 0, len(boxes))
	for _, b := range boxes {
		conf := int(b.Confidence)
		if conf < 0 {
			conf = -1
		}
		rec.Tokens = append(rec.Tokens, Token{
			Text:       b.Word,
			Confidence: conf,
			Left:       b.Box.Min.X,
			Top:        b.Box.Min.Y,
			Width:      b.Box.Dx(),
			Height:     b.Box.Dy(),
		})
	}

	text, err := c.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("recognize text: %w", err)
	}
	rec.PlainText = text

	return rec, nil
}
