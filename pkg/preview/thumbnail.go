package preview

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/pdfscope/pdfscope/pkg/extraction"
)

// MaxThumbnailWidth caps requested thumbnail widths.
const MaxThumbnailWidth = 2000

// Thumbnail scales a PNG preview down to the given width, keeping the aspect
// ratio. Widths at or above the source width return the source unchanged.
func Thumbnail(src []byte, width int) ([]byte, error) {
	if width <= 0 || width > MaxThumbnailWidth {
		return nil, extraction.ErrInvalidRequest("thumbnail width must be between 1 and 2000")
	}

	img, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, extraction.ErrRenderFailed(err)
	}

	bounds := img.Bounds()
	if width >= bounds.Dx() {
		return src, nil
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, extraction.ErrRenderFailed(err)
	}
	return buf.Bytes(), nil
}
