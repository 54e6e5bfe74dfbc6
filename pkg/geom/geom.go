// Package geom converts coordinates between PDF point space and rasterized
// pixel space. All integer outputs use the same truncation rule so that page
// geometry and word boxes derived at the same resolution line up exactly.
package geom

// PointsPerInch is the fixed PDF unit convention: 72 points per inch.
const PointsPerInch = 72.0

// Scale returns the point-space to pixel-space scale factor at the given
// rendering resolution (dots per inch).
func Scale(dpi int) float64 {
	return float64(dpi) / PointsPerInch
}

// Rescale returns the factor that converts pixel values rasterized at fromDPI
// into pixel values at toDPI.
func Rescale(fromDPI, toDPI int) float64 {
	return float64(toDPI) / float64(fromDPI)
}

// ToPixels converts a point-space value to integer pixels at the given
// resolution, truncating toward zero. Non-positive inputs pass through scaled,
// never special-cased; callers treat non-positive geometry as unavailable.
func ToPixels(pts float64, dpi int) int {
	return int(pts * Scale(dpi))
}

// RescalePixels converts a pixel value rasterized at fromDPI into a pixel
// value at toDPI, truncating toward zero.
func RescalePixels(px int, fromDPI, toDPI int) int {
	return int(float64(px) * Rescale(fromDPI, toDPI))
}

// Box is an axis-aligned rectangle in integer pixel space with the origin in
// the upper-left corner, stored as [x0, y0, x1, y1].
type Box [4]int

// BoxFromPoints converts a point-space rectangle given as left, top, right,
// bottom into a pixel Box at the given resolution. All four edges use the
// identical scale and truncation rule.
func BoxFromPoints(x0, top, x1, bottom float64, dpi int) Box {
	return Box{
		ToPixels(x0, dpi),
		ToPixels(top, dpi),
		ToPixels(x1, dpi),
		ToPixels(bottom, dpi),
	}
}

// BoxFromSize converts a pixel rectangle given as left, top, width, height
// into a Box in the same pixel space.
func BoxFromSize(left, top, width, height int) Box {
	return Box{left, top, left + width, top + height}
}

// RescaleBox converts a pixel Box rasterized at fromDPI into the pixel space
// at toDPI, truncating every edge toward zero.
func RescaleBox(b Box, fromDPI, toDPI int) Box {
	return Box{
		RescalePixels(b[0], fromDPI, toDPI),
		RescalePixels(b[1], fromDPI, toDPI),
		RescalePixels(b[2], fromDPI, toDPI),
		RescalePixels(b[3], fromDPI, toDPI),
	}
}
