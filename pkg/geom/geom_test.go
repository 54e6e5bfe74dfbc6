package geom

import "testing"

func TestToPixels(t *testing.T) {
	tests := []struct {
		name string
		pts  float64
		dpi  int
		want int
	}{
		{"us letter width at 150dpi", 612, 150, 1275},
		{"us letter height at 150dpi", 792, 150, 1650},
		{"identity at 72dpi", 100, 72, 100},
		{"truncates fractional pixels", 100.7, 72, 100},
		{"truncates scaled fraction", 611.9, 150, 1274},
		{"zero passes through", 0, 150, 0},
		{"negative propagates", -10, 150, -20},
		{"a4 width at 150dpi", 595.28, 150, 1240},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToPixels(tt.pts, tt.dpi); got != tt.want {
				t.Errorf("ToPixels(%v, %d) = %d, want %d", tt.pts, tt.dpi, got, tt.want)
			}
		})
	}
}

func TestRescalePixels(t *testing.T) {
	tests := []struct {
		name    string
		px      int
		from    int
		to      int
		want    int
	}{
		{"upscale 150 to 300", 100, 150, 300, 200},
		{"downscale 300 to 150", 301, 300, 150, 150},
		{"same resolution", 42, 150, 150, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RescalePixels(tt.px, tt.from, tt.to); got != tt.want {
				t.Errorf("RescalePixels(%d, %d, %d) = %d, want %d", tt.px, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestBoxFromPoints(t *testing.T) {
	b := BoxFromPoints(72, 36, 144, 48, 150)
	want := Box{150, 75, 300, 100}
	if b != want {
		t.Errorf("BoxFromPoints = %v, want %v", b, want)
	}
}

// Boxes ordered in point space must stay ordered after conversion, for any
// resolution: truncation is monotonic.
func TestBoxFromPointsMonotonic(t *testing.T) {
	boxes := []struct{ x0, top, x1, bottom float64 }{
		{0, 0, 0, 0},
		{10.2, 20.9, 10.2, 20.9},
		{100.5, 50.25, 420.75, 61.5},
		{0.1, 0.1, 611.99, 791.99},
	}
	dpis := []int{72, 96, 150, 300}

	for _, src := range boxes {
		for _, dpi := range dpis {
			b := BoxFromPoints(src.x0, src.top, src.x1, src.bottom, dpi)
			if b[0] > b[2] || b[1] > b[3] {
				t.Errorf("BoxFromPoints(%v) at %ddpi produced inverted box %v", src, dpi, b)
			}
		}
	}
}

func TestBoxFromSize(t *testing.T) {
	b := BoxFromSize(10, 20, 30, 5)
	want := Box{10, 20, 40, 25}
	if b != want {
		t.Errorf("BoxFromSize = %v, want %v", b, want)
	}
}

// Page geometry and word boxes scaled at the same DPI must agree: a word
// spanning the full page never exceeds the page's pixel dimensions.
func TestGeometryConsistency(t *testing.T) {
	const widthPts, heightPts = 612.0, 792.0
	for _, dpi := range []int{72, 96, 150, 200, 300} {
		wpx := ToPixels(widthPts, dpi)
		hpx := ToPixels(heightPts, dpi)
		b := BoxFromPoints(0, 0, widthPts, heightPts, dpi)
		if b[2] != wpx || b[3] != hpx {
			t.Errorf("dpi %d: full-page box %v disagrees with page %dx%d px", dpi, b, wpx, hpx)
		}
	}
}
