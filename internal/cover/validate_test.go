package cover

import (
	"image"
	"testing"

	"github.com/cesargomez89/bookwall/internal/constants"
)

// uniformRaster builds an image whose raw bytes all hold the same value,
// alpha included.
func uniformRaster(value byte) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func TestValid_BrightnessBoundary(t *testing.T) {
	tests := []struct {
		name  string
		value byte
		want  bool
	}{
		{name: "lower bound accepted", value: 20, want: true},
		{name: "upper bound accepted", value: 230, want: true},
		{name: "below lower bound rejected", value: 19, want: false},
		{name: "above upper bound rejected", value: 231, want: false},
		{name: "solid black rejected", value: 0, want: false},
		{name: "solid white rejected", value: 255, want: false},
		{name: "midtone accepted", value: 128, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := uniformRaster(tt.value)
			got := Valid(img, constants.CoverMinBrightness, constants.CoverMaxBrightness)
			if got != tt.want {
				t.Errorf("Valid(raster of %d) = %v, want %v (mean %.1f)",
					tt.value, got, tt.want, BrightnessMean(img))
			}
		})
	}
}

func TestBrightnessMean_Formats(t *testing.T) {
	// The RGBA fast path and the generic path must agree.
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range rgba.Pix {
		rgba.Pix[i] = 100
	}
	if got := BrightnessMean(rgba); got != 100 {
		t.Errorf("BrightnessMean(RGBA) = %f, want 100", got)
	}

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 42
	}
	if got := BrightnessMean(gray); got != 42 {
		t.Errorf("BrightnessMean(Gray) = %f, want 42", got)
	}
}

func TestBrightnessMean_Empty(t *testing.T) {
	if got := BrightnessMean(image.NewNRGBA(image.Rect(0, 0, 0, 0))); got != 0 {
		t.Errorf("BrightnessMean(empty) = %f, want 0", got)
	}
}
