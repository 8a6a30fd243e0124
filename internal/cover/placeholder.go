package cover

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/cesargomez89/bookwall/internal/constants"
)

var placeholderInk = color.RGBA{R: 100, G: 149, B: 237, A: 255} // cornflower blue

const (
	placeholderMargin = 40
	placeholderTopY   = 100
	lineSpacing       = 6
	blockGap          = 20
)

// Placeholder renders a synthetic cover from the publication's title
// and author line: a white canvas with both texts centered and
// word-wrapped. It is the terminal fallback of the cover search and
// always succeeds.
func Placeholder(title, authors string) image.Image {
	canvas := image.NewNRGBA(image.Rect(0, 0, constants.PlaceholderWidth, constants.PlaceholderHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	face := basicfont.Face7x13
	maxWidth := constants.PlaceholderWidth - 2*placeholderMargin

	y := placeholderTopY
	y = drawCentered(canvas, face, title, y, maxWidth)
	y += blockGap
	drawCentered(canvas, face, authors, y, maxWidth)

	return canvas
}

// drawCentered draws word-wrapped text centered on the canvas starting
// at baseline y and returns the y past the last line drawn.
func drawCentered(canvas draw.Image, face font.Face, text string, y, maxWidth int) int {
	lineHeight := face.Metrics().Height.Ceil() + lineSpacing
	for _, line := range wrapText(face, text, maxWidth) {
		width := font.MeasureString(face, line).Ceil()
		x := (canvas.Bounds().Dx() - width) / 2
		drawer := font.Drawer{
			Dst:  canvas,
			Src:  image.NewUniform(placeholderInk),
			Face: face,
			Dot:  fixed.P(x, y),
		}
		drawer.DrawString(line)
		y += lineHeight
	}
	return y
}

// wrapText breaks text into lines no wider than maxWidth. A single
// word wider than the limit gets its own line rather than being split.
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
