// Package render rasterizes the focused body of a scene into terminal
// half-block cells.
package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock draws the top pixel in the foreground colour and the bottom
// pixel in the background colour.
const halfBlock = "▀"

// Image is a grid of square pixels. Each terminal cell holds two rows.
type Image struct {
	W, H int
	Pix  []colorful.Color
}

// NewImage allocates a black image of w x h pixels.
func NewImage(w, h int) *Image {
	return &Image{W: w, H: h, Pix: make([]colorful.Color, w*h)}
}

// At returns the pixel at (x, y); out-of-range reads are black.
func (img *Image) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= img.W || y >= img.H {
		return colorful.Color{}
	}
	return img.Pix[y*img.W+x]
}

// Set writes the pixel at (x, y); out-of-range writes are dropped.
func (img *Image) Set(x, y int, c colorful.Color) {
	if x < 0 || y < 0 || x >= img.W || y >= img.H {
		return
	}
	img.Pix[y*img.W+x] = c
}

// Add adds c scaled by alpha to the pixel (additive blending).
func (img *Image) Add(x, y int, c colorful.Color, alpha float64) {
	if x < 0 || y < 0 || x >= img.W || y >= img.H {
		return
	}
	p := img.Pix[y*img.W+x]
	img.Pix[y*img.W+x] = colorful.Color{
		R: p.R + c.R*alpha,
		G: p.G + c.G*alpha,
		B: p.B + c.B*alpha,
	}.Clamped()
}

// Lines renders the image as terminal rows, two pixel rows per line.
// Adjacent cells with identical colours share one styled run.
func (img *Image) Lines() []string {
	rows := (img.H + 1) / 2
	lines := make([]string, 0, rows)

	for row := 0; row < rows; row++ {
		var b strings.Builder
		var runTop, runBottom string
		runLen := 0

		flush := func() {
			if runLen == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(runTop)).
				Background(lipgloss.Color(runBottom))
			b.WriteString(style.Render(strings.Repeat(halfBlock, runLen)))
			runLen = 0
		}

		for x := 0; x < img.W; x++ {
			top := img.At(x, row*2).Clamped().Hex()
			bottom := img.At(x, row*2+1).Clamped().Hex()
			if runLen > 0 && (top != runTop || bottom != runBottom) {
				flush()
			}
			runTop, runBottom = top, bottom
			runLen++
		}
		flush()
		lines = append(lines, b.String())
	}
	return lines
}

// String renders the image as newline-separated terminal rows.
func (img *Image) String() string {
	return strings.Join(img.Lines(), "\n")
}
