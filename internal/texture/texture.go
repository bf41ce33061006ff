// Package texture provides surface and glow textures for the bodies: asset
// images read from disk, with deterministic procedural fallbacks.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoders
	_ "image/png"
	"io"
	"io/fs"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/exp/mmap"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// ErrNoAsset is returned when a texture asset file does not exist.
var ErrNoAsset = errors.New("texture asset not found")

// MaxDimension bounds the width of loaded assets. Larger images are scaled
// down on load; the terminal never samples finer than this.
const MaxDimension = 1024

// Source records where a texture came from.
type Source int

const (
	SourceAsset Source = iota
	SourceProcedural
)

func (s Source) String() string {
	if s == SourceAsset {
		return "asset"
	}
	return "procedural"
}

// Texture is an equirectangular surface image (or a sprite image) with a
// stable identity.
type Texture struct {
	ID     string
	Image  image.Image
	Source Source
}

// Sample returns the colour and alpha at texture coordinate (u, v). U wraps
// around; V is clamped to [0, 1].
func (t *Texture) Sample(u, v float64) (colorful.Color, float64) {
	if t == nil || t.Image == nil {
		return colorful.Color{}, 0
	}
	b := t.Image.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return colorful.Color{}, 0
	}

	u -= math.Floor(u)
	v = math.Max(0, math.Min(1, v))

	x := b.Min.X + min(int(u*float64(w)), w-1)
	y := b.Min.Y + min(int(v*float64(h)), h-1)

	c := color.NRGBAModel.Convert(t.Image.At(x, y)).(color.NRGBA)
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}, float64(c.A) / 255
}

// Load reads and decodes the image at path through a memory map. JPEG, PNG,
// BMP and TIFF are supported. Images wider than MaxDimension are scaled
// down.
func Load(path string) (image.Image, error) {
	r, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoAsset, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	if r.Len() == 0 {
		return nil, fmt.Errorf("decode %s: empty file", path)
	}

	img, _, err := image.Decode(io.NewSectionReader(r, 0, int64(r.Len())))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return Fit(img, MaxDimension), nil
}

// Fit scales img down so that its width is at most maxWidth, preserving the
// aspect ratio. Images already within bounds are returned unchanged.
func Fit(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth || maxWidth <= 0 {
		return img
	}
	h := max(1, b.Dy()*maxWidth/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
