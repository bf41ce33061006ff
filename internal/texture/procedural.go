package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-celestial/internal/body"
)

// Procedural surface size, matching the equirectangular 2:1 layout of the
// real assets.
const (
	SurfaceWidth  = 1024
	SurfaceHeight = 512
	GlowSize      = 256
)

// Stop is a gradient colour stop at position Pos in [0, 1].
type Stop struct {
	Pos   float64
	Color colorful.Color
	Alpha float64
}

func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("texture: bad colour literal " + s)
	}
	return c
}

// gradientAt interpolates stops at t. Stops must be sorted by Pos.
func gradientAt(stops []Stop, t float64) (colorful.Color, float64) {
	if len(stops) == 0 {
		return colorful.Color{}, 0
	}
	if t <= stops[0].Pos {
		return stops[0].Color, stops[0].Alpha
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].Pos {
			a, b := stops[i-1], stops[i]
			f := (t - a.Pos) / (b.Pos - a.Pos)
			return a.Color.BlendRgb(b.Color, f), a.Alpha + (b.Alpha-a.Alpha)*f
		}
	}
	last := stops[len(stops)-1]
	return last.Color, last.Alpha
}

// canvas is a tiny 2D painter over an NRGBA image. X wraps around so that
// features drawn near the seam continue on the other side of the sphere.
type canvas struct {
	img  *image.NRGBA
	w, h int
}

func newCanvas(w, h int) *canvas {
	return &canvas{img: image.NewNRGBA(image.Rect(0, 0, w, h)), w: w, h: h}
}

func (c *canvas) get(x, y int) (colorful.Color, float64) {
	p := c.img.NRGBAAt(x, y)
	return colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}, float64(p.A) / 255
}

func (c *canvas) set(x, y int, col colorful.Color, alpha float64) {
	r, g, b := col.Clamped().RGB255()
	c.img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(clamp01(alpha) * 255))})
}

// blend composites col at opacity over the pixel (source-over).
func (c *canvas) blend(x, y int, col colorful.Color, opacity float64) {
	x = ((x % c.w) + c.w) % c.w
	if y < 0 || y >= c.h || opacity <= 0 {
		return
	}
	dst, da := c.get(x, y)
	oa := opacity + da*(1-opacity)
	if oa == 0 {
		return
	}
	out := colorful.Color{
		R: (col.R*opacity + dst.R*da*(1-opacity)) / oa,
		G: (col.G*opacity + dst.G*da*(1-opacity)) / oa,
		B: (col.B*opacity + dst.B*da*(1-opacity)) / oa,
	}
	c.set(x, y, out, oa)
}

// fill paints every pixel with fn(x, y).
func (c *canvas) fill(fn func(x, y int) (colorful.Color, float64)) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			col, a := fn(x, y)
			c.set(x, y, col, a)
		}
	}
}

// disc paints a filled circle whose colour and opacity may vary with the
// normalised distance from the centre (0 at the centre, 1 at the edge).
func (c *canvas) disc(cx, cy, r float64, paint func(d float64) (colorful.Color, float64)) {
	if r <= 0 {
		return
	}
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			d := math.Hypot(dx, dy) / r
			if d > 1 {
				continue
			}
			col, op := paint(d)
			c.blend(x, y, col, op)
		}
	}
}

func solid(col colorful.Color, opacity float64) func(float64) (colorful.Color, float64) {
	return func(float64) (colorful.Color, float64) { return col, opacity }
}

func radial(stops []Stop) func(float64) (colorful.Color, float64) {
	return func(d float64) (colorful.Color, float64) { return gradientAt(stops, d) }
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// seedFor returns a fixed seed per body so that generated surfaces are
// identical across runs.
func seedFor(b body.Body) (uint64, uint64) {
	const golden = 0x9e3779b97f4a7c15
	s := uint64(b.Index()+1) * golden
	return s, s ^ 0xda942042e4dd58b5
}

// Generate returns the procedural surface for b. The result is
// deterministic for a given body and size.
func Generate(b body.Body, w, h int) *image.NRGBA {
	rng := rand.New(rand.NewPCG(seedFor(b)))
	c := newCanvas(w, h)

	switch b {
	case body.Mars:
		paintMars(c, rng)
	case body.Sun:
		paintSun(c, rng)
	case body.Earth:
		paintEarth(c, rng)
	default:
		paintMoon(c, rng)
	}
	return c.img
}

// Sizes below are expressed against the 1024x512 reference surface and
// scaled to the canvas.
func (c *canvas) unit() float64 {
	return float64(c.w) / SurfaceWidth
}

func paintMars(c *canvas, rng *rand.Rand) {
	stops := []Stop{
		{0, hex("#cd5c5c"), 1},
		{0.3, hex("#b22222"), 1},
		{0.5, hex("#8b4513"), 1},
		{0.7, hex("#cd853f"), 1},
		{1, hex("#daa520"), 1},
	}
	c.fill(func(x, _ int) (colorful.Color, float64) {
		return gradientAt(stops, float64(x)/float64(c.w-1))
	})

	dust := colorful.Color{R: 139.0 / 255, G: 69.0 / 255, B: 19.0 / 255}
	for i := 0; i < 50; i++ {
		x := rng.Float64() * float64(c.w)
		y := rng.Float64() * float64(c.h)
		size := (rng.Float64()*20 + 5) * c.unit()
		c.disc(x, y, size, solid(dust, rng.Float64()*0.3+0.1))
	}

	ice := []Stop{{0, colorful.Color{R: 1, G: 1, B: 1}, 0.8}, {1, colorful.Color{R: 1, G: 1, B: 1}, 0}}
	capR := 100 * c.unit()
	c.disc(float64(c.w)/2, 0, capR, radial(ice))
	c.disc(float64(c.w)/2, float64(c.h), capR, radial(ice))
}

func paintSun(c *canvas, rng *rand.Rand) {
	stops := []Stop{
		{0, hex("#fff8dc"), 1},
		{0.3, hex("#ffd700"), 1},
		{0.6, hex("#ffa500"), 1},
		{0.9, hex("#ff8c00"), 1},
		{1, hex("#ff6347"), 1},
	}
	cx, cy := float64(c.w)/2, float64(c.h)/2
	c.fill(func(x, y int) (colorful.Color, float64) {
		d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / (float64(c.w) / 2)
		return gradientAt(stops, d)
	})

	spot := colorful.Color{R: 139.0 / 255, G: 69.0 / 255, B: 19.0 / 255}
	for i := 0; i < 20; i++ {
		x := rng.Float64() * float64(c.w)
		y := rng.Float64() * float64(c.h)
		size := (rng.Float64()*15 + 3) * c.unit()
		c.disc(x, y, size, solid(spot, rng.Float64()*0.4+0.2))
	}

	white := colorful.Color{R: 1, G: 1, B: 1}
	gold := hex("#ffd700")
	orange := hex("#ffa500")
	for i := 0; i < 30; i++ {
		x := rng.Float64() * float64(c.w)
		y := rng.Float64() * float64(c.h)
		size := (rng.Float64()*8 + 2) * c.unit()
		op := rng.Float64()*0.6 + 0.3
		c.disc(x, y, size, radial([]Stop{{0, white, op}, {0.5, gold, op * 0.7}, {1, orange, 0}}))
	}
}

func paintMoon(c *canvas, rng *rand.Rand) {
	base := hex("#8c8c8c")
	dark := hex("#5e5e5e")
	// Maria: broad dark patches over a grey regolith.
	c.fill(func(int, int) (colorful.Color, float64) { return base, 1 })
	for i := 0; i < 12; i++ {
		x := rng.Float64() * float64(c.w)
		y := float64(c.h)*0.25 + rng.Float64()*float64(c.h)*0.5
		size := (rng.Float64()*60 + 40) * c.unit()
		c.disc(x, y, size, radial([]Stop{{0, dark, 0.6}, {1, dark, 0}}))
	}

	rim := hex("#b4b4b4")
	floor := hex("#6a6a6a")
	for i := 0; i < 120; i++ {
		x := rng.Float64() * float64(c.w)
		y := rng.Float64() * float64(c.h)
		size := (rng.Float64()*14 + 2) * c.unit()
		c.disc(x, y, size, radial([]Stop{{0, floor, 0.5}, {0.75, floor, 0.35}, {0.85, rim, 0.6}, {1, rim, 0}}))
	}
}

func paintEarth(c *canvas, rng *rand.Rand) {
	deep := hex("#0b3d91")
	shallow := hex("#1e6fb8")
	c.fill(func(_, y int) (colorful.Color, float64) {
		lat := math.Abs(float64(y)/float64(c.h-1)*2 - 1)
		return shallow.BlendRgb(deep, 1-lat), 1
	})

	green := hex("#3a7d44")
	desert := hex("#b39b5b")
	// Continents as clusters of overlapping blobs.
	for i := 0; i < 7; i++ {
		cx := rng.Float64() * float64(c.w)
		cy := float64(c.h)*0.2 + rng.Float64()*float64(c.h)*0.6
		for j := 0; j < 18; j++ {
			x := cx + rng.NormFloat64()*60*c.unit()
			y := cy + rng.NormFloat64()*40*c.unit()
			size := (rng.Float64()*30 + 12) * c.unit()
			land := green
			if rng.Float64() < 0.3 {
				land = desert
			}
			c.disc(x, y, size, solid(land, 0.9))
		}
	}

	ice := colorful.Color{R: 0.95, G: 0.97, B: 1}
	band := float64(c.h) * 0.08
	for y := 0; y < c.h; y++ {
		dist := math.Min(float64(y), float64(c.h-1-y))
		if dist >= band {
			continue
		}
		op := 1 - dist/band
		for x := 0; x < c.w; x++ {
			c.blend(x, y, ice, op)
		}
	}
}

// Glow returns the radial sun halo used by the glow sprite: white at the
// centre fading through gold and orange to fully transparent at the edge.
func Glow(size int) *image.NRGBA {
	stops := []Stop{
		{0, colorful.Color{R: 1, G: 1, B: 1}, 0.8},
		{0.3, hex("#ffd700"), 0.6},
		{0.6, hex("#ffa500"), 0.3},
		{1, hex("#ffa500"), 0},
	}
	c := newCanvas(size, size)
	half := float64(size) / 2
	c.fill(func(x, y int) (colorful.Color, float64) {
		d := math.Hypot(float64(x)+0.5-half, float64(y)+0.5-half) / half
		return gradientAt(stops, math.Min(d, 1))
	})
	return c.img
}
