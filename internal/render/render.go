package render

import (
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/scene"
	"github.com/litescript/ls-celestial/internal/state"
)

const (
	// fill is the fraction of the smaller image dimension the body spans.
	fill = 0.84

	ambient = 0.22
	// specular scales the Phong highlight.
	specular = 0.15
)

// keyLight is the scene-space direction towards the light when a point
// light shares the body's position.
var keyLight = astro.Vec3{X: -1, Y: 0.6, Z: 1}.Normalized()

// View describes what to draw.
type View struct {
	Width, Height int // pixels; Height is twice the terminal rows
	Focus         body.Body
	Perspective   body.Perspective
	FovDeg        float64
	Starfield     state.StarfieldConfig
}

// Objects is the read side of a scene container.
type Objects interface {
	Objects() []scene.Object
}

type star struct {
	dir        astro.Vec3
	brightness float64
}

// Renderer draws frames. It caches the generated starfield between frames.
type Renderer struct {
	mu       sync.Mutex
	starsFor state.StarfieldConfig
	stars    []star
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render draws the focused body of root into a new image.
func (r *Renderer) Render(root Objects, v View) *Image {
	img := NewImage(max(v.Width, 0), max(v.Height, 0))
	if img.W == 0 || img.H == 0 {
		return img
	}

	r.drawStars(img, v)

	var mesh *scene.Mesh
	var sprites []*scene.Sprite
	var lights []*scene.PointLight
	for _, obj := range root.Objects() {
		switch o := obj.(type) {
		case *scene.Mesh:
			if o.Name == v.Focus.String() {
				mesh = o
			}
		case *scene.Sprite:
			if strings.HasPrefix(o.Name, v.Focus.String()+"-") {
				sprites = append(sprites, o)
			}
		case *scene.PointLight:
			lights = append(lights, o)
		}
	}
	if mesh == nil || mesh.Radius() <= 0 {
		return img
	}

	pxRadius := fill * float64(min(img.W, img.H)) / 2
	cx, cy := float64(img.W)/2, float64(img.H)/2
	drawSphere(img, mesh, lights, v.Perspective, cx, cy, pxRadius)

	for _, s := range sprites {
		drawSprite(img, s, cx, cy, pxRadius/mesh.Radius())
	}
	return img
}

func (r *Renderer) starfield(cfg state.StarfieldConfig) []star {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stars != nil && r.starsFor == cfg {
		return r.stars
	}

	rng := rand.New(rand.NewPCG(0x5eed, uint64(cfg.StarCount)))
	stars := make([]star, 0, cfg.StarCount)
	sizeSpan := cfg.StarMaxSize - cfg.StarMinSize
	for i := 0; i < cfg.StarCount; i++ {
		// Uniform direction on the sphere; distance only matters for
		// apparent brightness.
		z := rng.Float64()*2 - 1
		phi := rng.Float64() * 2 * math.Pi
		rho := math.Sqrt(1 - z*z)
		dir := astro.Vec3{X: rho * math.Cos(phi), Y: rho * math.Sin(phi), Z: z}

		dist := cfg.StarMinDistance + rng.Float64()*cfg.StarSpread
		size := cfg.StarMinSize + rng.Float64()*sizeSpan
		b := 0.5
		if sizeSpan > 0 {
			b = (size - cfg.StarMinSize) / sizeSpan
		}
		if cfg.StarMinDistance > 0 {
			b *= math.Min(1, cfg.StarMinDistance/dist*1.5)
		}
		stars = append(stars, star{dir: dir, brightness: 0.35 + 0.65*b})
	}

	r.starsFor = cfg
	r.stars = stars
	return stars
}

func (r *Renderer) drawStars(img *Image, v View) {
	if v.Starfield.StarCount <= 0 {
		return
	}
	fov := v.FovDeg
	if fov <= 0 || fov >= 180 {
		fov = 40
	}
	focal := float64(img.H) / 2 / math.Tan(astro.DegToRad(fov)/2)
	tilt := astro.ViewTilt(v.Perspective)

	for _, s := range r.starfield(v.Starfield) {
		// Scene to camera space; the camera looks along -Z.
		c := s.dir.RotateX(-tilt)
		if c.Z >= 0 {
			continue
		}
		x := float64(img.W)/2 + focal*c.X/-c.Z
		y := float64(img.H)/2 - focal*c.Y/-c.Z
		g := s.brightness
		img.Add(int(math.Floor(x)), int(math.Floor(y)), colorful.Color{R: g, G: g, B: g}, 1)
	}
}

func drawSphere(img *Image, m *scene.Mesh, lights []*scene.PointLight, p body.Perspective, cx, cy, radius float64) {
	mat := m.Material
	spin := m.RotationY()
	viewDir := astro.ViewToScene(p, astro.Vec3{Z: 1})

	var lightDir astro.Vec3
	lightColor := colorful.Color{R: 1, G: 1, B: 1}
	var intensity float64
	if len(lights) > 0 {
		l := lights[0]
		// Bodies sit at the origin.
		lightDir = l.Position.Normalized()
		if lightDir.Norm() == 0 {
			lightDir = keyLight
		}
		lightColor = l.Color
		intensity = l.Intensity
	}
	half := lightDir.Add(viewDir).Normalized()

	x0, x1 := int(math.Floor(cx-radius)), int(math.Ceil(cx+radius))
	y0, y1 := int(math.Floor(cy-radius)), int(math.Ceil(cy+radius))

	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			nx := (float64(px) + 0.5 - cx) / radius
			ny := -(float64(py) + 0.5 - cy) / radius
			d2 := nx*nx + ny*ny
			if d2 > 1 {
				continue
			}
			nView := astro.Vec3{X: nx, Y: ny, Z: math.Sqrt(1 - d2)}
			n := astro.ViewToScene(p, nView)

			// Undo the body's own orientation to find the surface point.
			local := n.RotateX(-m.TiltX).RotateY(-spin)
			u, v := astro.SphereUV(local)

			base := colorful.Color{R: 1, G: 1, B: 1}
			if mat.Map != nil {
				base, _ = mat.Map.Sample(u, v)
			}
			base = multiply(base, mat.Color)

			var out colorful.Color
			switch mat.Kind {
			case scene.Phong:
				diffuse := 0.0
				highlight := 0.0
				if intensity > 0 {
					diffuse = math.Max(0, n.Dot(lightDir)) * intensity
					if mat.Shininess > 0 && diffuse > 0 {
						highlight = math.Pow(math.Max(0, n.Dot(half)), mat.Shininess) * specular * intensity
					}
				}
				lit := multiply(base, lightColor)
				k := ambient + diffuse
				out = colorful.Color{
					R: lit.R*k + highlight + mat.Emissive.R*mat.EmissiveIntensity,
					G: lit.G*k + highlight + mat.Emissive.G*mat.EmissiveIntensity,
					B: lit.B*k + highlight + mat.Emissive.B*mat.EmissiveIntensity,
				}
			default:
				out = base
			}
			img.Set(px, py, out.Clamped())
		}
	}
}

func drawSprite(img *Image, s *scene.Sprite, cx, cy, pxPerUnit float64) {
	if s.Map == nil || s.Opacity <= 0 {
		return
	}
	hw := s.ScaleX / 2 * pxPerUnit
	hh := s.ScaleY / 2 * pxPerUnit
	if hw <= 0 || hh <= 0 {
		return
	}

	for py := int(math.Floor(cy - hh)); py <= int(math.Ceil(cy+hh)); py++ {
		for px := int(math.Floor(cx - hw)); px <= int(math.Ceil(cx+hw)); px++ {
			u := (float64(px) + 0.5 - (cx - hw)) / (2 * hw)
			v := (float64(py) + 0.5 - (cy - hh)) / (2 * hh)
			if u < 0 || u > 1 || v < 0 || v > 1 {
				continue
			}
			c, a := s.Map.Sample(u, v)
			alpha := a * s.Opacity
			if s.Blending == scene.AdditiveBlending {
				img.Add(px, py, c, alpha)
				continue
			}
			dst := img.At(px, py)
			img.Set(px, py, dst.BlendRgb(c, alpha))
		}
	}
}

func multiply(a, b colorful.Color) colorful.Color {
	return colorful.Color{R: a.R * b.R, G: a.G * b.G, B: a.B * b.B}
}
