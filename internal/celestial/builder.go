// Package celestial builds the scene objects for each body: the textured
// sphere, plus the glow sprite and point light for the sun. Builds are
// memoized so that identical inputs yield the identical objects.
package celestial

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/logging"
	"github.com/litescript/ls-celestial/internal/scene"
	"github.com/litescript/ls-celestial/internal/state"
	"github.com/litescript/ls-celestial/internal/texture"
)

const (
	// UnitScale converts kilometres (after the radius multiplier) to scene units.
	UnitScale = 0.0008

	// DefaultSegments is the sphere tessellation in both directions.
	DefaultSegments = 64

	// DefaultCacheSize bounds the number of memoized builds.
	DefaultCacheSize = 32
)

// ScaledRadius returns the scene radius for a body of realRadius km.
func ScaledRadius(realRadius, radiusMultiplier float64) float64 {
	return realRadius * radiusMultiplier * UnitScale
}

// Textures supplies surface and glow textures.
type Textures interface {
	Acquire(b body.Body) *texture.Texture
	Glow() *texture.Texture
}

// Visuals is the set of scene objects a body contributes. Glow and Light
// are only set for the sun.
type Visuals struct {
	Body  body.Body
	Mesh  *scene.Mesh
	Glow  *scene.Sprite
	Light *scene.PointLight
}

// Objects returns every non-nil object in attach order.
func (v *Visuals) Objects() []scene.Object {
	if v == nil {
		return nil
	}
	objs := []scene.Object{v.Mesh}
	if v.Glow != nil {
		objs = append(objs, v.Glow)
	}
	if v.Light != nil {
		objs = append(objs, v.Light)
	}
	return objs
}

type cacheKey struct {
	body     body.Body
	segments int
	radius   float64
	texture  string
}

// Builder constructs and memoizes Visuals.
type Builder struct {
	textures Textures
	segments int
	logger   *logging.Logger

	mu     sync.Mutex
	cache  *lru.Cache
	builds atomic.Int64
}

// Option configures a Builder.
type Option func(*Builder)

// WithSegments sets the sphere tessellation.
func WithSegments(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.segments = n
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(l *logging.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// NewBuilder creates a builder drawing textures from textures.
func NewBuilder(textures Textures, opts ...Option) (*Builder, error) {
	b := &Builder{
		textures: textures,
		segments: DefaultSegments,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}

	cache, err := lru.New(DefaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create build cache: %w", err)
	}
	b.cache = cache
	return b, nil
}

// Segments returns the tessellation used for new builds.
func (b *Builder) Segments() int {
	return b.segments
}

// Builds returns how many times Visuals were actually constructed (cache
// misses).
func (b *Builder) Builds() int64 {
	return b.builds.Load()
}

// Build returns the visuals for bd with the given physical radius in km.
// Calls with the same body, radius, multiplier and texture return the same
// *Visuals.
func (b *Builder) Build(bd body.Body, realRadius, radiusMultiplier float64) (*Visuals, error) {
	if !bd.Valid() {
		return nil, fmt.Errorf("build %q: %w", bd, body.ErrUnknown)
	}
	scaled := ScaledRadius(realRadius, radiusMultiplier)
	if !(scaled > 0) {
		return nil, fmt.Errorf("build %s: radius must be positive (real %v, multiplier %v)", bd, realRadius, radiusMultiplier)
	}

	tex := b.textures.Acquire(bd)
	key := cacheKey{body: bd, segments: b.segments, radius: scaled, texture: tex.ID}

	b.mu.Lock()
	if v, ok := b.cache.Get(key); ok {
		b.mu.Unlock()
		return v.(*Visuals), nil
	}
	b.mu.Unlock()

	v := b.construct(bd, scaled, tex)

	// Another goroutine may have built the same key meanwhile; keep the
	// first one so identity stays stable.
	b.mu.Lock()
	defer b.mu.Unlock()
	if existing, ok := b.cache.Get(key); ok {
		return existing.(*Visuals), nil
	}
	b.cache.Add(key, v)
	b.builds.Add(1)
	b.logger.Debug("built %s: radius %.6f, %d segments, texture %s", bd, scaled, b.segments, tex.ID)
	return v, nil
}

func (b *Builder) construct(bd body.Body, radius float64, tex *texture.Texture) *Visuals {
	geometry := scene.NewSphereGeometry(radius, b.segments, b.segments)
	mesh := scene.NewMesh(bd.String(), geometry, materialFor(bd, tex))
	mesh.TiltX = astro.DegToRad(axialTilt[bd])

	v := &Visuals{Body: bd, Mesh: mesh}
	if bd == body.Sun {
		v.Glow = &scene.Sprite{
			Name:        "sun-glow",
			Map:         b.textures.Glow(),
			ScaleX:      radius * 2,
			ScaleY:      radius * 2,
			Blending:    scene.AdditiveBlending,
			Opacity:     0.8,
			Transparent: true,
		}
		v.Light = &scene.PointLight{
			Name:      "sun-light",
			Color:     colorful.Color{R: 1, G: 1, B: 1},
			Intensity: 1.5,
			Distance:  1000,
		}
	}
	return v
}

// Axial tilt in degrees.
var axialTilt = map[body.Body]float64{
	body.Moon:  6.68,
	body.Earth: 23.44,
	body.Mars:  25.19,
	body.Sun:   7.25,
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("celestial: bad colour literal " + s)
	}
	return c
}

func materialFor(bd body.Body, tex *texture.Texture) scene.Material {
	white := colorful.Color{R: 1, G: 1, B: 1}
	switch bd {
	case body.Sun:
		return scene.Material{Kind: scene.Basic, Map: tex, Color: white}
	case body.Mars:
		return scene.Material{
			Kind:              scene.Phong,
			Map:               tex,
			Color:             mustHex("#cd5c5c"),
			Emissive:          mustHex("#8b4513"),
			EmissiveIntensity: 0.05,
			Shininess:         10,
		}
	case body.Earth:
		return scene.Material{
			Kind:              scene.Phong,
			Map:               tex,
			Color:             white,
			Emissive:          mustHex("#0b1d3a"),
			EmissiveIntensity: 0.1,
			Shininess:         25,
		}
	default:
		return scene.Material{
			Kind:              scene.Phong,
			Map:               tex,
			Color:             white,
			Emissive:          mustHex("#222222"),
			EmissiveIntensity: 0.05,
			Shininess:         5,
		}
	}
}

// Preload builds every body for st concurrently so the first mount does
// not pay for texture generation.
func (b *Builder) Preload(ctx context.Context, st state.State) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, bd := range body.All() {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := b.Build(bd, st.Physical(bd).Radius, st.RadiusMultiplier)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	return nil
}
