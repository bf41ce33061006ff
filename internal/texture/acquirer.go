package texture

import (
	"path/filepath"
	"sync"

	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/logging"
)

// AssetName returns the surface asset file name for b.
func AssetName(b body.Body) string {
	return b.String() + "_surface.jpg"
}

// Acquirer resolves surface textures. It tries the asset file first and
// falls back to the procedural surface, so Acquire never returns nil.
// Results are cached per body so repeated acquisitions share one identity.
type Acquirer struct {
	dir    string
	logger *logging.Logger

	mu    sync.Mutex
	cache map[body.Body]*Texture
	glow  *Texture
}

// NewAcquirer creates an acquirer reading assets from dir.
func NewAcquirer(dir string, logger *logging.Logger) *Acquirer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Acquirer{
		dir:    dir,
		logger: logger,
		cache:  make(map[body.Body]*Texture),
	}
}

// Acquire returns the surface texture for b.
func (a *Acquirer) Acquire(b body.Body) *Texture {
	a.mu.Lock()
	if t, ok := a.cache[b]; ok {
		a.mu.Unlock()
		return t
	}
	a.mu.Unlock()

	path := filepath.Join(a.dir, AssetName(b))
	var t *Texture
	img, err := Load(path)
	if err != nil {
		a.logger.Warn("%s surface asset unavailable, using procedural texture: %v", b, err)
		t = &Texture{
			ID:     "procedural:" + b.String(),
			Image:  Generate(b, SurfaceWidth, SurfaceHeight),
			Source: SourceProcedural,
		}
	} else {
		a.logger.Info("%s surface loaded from %s (%dx%d)", b, path, img.Bounds().Dx(), img.Bounds().Dy())
		t = &Texture{
			ID:     "asset:" + path,
			Image:  img,
			Source: SourceAsset,
		}
	}

	// Keep the first texture stored so every caller sees one identity.
	a.mu.Lock()
	defer a.mu.Unlock()
	if existing, ok := a.cache[b]; ok {
		return existing
	}
	a.cache[b] = t
	return t
}

// Glow returns the shared sun halo texture.
func (a *Acquirer) Glow() *Texture {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.glow == nil {
		a.glow = &Texture{ID: "procedural:glow", Image: Glow(GlowSize), Source: SourceProcedural}
	}
	return a.glow
}
