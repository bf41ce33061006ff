// Package scene holds the minimal scene graph the controllers attach to:
// a root container plus the mesh, sprite and light objects the bodies need.
package scene

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/texture"
)

// Object is anything that can be attached to a Container.
type Object interface {
	ObjectName() string
}

// Container accepts and releases scene objects. Objects are compared by
// identity.
type Container interface {
	Add(Object)
	Remove(Object)
}

// MaterialKind selects the shading model.
type MaterialKind int

const (
	// Basic materials are unlit: the texture is shown as is.
	Basic MaterialKind = iota
	// Phong materials are lit by point lights in the scene.
	Phong
)

// Material describes how a mesh surface is coloured.
type Material struct {
	Kind              MaterialKind
	Map               *texture.Texture
	Color             colorful.Color // multiplied with the map
	Emissive          colorful.Color
	EmissiveIntensity float64
	Shininess         float64
}

// Mesh is a textured sphere with a spin about its Y axis.
type Mesh struct {
	Name     string
	Geometry *SphereGeometry
	Material Material
	TiltX    float64 // fixed axial tilt, radians

	mu        sync.Mutex
	rotationY float64
}

// NewMesh creates a mesh with zero rotation.
func NewMesh(name string, geometry *SphereGeometry, material Material) *Mesh {
	return &Mesh{Name: name, Geometry: geometry, Material: material}
}

// ObjectName implements Object.
func (m *Mesh) ObjectName() string { return m.Name }

// RotateY adds angle radians to the spin. The stored angle is kept in
// [0, 2π).
func (m *Mesh) RotateY(angle float64) {
	m.mu.Lock()
	m.rotationY = astro.NormalizeAngle(m.rotationY + angle)
	m.mu.Unlock()
}

// SetRotationY sets the spin.
func (m *Mesh) SetRotationY(angle float64) {
	m.mu.Lock()
	m.rotationY = astro.NormalizeAngle(angle)
	m.mu.Unlock()
}

// RotationY returns the current spin in [0, 2π).
func (m *Mesh) RotationY() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotationY
}

// Radius returns the geometry radius.
func (m *Mesh) Radius() float64 {
	if m.Geometry == nil {
		return 0
	}
	return m.Geometry.Radius
}

// Blending selects how a sprite composites over what is behind it.
type Blending int

const (
	NormalBlending Blending = iota
	AdditiveBlending
)

// Sprite is a camera-facing textured quad.
type Sprite struct {
	Name        string
	Map         *texture.Texture
	ScaleX      float64
	ScaleY      float64
	Blending    Blending
	Opacity     float64
	Transparent bool
}

// ObjectName implements Object.
func (s *Sprite) ObjectName() string { return s.Name }

// PointLight emits light in all directions from Position. Distance is the
// range at which intensity falls to zero; zero means unlimited.
type PointLight struct {
	Name      string
	Color     colorful.Color
	Intensity float64
	Distance  float64
	Position  astro.Vec3
}

// ObjectName implements Object.
func (l *PointLight) ObjectName() string { return l.Name }

// Root is the top-level scene container. It is safe for concurrent use.
type Root struct {
	mu      sync.RWMutex
	objects []Object
}

// NewRoot creates an empty root.
func NewRoot() *Root {
	return &Root{}
}

// Add attaches o. Adding an object that is already attached is a no-op.
func (r *Root) Add(o Object) {
	if o == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(o) >= 0 {
		return
	}
	r.objects = append(r.objects, o)
}

// Remove detaches o. Removing an object that is not attached is a no-op.
func (r *Root) Remove(o Object) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexLocked(o); i >= 0 {
		r.objects = append(r.objects[:i], r.objects[i+1:]...)
	}
}

// Contains reports whether o is attached.
func (r *Root) Contains(o Object) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.indexLocked(o) >= 0
}

// Len returns the number of attached objects.
func (r *Root) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}

// Objects returns the attached objects in insertion order.
func (r *Root) Objects() []Object {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Object, len(r.objects))
	copy(out, r.objects)
	return out
}

func (r *Root) indexLocked(o Object) int {
	for i, existing := range r.objects {
		if existing == o {
			return i
		}
	}
	return -1
}
