package scene

import (
	"math"

	"github.com/litescript/ls-celestial/internal/astro"
)

// UV is a texture coordinate. U runs west to east from the -X seam, V runs
// from the north pole (0) to the south pole (1).
type UV struct {
	U, V float64
}

// SphereGeometry is an indexed UV sphere centred on the origin.
type SphereGeometry struct {
	Radius         float64
	WidthSegments  int
	HeightSegments int

	Vertices []astro.Vec3
	Normals  []astro.Vec3
	UVs      []UV
	Indices  []uint32
}

// NewSphereGeometry builds a sphere of the given radius with widthSegments
// slices around Y and heightSegments stacks from pole to pole. Segment
// counts are clamped to the minimum that still forms a closed solid.
func NewSphereGeometry(radius float64, widthSegments, heightSegments int) *SphereGeometry {
	widthSegments = max(3, widthSegments)
	heightSegments = max(2, heightSegments)

	g := &SphereGeometry{
		Radius:         radius,
		WidthSegments:  widthSegments,
		HeightSegments: heightSegments,
	}

	cols := widthSegments + 1
	rows := heightSegments + 1
	g.Vertices = make([]astro.Vec3, 0, cols*rows)
	g.Normals = make([]astro.Vec3, 0, cols*rows)
	g.UVs = make([]UV, 0, cols*rows)

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)

		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			sinP, cosP := math.Sincos(phi)

			n := astro.Vec3{X: -cosP * sinT, Y: cosT, Z: sinP * sinT}
			g.Normals = append(g.Normals, n)
			g.Vertices = append(g.Vertices, n.Scale(radius))
			g.UVs = append(g.UVs, UV{U: u, V: v})
		}
	}

	// Two triangles per quad, except at the poles where one collapses.
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*cols + ix + 1)
			b := uint32(iy*cols + ix)
			c := uint32((iy+1)*cols + ix)
			d := uint32((iy+1)*cols + ix + 1)

			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}

	return g
}

// TriangleCount returns the number of indexed triangles.
func (g *SphereGeometry) TriangleCount() int {
	return len(g.Indices) / 3
}
