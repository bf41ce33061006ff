// Package astro provides the vector math, rotation helpers and sidereal time
// used to place and spin the bodies.
package astro

import (
	"math"

	"github.com/litescript/ls-celestial/internal/body"
)

// Vec3 represents a 3D vector in scene space (Y up, Z towards the viewer).
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// RotateX rotates v by angle radians about the X axis (right-handed).
func (v Vec3) RotateX(angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{
		X: v.X,
		Y: v.Y*c - v.Z*s,
		Z: v.Y*s + v.Z*c,
	}
}

// RotateY rotates v by angle radians about the Y axis (right-handed).
func (v Vec3) RotateY(angle float64) Vec3 {
	s, c := math.Sincos(angle)
	return Vec3{
		X: v.X*c + v.Z*s,
		Y: v.Y,
		Z: -v.X*s + v.Z*c,
	}
}

// ViewTilt returns the rotation about X that takes camera space to scene
// space for perspective p. The equator view looks along -Z; the polar views
// look straight down onto the respective pole.
func ViewTilt(p body.Perspective) float64 {
	switch p {
	case body.NorthPole:
		return -math.Pi / 2
	case body.SouthPole:
		return math.Pi / 2
	default:
		return 0
	}
}

// ViewToScene maps a camera-space direction into scene space for p.
func ViewToScene(p body.Perspective, v Vec3) Vec3 {
	return v.RotateX(ViewTilt(p))
}

// SphereUV returns texture coordinates for unit normal n using the same
// parameterisation as a UV sphere built with phi measured from -X around Y
// and theta measured down from +Y.
func SphereUV(n Vec3) (u, v float64) {
	y := math.Max(-1, math.Min(1, n.Y))
	theta := math.Acos(y)
	phi := math.Atan2(n.Z, -n.X)
	if phi < 0 {
		phi += 2 * math.Pi
	}
	return phi / (2 * math.Pi), theta / math.Pi
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
