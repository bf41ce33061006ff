package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// AngularSpeed returns the angular speed in radians per second of a body
// with the given rotation period. Non-positive periods yield zero.
func AngularSpeed(period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return 2 * math.Pi / period.Seconds()
}

// RotationStep returns the rotation in radians accumulated over delta at
// angularSpeed, scaled by the simulation speed multiplier.
func RotationStep(angularSpeed, speedMultiplier float64, delta time.Duration) float64 {
	return angularSpeed * speedMultiplier * delta.Seconds()
}

// NormalizeAngle wraps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// JulianDay returns the Julian Day for t.
func JulianDay(t time.Time) float64 {
	return julian.TimeToJD(t.UTC())
}

// GreenwichSiderealAngle returns the Greenwich mean sidereal time at t as an
// angle in [0, 2π). It is the Earth's rotation phase relative to the vernal
// equinox.
func GreenwichSiderealAngle(t time.Time) float64 {
	gmst := sidereal.Mean(JulianDay(t))
	return NormalizeAngle(gmst.Angle().Rad())
}
