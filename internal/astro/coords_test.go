package astro

import (
	"math"
	"testing"
	"time"
)

func TestAngularSpeed(t *testing.T) {
	tests := []struct {
		name   string
		period time.Duration
		want   float64
	}{
		{"one day", 24 * time.Hour, 2 * math.Pi / 86400},
		{"one second", time.Second, 2 * math.Pi},
		{"zero", 0, 0},
		{"negative", -time.Second, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSpeed(tt.period)
			if math.Abs(got-tt.want) > 1e-15 {
				t.Errorf("AngularSpeed(%v) = %v, want %v", tt.period, got, tt.want)
			}
		})
	}
}

func TestRotationStep(t *testing.T) {
	earth := 2 * math.Pi / 86400

	// At 10000x, one real second is 10000 simulated seconds.
	got := RotationStep(earth, 10000, time.Second)
	want := earth * 10000
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("RotationStep = %v, want %v", got, want)
	}

	if got := RotationStep(earth, 10000, 0); got != 0 {
		t.Errorf("zero delta should not rotate, got %v", got)
	}

	// 8.64 real seconds at 10000x is a full day.
	got = RotationStep(earth, 10000, 8640*time.Millisecond)
	if math.Abs(got-2*math.Pi) > 1e-9 {
		t.Errorf("one simulated day = %v rad, want 2π", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{"J2000 epoch", time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{"Unix epoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{"2024-01-01 00:00 UTC", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 2460310.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDay(tt.time)
			if math.Abs(got-tt.expected) > 1e-4 {
				t.Errorf("JulianDay() = %v, want %v", got, tt.expected)
			}
		})
	}

	// Non-UTC input is converted first.
	cst := time.FixedZone("CST", 8*3600)
	local := time.Date(2000, 1, 1, 20, 0, 0, 0, cst)
	if got := JulianDay(local); math.Abs(got-2451545.0) > 1e-4 {
		t.Errorf("JulianDay(local) = %v, want 2451545.0", got)
	}
}

func TestGreenwichSiderealAngle(t *testing.T) {
	// GMST at J2000 is about 280.46°.
	t2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	got := RadToDeg(GreenwichSiderealAngle(t2000))
	if math.Abs(got-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v°, want ~280.46°", got)
	}

	// A sidereal day is ~3m56s shorter than a solar day, so GMST advances
	// ~0.9856° per solar day.
	next := RadToDeg(GreenwichSiderealAngle(t2000.Add(24 * time.Hour)))
	advance := math.Mod(next-got+360, 360)
	if math.Abs(advance-0.9856) > 0.01 {
		t.Errorf("GMST advance per day = %v°, want ~0.9856°", advance)
	}

	for _, ts := range []time.Time{t2000, time.Now(), time.Date(1999, 3, 20, 6, 0, 0, 0, time.UTC)} {
		a := GreenwichSiderealAngle(ts)
		if a < 0 || a >= 2*math.Pi {
			t.Errorf("GreenwichSiderealAngle(%v) = %v out of range", ts, a)
		}
	}
}
