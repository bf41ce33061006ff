package astro

import (
	"math"
	"testing"

	"github.com/litescript/ls-celestial/internal/body"
)

func vecNear(a, b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("zero.Normalized() = %v, want zero", got)
	}
	got := Vec3{0, 3, 4}.Normalized()
	if !vecNear(got, Vec3{0, 0.6, 0.8}, 1e-12) {
		t.Errorf("Normalized() = %v, want {0 0.6 0.8}", got)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestRotations(t *testing.T) {
	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"Y quarter turn of +Z", Vec3{0, 0, 1}.RotateY(math.Pi / 2), Vec3{1, 0, 0}},
		{"Y quarter turn of +X", Vec3{1, 0, 0}.RotateY(math.Pi / 2), Vec3{0, 0, -1}},
		{"X quarter turn of +Y", Vec3{0, 1, 0}.RotateX(math.Pi / 2), Vec3{0, 0, 1}},
		{"X quarter turn of +Z", Vec3{0, 0, 1}.RotateX(math.Pi / 2), Vec3{0, -1, 0}},
		{"Y full turn", Vec3{0.3, 0.4, 0.5}.RotateY(2 * math.Pi), Vec3{0.3, 0.4, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !vecNear(tt.got, tt.want, 1e-12) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestViewToScene(t *testing.T) {
	towardViewer := Vec3{0, 0, 1}

	tests := []struct {
		p    body.Perspective
		want Vec3
	}{
		{body.Equator, Vec3{0, 0, 1}},
		{body.NorthPole, Vec3{0, 1, 0}},
		{body.SouthPole, Vec3{0, -1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.p.String(), func(t *testing.T) {
			got := ViewToScene(tt.p, towardViewer)
			if !vecNear(got, tt.want, 1e-12) {
				t.Errorf("camera axis in scene space = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSphereUV(t *testing.T) {
	tests := []struct {
		name  string
		n     Vec3
		wantU float64
		wantV float64
	}{
		{"north pole", Vec3{0, 1, 0}, -1, 0},
		{"south pole", Vec3{0, -1, 0}, -1, 1},
		{"-X seam", Vec3{-1, 0, 0}, 0, 0.5},
		{"+Z", Vec3{0, 0, 1}, 0.25, 0.5},
		{"+X", Vec3{1, 0, 0}, 0.5, 0.5},
		{"-Z", Vec3{0, 0, -1}, 0.75, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := SphereUV(tt.n)
			// u is arbitrary at the poles.
			if tt.wantU >= 0 && math.Abs(u-tt.wantU) > 1e-9 {
				t.Errorf("u = %v, want %v", u, tt.wantU)
			}
			if math.Abs(v-tt.wantV) > 1e-9 {
				t.Errorf("v = %v, want %v", v, tt.wantV)
			}
			if u < 0 || u >= 1 {
				t.Errorf("u = %v out of [0,1)", u)
			}
		})
	}
}

func TestDegRad(t *testing.T) {
	if got := DegToRad(180); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("DegToRad(180) = %v", got)
	}
	if got := RadToDeg(math.Pi / 2); math.Abs(got-90) > 1e-12 {
		t.Errorf("RadToDeg(π/2) = %v", got)
	}
}
