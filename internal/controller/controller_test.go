package controller

import (
	"errors"
	"image"
	"math"
	"testing"
	"time"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/celestial"
	"github.com/litescript/ls-celestial/internal/frame"
	"github.com/litescript/ls-celestial/internal/scene"
	"github.com/litescript/ls-celestial/internal/state"
	"github.com/litescript/ls-celestial/internal/texture"
)

type stubTextures struct{}

func (stubTextures) Acquire(b body.Body) *texture.Texture {
	return &texture.Texture{ID: "stub:" + b.String(), Image: image.NewNRGBA(image.Rect(0, 0, 2, 1))}
}

func (stubTextures) Glow() *texture.Texture {
	return &texture.Texture{ID: "stub:glow", Image: image.NewNRGBA(image.Rect(0, 0, 2, 2))}
}

type failingBuilder struct{}

func (failingBuilder) Build(body.Body, float64, float64) (*celestial.Visuals, error) {
	return nil, errors.New("no GPU today")
}

type fixture struct {
	store *state.Store
	sched *frame.Scheduler
	build *celestial.Builder
	root  *scene.Root
	t0    time.Time
	clock time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b, err := celestial.NewBuilder(stubTextures{}, celestial.WithSegments(8))
	if err != nil {
		t.Fatal(err)
	}
	t0 := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	return &fixture{
		store: state.NewStore(),
		sched: frame.NewScheduler(),
		build: b,
		root:  scene.NewRoot(),
		t0:    t0,
		clock: t0,
	}
}

func (f *fixture) controller(b body.Body, opts ...Option) *Controller {
	opts = append([]Option{WithClock(func() time.Time { return f.clock })}, opts...)
	return New(b, f.store, f.build, f.sched, opts...)
}

func near(a, b float64) bool {
	return math.Abs(astro.NormalizeAngle(a)-astro.NormalizeAngle(b)) < 1e-9
}

func TestMountAttachesAndSchedules(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)

	if c.Status() != Unmounted {
		t.Errorf("initial Status() = %v, want unmounted", c.Status())
	}
	if c.Visuals() == nil {
		t.Fatal("visuals should be built on construction")
	}

	c.Mount(f.root)

	if c.Status() != Running {
		t.Errorf("Status() = %v, want running", c.Status())
	}
	if !f.root.Contains(c.Visuals().Mesh) {
		t.Error("mesh not attached to root")
	}
	if f.root.Len() != 1 {
		t.Errorf("root has %d objects, want 1", f.root.Len())
	}
	if f.sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.sched.Pending())
	}
}

func TestFrameRotation(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)
	c.Mount(f.root)

	speed := f.store.Physical(body.Mars).AngularSpeed
	mult := f.store.SpeedMultiplier()

	f.sched.Flush(f.t0.Add(time.Second))
	want := speed * mult * 1
	if !near(c.Rotation(), want) {
		t.Errorf("after 1s Rotation() = %v, want %v", c.Rotation(), want)
	}

	f.sched.Flush(f.t0.Add(1500 * time.Millisecond))
	want += speed * mult * 0.5
	if !near(c.Rotation(), want) {
		t.Errorf("after 1.5s Rotation() = %v, want %v", c.Rotation(), want)
	}

	if f.sched.Pending() != 1 {
		t.Errorf("callback should re-register each frame, Pending() = %d", f.sched.Pending())
	}
}

func TestFrameAtMountInstantDoesNotRotate(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Sun)
	c.Mount(f.root)

	f.sched.Flush(f.t0)
	if c.Rotation() != 0 {
		t.Errorf("zero delta rotated to %v", c.Rotation())
	}

	// A timestamp from before the baseline is treated as zero delta.
	f.sched.Flush(f.t0.Add(-time.Second))
	if c.Rotation() != 0 {
		t.Errorf("negative delta rotated to %v", c.Rotation())
	}
}

func TestSpeedMultiplierReadEachFrame(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Earth)
	c.Mount(f.root)

	speed := f.store.Physical(body.Earth).AngularSpeed

	f.sched.Flush(f.t0.Add(time.Second))
	first := c.Rotation()

	if err := f.store.UpdateConfig(state.Partial{"speedMultiplier": 20000}); err != nil {
		t.Fatal(err)
	}
	// The multiplier change must not restart the loop.
	if f.sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", f.sched.Pending())
	}

	f.sched.Flush(f.t0.Add(2 * time.Second))
	want := first + speed*20000*1
	if !near(c.Rotation(), want) {
		t.Errorf("Rotation() = %v, want %v", c.Rotation(), want)
	}
}

func TestUnmountDetachesAndCancels(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Moon)
	c.Mount(f.root)

	c.Unmount()
	c.Unmount() // idempotent

	if c.Status() != Unmounted {
		t.Errorf("Status() = %v, want unmounted", c.Status())
	}
	if f.root.Len() != 0 {
		t.Errorf("root has %d objects after unmount, want 0", f.root.Len())
	}
	if f.sched.Pending() != 0 {
		t.Errorf("Pending() = %d after unmount, want 0", f.sched.Pending())
	}

	f.sched.Flush(f.t0.Add(time.Hour))
	if c.Rotation() != 0 {
		t.Errorf("cancelled frame rotated the mesh to %v", c.Rotation())
	}
}

func TestSunMountsThreeObjects(t *testing.T) {
	f := newFixture(t)
	mars := f.controller(body.Mars)
	sun := f.controller(body.Sun)

	mars.Mount(f.root)
	sun.Mount(f.root)
	if f.root.Len() != 4 {
		t.Fatalf("root has %d objects, want 4 (mars + sun, glow, light)", f.root.Len())
	}

	v := sun.Visuals()
	for _, obj := range []scene.Object{v.Mesh, v.Glow, v.Light} {
		if !f.root.Contains(obj) {
			t.Errorf("%s not attached", obj.ObjectName())
		}
	}

	sun.Unmount()
	if f.root.Len() != 1 || !f.root.Contains(mars.Visuals().Mesh) {
		t.Errorf("sun unmount should leave only the mars mesh, got %d objects", f.root.Len())
	}
	if mars.Status() != Running {
		t.Errorf("mars Status() = %v, want running", mars.Status())
	}
}

func TestNoRootStaysUnmounted(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)

	c.SetRoot(nil)
	if c.Status() != Unmounted {
		t.Errorf("Status() = %v, want unmounted", c.Status())
	}
	if f.sched.Pending() != 0 {
		t.Errorf("no frame should be requested without a root")
	}
}

func TestBuildFailureStaysUnmounted(t *testing.T) {
	f := newFixture(t)
	c := New(body.Mars, f.store, failingBuilder{}, f.sched)

	c.Mount(f.root)
	if c.Status() != Unmounted {
		t.Errorf("Status() = %v, want unmounted", c.Status())
	}
	if c.Visuals() != nil || c.Rotation() != 0 {
		t.Error("failed build should leave no visuals")
	}
	if f.root.Len() != 0 || f.sched.Pending() != 0 {
		t.Error("failed build should attach nothing and schedule nothing")
	}
	f.sched.Flush(time.Now())
}

func TestAngularSpeedChangeRestartsLoop(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)
	c.Mount(f.root)

	f.sched.Flush(f.t0.Add(time.Second))
	before := c.Rotation()

	f.clock = f.t0.Add(2 * time.Second)
	if err := f.store.UpdateConfig(state.Partial{"mars": state.Partial{"marsRotationSpeed": 0.001}}); err != nil {
		t.Fatal(err)
	}
	if f.sched.Pending() != 1 {
		t.Fatalf("Pending() = %d after restart, want exactly 1", f.sched.Pending())
	}

	// The new loop measures from the restart, not from the last frame.
	f.sched.Flush(f.t0.Add(3 * time.Second))
	want := before + 0.001*f.store.SpeedMultiplier()*1
	if !near(c.Rotation(), want) {
		t.Errorf("Rotation() = %v, want %v", c.Rotation(), want)
	}
}

func TestRadiusChangeRemounts(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Sun)
	c.Mount(f.root)

	f.sched.Flush(f.t0.Add(time.Second))
	oldVisuals := c.Visuals()
	rot := c.Rotation()

	if err := f.store.UpdateConfig(state.Partial{"radiusMultiplier": 0.001}); err != nil {
		t.Fatal(err)
	}

	nv := c.Visuals()
	if nv == oldVisuals {
		t.Fatal("radius change should produce new visuals")
	}
	if c.Status() != Running {
		t.Errorf("Status() = %v, want running", c.Status())
	}
	for _, obj := range oldVisuals.Objects() {
		if f.root.Contains(obj) {
			t.Errorf("old %s still attached", obj.ObjectName())
		}
	}
	if f.root.Len() != 3 {
		t.Errorf("root has %d objects, want 3", f.root.Len())
	}
	if !near(c.Rotation(), rot) {
		t.Errorf("rotation not carried over: %v, want %v", c.Rotation(), rot)
	}
	if f.sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.sched.Pending())
	}

	// Going back reuses the memoized visuals.
	if err := f.store.UpdateConfig(state.Partial{"radiusMultiplier": 0.0005}); err != nil {
		t.Fatal(err)
	}
	if c.Visuals() != oldVisuals {
		t.Error("restoring the radius should return the memoized visuals")
	}
}

func TestUnrelatedChangeKeepsLoop(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Moon)
	c.Mount(f.root)
	v := c.Visuals()

	f.store.SetSelectedBody(body.Sun)
	f.store.SetViewPerspective(body.NorthPole)
	if err := f.store.UpdateConfig(state.Partial{"mars": state.Partial{"marsRadius": 1}}); err != nil {
		t.Fatal(err)
	}

	if c.Visuals() != v {
		t.Error("unrelated change rebuilt the moon")
	}
	if f.sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.sched.Pending())
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Earth)
	c.Mount(f.root)
	v := c.Visuals()

	c.Close()
	if c.Status() != Unmounted || f.root.Len() != 0 || f.sched.Pending() != 0 {
		t.Error("Close should unmount")
	}

	if err := f.store.UpdateConfig(state.Partial{"radiusMultiplier": 0.002}); err != nil {
		t.Fatal(err)
	}
	if c.Visuals() != v {
		t.Error("closed controller should ignore store changes")
	}

	c.Mount(f.root)
	if c.Status() != Unmounted || f.root.Len() != 0 {
		t.Error("closed controller should not mount again")
	}
}

func TestResetConfigRestoresSpeed(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)
	c.Mount(f.root)

	_ = f.store.UpdateConfig(state.Partial{"mars": state.Partial{"marsRotationSpeed": 1.0}})
	f.store.ResetConfig()

	f.sched.Flush(f.t0.Add(time.Second))
	want := f.store.Physical(body.Mars).AngularSpeed * f.store.SpeedMultiplier()
	if !near(c.Rotation(), want) {
		t.Errorf("Rotation() = %v, want %v", c.Rotation(), want)
	}
}

func TestInfiniteSpeedKeepsRotationFinite(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)
	c.Mount(f.root)

	if err := f.store.UpdateConfigYAML([]byte("speedMultiplier: .inf\n")); err == nil {
		t.Error("infinite speedMultiplier should be rejected")
	}
	f.sched.Flush(f.t0.Add(time.Second))
	f.store.ResetConfig()
	f.sched.Flush(f.t0.Add(2 * time.Second))

	r := c.Rotation()
	if math.IsNaN(r) || math.IsInf(r, 0) {
		t.Fatalf("Rotation() = %v, want a finite angle", r)
	}
	want := 2 * f.store.Physical(body.Mars).AngularSpeed * f.store.SpeedMultiplier()
	if !near(r, want) {
		t.Errorf("Rotation() = %v, want %v", r, want)
	}
}

func TestWithInitialRotation(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Earth, WithInitialRotation(1.25))
	if !near(c.Rotation(), 1.25) {
		t.Errorf("Rotation() = %v, want 1.25", c.Rotation())
	}
}

func TestRemountOnNewRoot(t *testing.T) {
	f := newFixture(t)
	c := f.controller(body.Mars)
	c.Mount(f.root)

	other := scene.NewRoot()
	c.SetRoot(other)

	if f.root.Len() != 0 {
		t.Error("old root should be emptied")
	}
	if other.Len() != 1 {
		t.Error("new root should hold the mesh")
	}
	if f.sched.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", f.sched.Pending())
	}
}

func TestStatusString(t *testing.T) {
	tests := map[Status]string{Unmounted: "unmounted", Mounting: "mounting", Running: "running", Status(9): "unknown"}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
