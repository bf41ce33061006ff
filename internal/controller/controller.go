// Package controller animates one body: it attaches the body's visuals to
// the scene root, spins the mesh once per frame and detaches everything on
// unmount.
package controller

import (
	"sync"
	"time"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/celestial"
	"github.com/litescript/ls-celestial/internal/frame"
	"github.com/litescript/ls-celestial/internal/logging"
	"github.com/litescript/ls-celestial/internal/scene"
	"github.com/litescript/ls-celestial/internal/state"
)

// Status is the mount lifecycle state.
type Status int

const (
	Unmounted Status = iota
	Mounting
	Running
)

func (s Status) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Mounting:
		return "mounting"
	case Running:
		return "running"
	default:
		return "unknown"
	}
}

// Store is the part of the view-state store a controller reads.
type Store interface {
	SpeedMultiplier() float64
	RadiusMultiplier() float64
	Physical(b body.Body) state.BodyConstants
	Subscribe(fn state.Listener) (unsubscribe func())
}

// Builder constructs (memoized) visuals for a body.
type Builder interface {
	Build(b body.Body, realRadius, radiusMultiplier float64) (*celestial.Visuals, error)
}

// Scheduler runs a callback once before the next repaint.
type Scheduler interface {
	RequestFrame(cb frame.Callback) frame.ID
	CancelFrame(id frame.ID)
}

// Controller owns the attach/animate/detach lifecycle of one body.
type Controller struct {
	body      body.Body
	store     Store
	builder   Builder
	scheduler Scheduler
	logger    *logging.Logger
	clock     func() time.Time

	initialRotation *float64

	mu           sync.Mutex
	status       Status
	root         scene.Container
	visuals      *celestial.Visuals
	builtRadius  float64
	builtMult    float64
	angularSpeed float64
	frameID      frame.ID
	generation   uint64
	last         time.Time
	unsubscribe  func()
	closed       bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithClock sets the time source used as the animation baseline on mount.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithInitialRotation sets the mesh spin before the first mount.
func WithInitialRotation(angle float64) Option {
	return func(c *Controller) {
		c.initialRotation = &angle
	}
}

// New creates a controller for b and builds its visuals. The controller
// starts unmounted; supply a root with SetRoot or Mount to attach it. A
// failed build is logged and leaves the controller inert until a store
// change triggers a successful rebuild.
func New(b body.Body, store Store, builder Builder, scheduler Scheduler, opts ...Option) *Controller {
	c := &Controller{
		body:      b,
		store:     store,
		builder:   builder,
		scheduler: scheduler,
		logger:    logging.Discard(),
		clock:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named(b.String())

	c.mu.Lock()
	c.rebuildLocked(store.Physical(b).Radius, store.RadiusMultiplier())
	if c.visuals != nil && c.initialRotation != nil {
		c.visuals.Mesh.SetRotationY(*c.initialRotation)
	}
	c.mu.Unlock()

	c.unsubscribe = store.Subscribe(c.onStoreChange)
	return c
}

// Body returns the body this controller animates.
func (c *Controller) Body() body.Body {
	return c.body
}

// Status returns the current lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Visuals returns the currently built visuals, or nil.
func (c *Controller) Visuals() *celestial.Visuals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visuals
}

// Rotation returns the current mesh spin in radians.
func (c *Controller) Rotation() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visuals == nil {
		return 0
	}
	return c.visuals.Mesh.RotationY()
}

// SetRoot supplies the scene root. A non-nil root mounts the body (after
// unmounting from any previous root); nil unmounts it.
func (c *Controller) SetRoot(root scene.Container) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if root == nil {
		c.unmountLocked()
		c.root = nil
		return
	}
	if c.root == root && c.status == Running {
		return
	}
	c.unmountLocked()
	c.root = root
	c.mountLocked()
}

// Mount attaches the body to root. Equivalent to SetRoot(root).
func (c *Controller) Mount(root scene.Container) {
	c.SetRoot(root)
}

// Unmount detaches every object this controller added and cancels the
// pending frame. It is idempotent.
func (c *Controller) Unmount() {
	c.SetRoot(nil)
}

// Close unmounts and stops watching the store. The controller cannot be
// mounted again.
func (c *Controller) Close() {
	c.mu.Lock()
	c.unmountLocked()
	c.root = nil
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) mountLocked() {
	if c.root == nil || c.visuals == nil {
		c.status = Unmounted
		return
	}

	c.status = Mounting
	for _, obj := range c.visuals.Objects() {
		c.root.Add(obj)
	}
	c.angularSpeed = c.store.Physical(c.body).AngularSpeed
	c.scheduleLocked()
	c.status = Running
	c.logger.Debug("mounted (%d objects, %.3g rad/s)", len(c.visuals.Objects()), c.angularSpeed)
}

func (c *Controller) unmountLocked() {
	if c.status == Unmounted {
		return
	}
	c.scheduler.CancelFrame(c.frameID)
	c.frameID = 0
	c.generation++
	if c.root != nil && c.visuals != nil {
		for _, obj := range c.visuals.Objects() {
			c.root.Remove(obj)
		}
	}
	c.status = Unmounted
	c.logger.Debug("unmounted")
}

// scheduleLocked starts a fresh animation loop with the baseline taken now.
func (c *Controller) scheduleLocked() {
	c.generation++
	c.last = c.clock()
	c.requestLocked(c.generation)
}

func (c *Controller) requestLocked(gen uint64) {
	c.frameID = c.scheduler.RequestFrame(func(now time.Time) {
		c.onFrame(gen, now)
	})
}

func (c *Controller) onFrame(gen uint64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || c.status != Running || c.visuals == nil {
		return
	}

	delta := now.Sub(c.last)
	if delta < 0 {
		delta = 0
	}
	c.last = now

	step := astro.RotationStep(c.angularSpeed, c.store.SpeedMultiplier(), delta)
	c.visuals.Mesh.RotateY(step)

	c.requestLocked(gen)
}

// rebuildLocked fetches visuals for the given inputs. It reports whether
// the visuals identity changed.
func (c *Controller) rebuildLocked(radius, mult float64) bool {
	c.builtRadius, c.builtMult = radius, mult

	v, err := c.builder.Build(c.body, radius, mult)
	if err != nil {
		c.logger.Error("build %s visuals: %v", c.body, err)
		v = nil
	}
	if v == c.visuals {
		return false
	}

	if c.visuals != nil && v != nil {
		v.Mesh.SetRotationY(c.visuals.Mesh.RotationY())
	}
	c.visuals = v
	return true
}

func (c *Controller) onStoreChange(st state.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	phys := st.Physical(c.body)
	if phys.Radius != c.builtRadius || st.RadiusMultiplier != c.builtMult {
		old := c.visuals
		if c.rebuildLocked(phys.Radius, st.RadiusMultiplier) {
			c.logger.Debug("visuals replaced after radius change")
			if c.root != nil {
				// Detach the old objects before the new ones go in.
				current := c.visuals
				c.visuals = old
				c.unmountLocked()
				c.visuals = current
				c.mountLocked()
			}
			return
		}
	}

	if c.status == Running && phys.AngularSpeed != c.angularSpeed {
		c.logger.Debug("angular speed %.3g -> %.3g, restarting animation", c.angularSpeed, phys.AngularSpeed)
		c.scheduler.CancelFrame(c.frameID)
		c.angularSpeed = phys.AngularSpeed
		c.scheduleLocked()
	}
}
