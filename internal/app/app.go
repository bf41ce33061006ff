// Package app composes the viewer: one store, one scene root, one frame
// scheduler and a controller per body.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/litescript/ls-celestial/internal/astro"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/celestial"
	"github.com/litescript/ls-celestial/internal/controller"
	"github.com/litescript/ls-celestial/internal/frame"
	"github.com/litescript/ls-celestial/internal/logging"
	"github.com/litescript/ls-celestial/internal/scene"
	"github.com/litescript/ls-celestial/internal/state"
	"github.com/litescript/ls-celestial/internal/texture"
)

// Config holds composition settings.
type Config struct {
	AssetsDir string
	Segments  int // 0 means celestial.DefaultSegments
	Logger    *logging.Logger
	Clock     func() time.Time

	// Textures overrides the asset acquirer. Tests use it to skip
	// procedural generation.
	Textures celestial.Textures
}

// App owns the shared scene objects and every body controller.
type App struct {
	Store     *state.Store
	Root      *scene.Root
	Scheduler *frame.Scheduler
	Builder   *celestial.Builder

	logger      *logging.Logger
	clock       func() time.Time
	controllers []*controller.Controller
}

// New builds the composition around store. Every body's visuals are
// preloaded concurrently, then a controller is created per body. Nothing is
// mounted until Mount.
func New(ctx context.Context, store *state.Store, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	textures := cfg.Textures
	if textures == nil {
		textures = texture.NewAcquirer(cfg.AssetsDir, logger.Named("texture"))
	}

	opts := []celestial.Option{celestial.WithLogger(logger.Named("builder"))}
	if cfg.Segments > 0 {
		opts = append(opts, celestial.WithSegments(cfg.Segments))
	}
	builder, err := celestial.NewBuilder(textures, opts...)
	if err != nil {
		return nil, fmt.Errorf("create builder: %w", err)
	}

	a := &App{
		Store:     store,
		Root:      scene.NewRoot(),
		Scheduler: frame.NewScheduler(),
		Builder:   builder,
		logger:    logger,
		clock:     clock,
	}
	if err := a.Preload(ctx); err != nil {
		return nil, err
	}

	for _, b := range body.All() {
		copts := []controller.Option{
			controller.WithLogger(logger.Named("controller")),
			controller.WithClock(clock),
		}
		if b == body.Earth {
			// Open with the prime meridian where it really is.
			copts = append(copts, controller.WithInitialRotation(astro.GreenwichSiderealAngle(clock())))
		}
		a.controllers = append(a.controllers, controller.New(b, store, builder, a.Scheduler, copts...))
	}
	return a, nil
}

// Preload builds every body's visuals for the current state concurrently.
// Builds already cached are not repeated.
func (a *App) Preload(ctx context.Context) error {
	start := time.Now()
	if err := a.Builder.Preload(ctx, a.Store.State()); err != nil {
		return err
	}
	a.logger.Debug("preloaded %d bodies in %v", len(body.All()), time.Since(start).Round(time.Millisecond))
	return nil
}

// Mount attaches every controller to the shared root.
func (a *App) Mount() {
	for _, c := range a.controllers {
		c.SetRoot(a.Root)
	}
	a.logger.Info("mounted %d controllers, %d scene objects", len(a.controllers), a.Root.Len())
}

// Controllers returns the controllers in body order.
func (a *App) Controllers() []*controller.Controller {
	out := make([]*controller.Controller, len(a.controllers))
	copy(out, a.controllers)
	return out
}

// Controller returns the controller for b, or nil.
func (a *App) Controller(b body.Body) *controller.Controller {
	for _, c := range a.controllers {
		if c.Body() == b {
			return c
		}
	}
	return nil
}

// Tick runs one frame at now.
func (a *App) Tick(now time.Time) int {
	return a.Scheduler.Flush(now)
}

// RunFrames drives the scheduler from a ticker until n frames have been
// flushed or ctx is done.
func (a *App) RunFrames(ctx context.Context, n int, interval time.Duration) error {
	if n <= 0 {
		return nil
	}
	return frame.Drive(ctx, a.Scheduler, interval, n)
}

// Close tears down every controller.
func (a *App) Close() {
	for _, c := range a.controllers {
		c.Close()
	}
	a.logger.Debug("closed, %d scene objects remain", a.Root.Len())
}
