// Package engine runs the frame loop and the telemetry schedule together.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

var ErrAlreadyRunning = errors.New("engine: already running")

const (
	DefaultFrameRate = 60
	// maxFrameDelta caps dt after a stall so animations do not jump.
	maxFrameDelta = 0.1
)

// Surface is the host render surface.
type Surface interface {
	Size() (width, height int)
}

// FixedSurface is a surface of constant size.
type FixedSurface struct {
	Width, Height int
}

func (s FixedSurface) Size() (int, int) { return s.Width, s.Height }

// CheckSurface fails with RenderSurfaceUnavailable for a missing or empty surface.
func CheckSurface(s Surface) error {
	if s == nil {
		return twinerr.RenderSurfaceUnavailable("no render surface")
	}
	if w, h := s.Size(); w <= 0 || h <= 0 {
		return twinerr.RenderSurfaceUnavailable("render surface is %dx%d", w, h)
	}
	return nil
}

// Scheduler is a background job started and stopped with the engine.
type Scheduler interface {
	Start() error
	Stop() error
}

type Engine struct {
	state     *scene.State
	systems   []System
	scheduler Scheduler
	log       log.Log
	interval  time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Engine)

// WithFrameRate sets frames per second. Non-positive values keep the default.
func WithFrameRate(fps int) Option {
	return func(e *Engine) {
		if fps > 0 {
			e.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithScheduler runs s alongside the frame loop.
func WithScheduler(s Scheduler) Option { return func(e *Engine) { e.scheduler = s } }

// New creates an engine running systems in order every frame, followed by the
// camera and clock systems.
func New(state *scene.State, logger log.Log, systems []System, opts ...Option) *Engine {
	e := &Engine{
		state:    state,
		systems:  append(append([]System(nil), systems...), CameraSystem, ClockSystem),
		log:      logger.With(log.String("component", "engine")),
		interval: time.Second / DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tick runs one frame of dt seconds.
func (e *Engine) Tick(dt float64) {
	_ = e.state.Update(func(tx *scene.Tx) error {
		for _, s := range e.systems {
			s.Update(tx, dt)
		}
		return nil
	})
}

// Run starts the scheduler, plays the camera intro and ticks frames until ctx
// is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.cancel != nil {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	e.cancel, e.done = cancel, done
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		e.cancel, e.done = nil, nil
		e.mu.Unlock()
		close(done)
	}()

	_ = e.state.Update(func(tx *scene.Tx) error {
		tx.Camera().StartIntro()
		return nil
	})

	g, ctx := errgroup.WithContext(ctx)
	if e.scheduler != nil {
		if err := e.scheduler.Start(); err != nil {
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			return e.scheduler.Stop()
		})
	}
	g.Go(func() error {
		return e.loop(ctx)
	})

	e.log.Info("engine started", log.Duration("frame_interval", e.interval))
	err := g.Wait()
	e.log.Info("engine stopped")
	return err
}

func (e *Engine) loop(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxFrameDelta)
			last = now
			e.Tick(dt)
		}
	}
}

// Stop cancels Run and waits for the frame loop and the scheduler to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel, done := e.cancel, e.done
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
