package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/flow"
	"github.com/zeusync/hvactwin/internal/core/layout"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

type fakeScheduler struct {
	started, stopped atomic.Int32
	startErr         error
}

func (f *fakeScheduler) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started.Add(1)
	return nil
}

func (f *fakeScheduler) Stop() error {
	f.stopped.Add(1)
	return nil
}

func newState(t *testing.T) *scene.State {
	t.Helper()
	cam, err := camera.New(800, 600)
	require.NoError(t, err)
	s, err := scene.Build(layout.Default(), cam, rand.New(rand.NewPCG(4, 2)))
	require.NoError(t, err)
	return s
}

func TestCheckSurface(t *testing.T) {
	assert.ErrorIs(t, CheckSurface(nil), twinerr.ErrRenderSurfaceUnavailable)
	assert.ErrorIs(t, CheckSurface(FixedSurface{Width: 0, Height: 10}), twinerr.ErrRenderSurfaceUnavailable)
	assert.NoError(t, CheckSurface(FixedSurface{Width: 1, Height: 1}))
}

func TestTickRunsSystemsInOrder(t *testing.T) {
	state := newState(t)
	var order []string
	probe := func(name string) System {
		return SystemFunc{Label: name, Fn: func(*scene.Tx, float64) { order = append(order, name) }}
	}
	e := New(state, log.NewNop(), []System{probe("a"), flow.New(flow.DefaultBaseRate), probe("b")})

	before := state.Snapshot()
	e.Tick(0.5)
	e.Tick(0.25)
	after := state.Snapshot()

	assert.Equal(t, []string{"a", "b", "a", "b"}, order)
	assert.Equal(t, uint64(2), after.Frames)
	assert.Equal(t, 0.75, after.ShaderTime)
	assert.NotEqual(t, before.Particles[0].T, after.Particles[0].T)
	assert.NotEqual(t, before.Camera.Position, after.Camera.Position, "auto-rotate moved the camera")
	for _, p := range after.Particles {
		assert.GreaterOrEqual(t, p.T, 0.0)
		assert.Less(t, p.T, 1.0)
	}
}

func TestRunAndStop(t *testing.T) {
	state := newState(t)
	sched := &fakeScheduler{}
	e := New(state, log.NewNop(), nil, WithFrameRate(200), WithScheduler(sched))

	errCh := make(chan error, 1)
	go func() { errCh <- e.Run(context.Background()) }()

	assert.Eventually(t, func() bool { return state.Snapshot().Frames >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, e.Run(context.Background()), ErrAlreadyRunning)

	e.Stop()
	require.NoError(t, <-errCh)
	assert.Equal(t, int32(1), sched.started.Load())
	assert.Equal(t, int32(1), sched.stopped.Load())

	frames := state.Snapshot().Frames
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, frames, state.Snapshot().Frames, "no frames after Stop")
	e.Stop()
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e := New(newState(t), log.NewNop(), nil, WithFrameRate(100))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, e.Run(ctx))
}

func TestRunFailsWhenSchedulerFails(t *testing.T) {
	boom := errors.New("boom")
	e := New(newState(t), log.NewNop(), nil, WithScheduler(&fakeScheduler{startErr: boom}))
	assert.ErrorIs(t, e.Run(context.Background()), boom)
	assert.ErrorIs(t, e.Run(context.Background()), boom, "engine can be run again after a failed start")
}
