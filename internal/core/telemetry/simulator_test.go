package telemetry

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/events"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/layout"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/scene"
)

func newSim(t *testing.T, opts ...Option) (*Simulator, *scene.State, bus.EventBus) {
	t.Helper()
	cam, err := camera.New(800, 600)
	require.NoError(t, err)
	state, err := scene.Build(layout.Default(), cam, rand.New(rand.NewPCG(7, 7)))
	require.NoError(t, err)
	b := bus.New()
	return New(state, rand.New(rand.NewPCG(3, 4)), b, log.NewNop(), opts...), state, b
}

func TestTickRedrawsEveryAsset(t *testing.T) {
	sim, state, b := newSim(t)
	var got []Report
	_, err := b.Subscribe(events.TelemetryTick, func(e bus.Event) error {
		got = append(got, e.Data().(Report))
		return nil
	})
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		r := sim.Tick()
		require.NoError(t, r.Err)
		assert.GreaterOrEqual(t, r.Throughput, 0.5)
		assert.Less(t, r.Throughput, 3.5)

		for _, a := range state.Snapshot().Assets {
			assert.GreaterOrEqual(t, a.Load, 0.0)
			assert.Less(t, a.Load, 1.0)
			assert.GreaterOrEqual(t, a.Temperature, 20.0)
			assert.Less(t, a.Temperature, 80.0)
			assert.Equal(t, models.DeriveStatus(a.Load, a.Temperature), a.Status)
		}
	}

	snap := state.Snapshot()
	assert.Equal(t, uint64(50), snap.Ticks)
	assert.Len(t, snap.History, 50)
	assert.Equal(t, snap.History[49], snap.Throughput)
	require.Len(t, got, 50)
	assert.Equal(t, uint64(50), got[49].Tick)
}

func TestHistoryEvictsOldest(t *testing.T) {
	sim, state, _ := newSim(t)
	var first []float64
	for i := 0; i < 81; i++ {
		sim.Tick()
		if i == 1 {
			first = state.Snapshot().History
		}
	}
	h := state.Snapshot().History
	require.Len(t, h, scene.DefaultHistoryCapacity)
	assert.Equal(t, first[1], h[0], "first sample evicted")
}

func TestFailingAssetIsIsolated(t *testing.T) {
	bad := models.AssetKey{Type: models.AssetChiller, ID: 2}
	panicky := models.AssetKey{Type: models.AssetTank, ID: 4}
	sampler := func(rng *rand.Rand, a models.AssetSnapshot) (float64, float64) {
		switch a.Key {
		case bad:
			return math.NaN(), 50
		case panicky:
			panic("sensor gone")
		}
		return UniformSampler(rng, a)
	}
	sim, state, _ := newSim(t, WithSampler(sampler))
	before := state.Snapshot()

	r := sim.Tick()
	assert.ErrorIs(t, r.Err, models.ErrNonFiniteTelemetry)
	assert.ElementsMatch(t, []models.AssetKey{bad, panicky}, r.Failed)
	assert.Equal(t, uint64(1), r.Tick)

	after := state.Snapshot()
	for i, a := range after.Assets {
		if a.Key == bad || a.Key == panicky {
			assert.Equal(t, before.Assets[i], a, "failed asset keeps its reading")
		}
	}
	assert.True(t, after.Sampled)
}

func TestPulseExplicitTarget(t *testing.T) {
	sim, state, b := newSim(t)
	pulses := 0
	_, _ = b.Subscribe(events.TelemetryPulse, func(bus.Event) error { pulses++; return nil })

	key := models.AssetKey{Type: models.AssetCompressor, ID: 2}
	got, err := sim.Pulse(&key)
	require.NoError(t, err)
	assert.Equal(t, key, got.Key)
	assert.Equal(t, PulseLoad, got.Load)
	assert.GreaterOrEqual(t, got.Temperature, 85.0)
	assert.Less(t, got.Temperature, 95.0)
	assert.Equal(t, models.StatusAlert, got.Status)
	assert.Equal(t, 1, pulses)

	for _, a := range state.Snapshot().Assets {
		if a.Key == key {
			assert.Equal(t, got, a)
		}
	}
}

func TestPulseRandomTarget(t *testing.T) {
	sim, _, _ := newSim(t)
	for i := 0; i < 20; i++ {
		got, err := sim.Pulse(nil)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAlert, got.Status)
	}
}

func TestPulseUnknownTarget(t *testing.T) {
	sim, state, _ := newSim(t)
	before := state.Snapshot().Assets

	_, err := sim.Pulse(&models.AssetKey{Type: models.AssetTank, ID: 9})
	assert.ErrorIs(t, err, scene.ErrUnknownAsset)
	assert.Equal(t, before, state.Snapshot().Assets)
}

func TestStartSeedsAndTicksOnce(t *testing.T) {
	sim, state, _ := newSim(t, WithInterval(time.Hour))

	require.NoError(t, sim.Start())
	assert.ErrorIs(t, sim.Start(), ErrAlreadyRunning)
	assert.True(t, sim.Running())

	snap := state.Snapshot()
	assert.Equal(t, uint64(1), snap.Ticks)
	assert.Len(t, snap.History, DefaultSeedSamples+1)

	require.NoError(t, sim.Stop())
	assert.ErrorIs(t, sim.Stop(), ErrNotRunning)
	assert.False(t, sim.Running())
}

func TestScheduleTicks(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the scheduler")
	}
	sim, state, _ := newSim(t, WithInterval(time.Second), WithSeedSamples(0))
	require.NoError(t, sim.Start())
	defer func() { _ = sim.Stop() }()

	assert.Eventually(t, func() bool {
		return state.Snapshot().Ticks >= 2
	}, 3*time.Second, 20*time.Millisecond)
}
