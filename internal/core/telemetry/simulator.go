// Package telemetry drives asset readings with a pseudo-random stand-in for a
// live data source.
package telemetry

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zeusync/hvactwin/internal/core/events"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/scene"
)

var (
	ErrAlreadyRunning = errors.New("telemetry: simulator already running")
	ErrNotRunning     = errors.New("telemetry: simulator not running")
	ErrNoAssets       = errors.New("telemetry: scene has no assets")
)

const (
	DefaultInterval    = 10 * time.Second
	DefaultSeedSamples = 24

	PulseLoad     = 1.1
	pulseTempBase = 85.0
	pulseTempSpan = 10.0
)

// Sampler produces the next (load, temperature) reading for an asset.
type Sampler func(rng *rand.Rand, asset models.AssetSnapshot) (load, temperature float64)

// UniformSampler draws load in [0,1) and temperature in [20,80).
func UniformSampler(rng *rand.Rand, _ models.AssetSnapshot) (float64, float64) {
	return rng.Float64(), 20 + rng.Float64()*60
}

// sampleThroughput draws a throughput reading in [0.5,3.5).
func sampleThroughput(rng *rand.Rand) float64 {
	return 0.5 + rng.Float64()*3
}

// Report summarises one tick.
type Report struct {
	Tick       uint64            `json:"tick"`
	Throughput float64           `json:"throughput"`
	Failed     []models.AssetKey `json:"failed,omitempty"`
	Err        error             `json:"-"`
}

type Simulator struct {
	state    *scene.State
	rng      *rand.Rand
	bus      bus.EventBus
	log      log.Log
	sampler  Sampler
	interval time.Duration
	seed     int

	mu   sync.Mutex
	cron *cron.Cron
}

type Option func(*Simulator)

func WithInterval(d time.Duration) Option { return func(s *Simulator) { s.interval = d } }

func WithSampler(fn Sampler) Option { return func(s *Simulator) { s.sampler = fn } }

// WithSeedSamples sets how many history samples Start seeds before the first tick.
func WithSeedSamples(n int) Option { return func(s *Simulator) { s.seed = n } }

// New creates a simulator over state. rng is owned by the simulator and only used
// under the scene write lock.
func New(state *scene.State, rng *rand.Rand, eventBus bus.EventBus, logger log.Log, opts ...Option) *Simulator {
	s := &Simulator{
		state:    state,
		rng:      rng,
		bus:      eventBus,
		log:      logger.With(log.String("component", "telemetry")),
		sampler:  UniformSampler,
		interval: DefaultInterval,
		seed:     DefaultSeedSamples,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) Interval() time.Duration { return s.interval }

// Seed pushes n throughput samples into the history without counting a tick.
func (s *Simulator) Seed(n int) {
	_ = s.state.Update(func(tx *scene.Tx) error {
		for i := 0; i < n; i++ {
			tx.SeedHistory(sampleThroughput(s.rng))
		}
		return nil
	})
}

// Tick redraws every asset's reading, records throughput, and publishes a
// TelemetryTick event. A failing asset keeps its previous reading and the tick goes on.
func (s *Simulator) Tick() Report {
	var report Report
	_ = s.state.Update(func(tx *scene.Tx) error {
		var errs []error
		for _, a := range tx.Assets() {
			if err := s.sample(a); err != nil {
				report.Failed = append(report.Failed, a.Key())
				errs = append(errs, fmt.Errorf("%s: %w", a.Key(), err))
			}
		}
		report.Throughput = sampleThroughput(s.rng)
		tx.RecordThroughput(report.Throughput)
		report.Tick = tx.CompleteTick()
		report.Err = errors.Join(errs...)
		return nil
	})

	if report.Err != nil {
		s.log.Warn("telemetry tick had failures",
			log.Uint64("tick", report.Tick),
			log.Int("failed", len(report.Failed)),
			log.Error(report.Err),
		)
	} else {
		s.log.Debug("telemetry tick",
			log.Uint64("tick", report.Tick),
			log.Float64("throughput", report.Throughput),
		)
	}
	s.publish(events.TelemetryTick, report)
	return report
}

// sample applies one reading, converting a panicking sampler into an error.
func (s *Simulator) sample(a *models.Asset) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sampler panic: %v", r)
		}
	}()
	load, temp := s.sampler(s.rng, a.Snapshot())
	return a.SetTelemetry(load, temp)
}

// Pulse forces an asset into alert: temperature in [85,95), load 1.1. A nil
// target picks a random asset. An unknown target returns scene.ErrUnknownAsset
// and changes nothing.
func (s *Simulator) Pulse(target *models.AssetKey) (models.AssetSnapshot, error) {
	var pulsed models.AssetSnapshot
	err := s.state.Update(func(tx *scene.Tx) error {
		var a *models.Asset
		if target != nil {
			var err error
			if a, err = tx.Asset(*target); err != nil {
				return err
			}
		} else {
			assets := tx.Assets()
			if len(assets) == 0 {
				return ErrNoAssets
			}
			a = assets[s.rng.IntN(len(assets))]
		}
		if err := a.SetTelemetry(PulseLoad, pulseTempBase+s.rng.Float64()*pulseTempSpan); err != nil {
			return err
		}
		pulsed = a.Snapshot()
		return nil
	})
	if err != nil {
		return models.AssetSnapshot{}, err
	}
	s.log.Info("asset pulsed",
		log.String("asset", pulsed.Key.String()),
		log.Float64("temperature", pulsed.Temperature),
		log.String("status", pulsed.Status.String()),
	)
	s.publish(events.TelemetryPulse, pulsed)
	return pulsed, nil
}

func (s *Simulator) publish(typ string, data any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(bus.NewEvent(typ, "telemetry", data)); err != nil {
		s.log.Warn("telemetry event handlers failed", log.String("type", typ), log.Error(err))
	}
}

// Start seeds the history, runs one tick immediately, then ticks every interval
// until Stop.
func (s *Simulator) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return ErrAlreadyRunning
	}

	s.Seed(s.seed)
	s.Tick()

	logger := cronLogger{log: s.log}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() { s.Tick() }))
	c.Start()
	s.cron = c

	s.log.Info("telemetry simulator started", log.Duration("interval", s.interval))
	return nil
}

// Running reports whether the schedule is active.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron != nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (s *Simulator) Stop() error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return ErrNotRunning
	}
	<-c.Stop().Done()
	s.log.Info("telemetry simulator stopped")
	return nil
}
