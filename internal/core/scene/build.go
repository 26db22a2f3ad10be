package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/layout"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
	"github.com/zeusync/hvactwin/pkg/sequence"
)

const (
	DefaultFlowPipes        = 3
	DefaultParticlesPerPipe = 6
)

type options struct {
	historyCapacity  int
	flowPipes        int
	particlesPerPipe int
	flow             FlowLevel
	modelPath        string
}

type Option func(*options)

func WithHistoryCapacity(n int) Option { return func(o *options) { o.historyCapacity = n } }

// WithParticles places perPipe particles on each of the first pipes pipes.
func WithParticles(pipes, perPipe int) Option {
	return func(o *options) {
		o.flowPipes = pipes
		o.particlesPerPipe = perPipe
	}
}

func WithFlowLevel(level FlowLevel) Option { return func(o *options) { o.flow = level } }

// WithModelPath records an optional external model reference for hosts.
func WithModelPath(path string) Option { return func(o *options) { o.modelPath = path } }

// initialTelemetry returns the start-up reading for an asset type.
func initialTelemetry(t models.AssetType, rng *rand.Rand) (temperature, load float64) {
	switch t {
	case models.AssetTank:
		return 21 + rng.Float64()*4, 0.5
	case models.AssetChiller:
		return 35 + rng.Float64()*5, 0.5
	default:
		return 60 + rng.Float64()*10, 0.7
	}
}

// Build constructs the scene from a layout. Any layout or geometry problem is a
// ConfigurationError and no partial scene is returned.
func Build(l *layout.Layout, cam *camera.Camera, rng *rand.Rand, opts ...Option) (*State, error) {
	o := options{
		historyCapacity:  DefaultHistoryCapacity,
		flowPipes:        DefaultFlowPipes,
		particlesPerPipe: DefaultParticlesPerPipe,
		flow:             FlowOn,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if cam == nil {
		return nil, twinerr.RenderSurfaceUnavailable("no camera for the render surface")
	}
	if o.historyCapacity <= 0 {
		return nil, twinerr.Configuration("history capacity must be positive, got %d", o.historyCapacity)
	}
	if o.flowPipes < 0 || o.particlesPerPipe < 0 {
		return nil, twinerr.Configuration("negative particle counts %d/%d", o.flowPipes, o.particlesPerPipe)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	s := &State{
		byKey:     make(map[models.AssetKey]*models.Asset, len(l.Assets)),
		camera:    cam,
		modelPath: o.modelPath,
		flow:      o.flow,
		dark:      true,
		history:   sequence.NewRing[float64](o.historyCapacity),
	}

	for _, spec := range l.Assets {
		temp, load := initialTelemetry(spec.Key.Type, rng)
		a, err := models.NewAsset(spec.Key, spec.Position, temp, load)
		if err != nil {
			return nil, twinerr.WrapConfiguration(err, "asset %s", spec.Key)
		}
		s.assets = append(s.assets, a)
		s.byKey[spec.Key] = a
	}

	for i, spec := range l.Pipes {
		p, err := models.NewPipe(models.PipeID(i+1), spec.Kind, spec.Waypoints, spec.Radius, spec.Asset)
		if err != nil {
			return nil, twinerr.WrapConfiguration(err, "pipe %d", i+1)
		}
		s.pipes = append(s.pipes, p)
		s.pipeViews = append(s.pipeViews, pipeSnapshot(p))
	}

	n := min(o.flowPipes, len(s.pipes))
	for _, p := range s.pipes[:n] {
		for i := 0; i < o.particlesPerPipe; i++ {
			t := rng.Float64()
			color := models.ParticleColorA
			if i%2 == 1 {
				color = models.ParticleColorB
			}
			s.particles = append(s.particles, &models.FlowParticle{
				Pipe:     p,
				T:        t,
				Speed:    0.04 + rng.Float64()*0.06,
				Position: p.Curve().PointAt(t),
				Color:    color,
			})
		}
	}
	if len(s.assets) == 0 {
		return nil, twinerr.Configuration("layout has no assets")
	}
	return s, nil
}

func pipeSnapshot(p *models.Pipe) PipeSnapshot {
	v := PipeSnapshot{
		ID:       p.ID(),
		Name:     p.Name(),
		Label:    p.Label(),
		Kind:     p.Kind(),
		Radius:   p.Radius(),
		Length:   p.Curve().Length(),
		Midpoint: p.Midpoint(),
	}
	if key, ok := p.Asset(); ok {
		v.Asset = &key
	}
	return v
}

func (s *State) String() string {
	return fmt.Sprintf("scene(%d assets, %d pipes, %d particles)", len(s.assets), len(s.pipes), len(s.particles))
}
