package injector

import (
	"math/rand/v2"

	"github.com/google/wire"

	"github.com/zeusync/hvactwin/internal/app"
	"github.com/zeusync/hvactwin/internal/config"
	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/command"
	"github.com/zeusync/hvactwin/internal/core/engine"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/flow"
	"github.com/zeusync/hvactwin/internal/core/layout"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/picking"
	"github.com/zeusync/hvactwin/internal/core/projector"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/telemetry"
	"github.com/zeusync/hvactwin/internal/server"
)

// Random streams derived from the configured seed, one per consumer.
const (
	sceneStream     = 0x5ce4e
	telemetryStream = 0x7e1e
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideBus,
	ProvideLayout,
	ProvideSurface,
	ProvideCamera,
	ProvideScene,
	ProvideSimulator,
	wire.Bind(new(command.Pulser), new(*telemetry.Simulator)),
	ProvidePicker,
	ProvideProjector,
	command.NewDispatcher,
	ProvideFlow,
	ProvideEngine,
	ProvideServerConfig,
	server.New,
	app.New,
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.Level())
}

// ProvideBus creates the bus and logs deliveries when debug logging is on.
func ProvideBus(logger log.Log) bus.EventBus {
	b := bus.New()
	if logger.GetLevel() <= log.LevelDebug {
		b.AddObserver(bus.NewLogObserver(logger))
	}
	return b
}

func ProvideLayout(cfg *config.Config) (*layout.Layout, error) {
	if cfg.LayoutFile != "" {
		return layout.LoadFile(cfg.LayoutFile)
	}
	return layout.Default(), nil
}

func ProvideSurface(cfg *config.Config) engine.Surface {
	return engine.FixedSurface{Width: cfg.Render.Width, Height: cfg.Render.Height}
}

func ProvideCamera(surface engine.Surface) (*camera.Camera, error) {
	if err := engine.CheckSurface(surface); err != nil {
		return nil, err
	}
	return camera.New(surface.Size())
}

func ProvideScene(cfg *config.Config, l *layout.Layout, cam *camera.Camera) (*scene.State, error) {
	return scene.Build(l, cam, rand.New(rand.NewPCG(cfg.Seed, sceneStream)),
		scene.WithHistoryCapacity(cfg.Telemetry.HistoryCapacity),
		scene.WithParticles(cfg.Flow.Pipes, cfg.Flow.ParticlesPerPipe),
		scene.WithFlowLevel(cfg.Flow.InitialLevel),
		scene.WithModelPath(cfg.Render.ModelPath),
	)
}

func ProvideSimulator(cfg *config.Config, state *scene.State, eventBus bus.EventBus, logger log.Log) *telemetry.Simulator {
	return telemetry.New(state, rand.New(rand.NewPCG(cfg.Seed, telemetryStream)), eventBus, logger,
		telemetry.WithInterval(cfg.Telemetry.Interval),
		telemetry.WithSeedSamples(cfg.Telemetry.SeedSamples),
	)
}

func ProvidePicker(state *scene.State, logger log.Log) *picking.Picker {
	return picking.New(state, logger)
}

func ProvideProjector(cfg *config.Config) *projector.Projector {
	p := projector.New()
	p.ResizeSparkline(cfg.Render.SparkWidth, cfg.Render.SparkHeight)
	return p
}

func ProvideFlow(cfg *config.Config) *flow.Engine {
	return flow.New(cfg.Flow.BaseRate)
}

func ProvideEngine(cfg *config.Config, state *scene.State, fl *flow.Engine, sim *telemetry.Simulator, logger log.Log) *engine.Engine {
	return engine.New(state, logger, []engine.System{fl},
		engine.WithFrameRate(cfg.Render.FrameRate),
		engine.WithScheduler(sim),
	)
}

func ProvideServerConfig(cfg *config.Config) server.Config {
	sc := server.DefaultConfig()
	sc.ListenAddr = cfg.Server.ListenAddr
	sc.StreamInterval = cfg.Server.StreamInterval
	if len(cfg.Server.AllowedOrigins) > 0 {
		sc.AllowedOrigins = cfg.Server.AllowedOrigins
	}
	return sc
}
