// Package app ties the twin's components into one runnable process.
package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/zeusync/hvactwin/internal/config"
	"github.com/zeusync/hvactwin/internal/core/command"
	"github.com/zeusync/hvactwin/internal/core/engine"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/projector"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/telemetry"
	"github.com/zeusync/hvactwin/internal/server"
)

type App struct {
	Config     *config.Config
	Log        log.Log
	Bus        bus.EventBus
	State      *scene.State
	Simulator  *telemetry.Simulator
	Dispatcher *command.Dispatcher
	Projector  *projector.Projector
	Engine     *engine.Engine
	Server     *server.Server
}

func New(
	cfg *config.Config,
	logger log.Log,
	eventBus bus.EventBus,
	state *scene.State,
	sim *telemetry.Simulator,
	dispatcher *command.Dispatcher,
	proj *projector.Projector,
	eng *engine.Engine,
	srv *server.Server,
) *App {
	return &App{
		Config:     cfg,
		Log:        logger,
		Bus:        eventBus,
		State:      state,
		Simulator:  sim,
		Dispatcher: dispatcher,
		Projector:  proj,
		Engine:     eng,
		Server:     srv,
	}
}

// Run drives the engine (frame loop and telemetry) and the server until ctx
// is cancelled or either fails.
func (a *App) Run(ctx context.Context) error {
	sub, err := a.Dispatcher.Listen()
	if err != nil {
		return err
	}
	defer func() { _ = sub.Cancel() }()

	a.Log.Info("twin starting",
		log.String("scene", a.State.String()),
		log.String("listen", a.Config.Server.ListenAddr),
		log.Uint64("seed", a.Config.Seed),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Engine.Run(ctx) })
	g.Go(func() error { return a.Server.Start(ctx) })
	err = g.Wait()
	a.Log.Info("twin stopped")
	return err
}
