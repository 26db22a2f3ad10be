package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zeusync/hvactwin/internal/config"
	"github.com/zeusync/hvactwin/internal/core/layout"
	"github.com/zeusync/hvactwin/internal/injector"
)

type rootOptions struct {
	configPath string
	listenAddr string
	seed       uint64
	layoutFile string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "hvactwin",
		Short:         "HVAC facility digital twin",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "random seed (overrides config when set)")
	root.PersistentFlags().StringVar(&opts.layoutFile, "layout", "", "facility layout YAML (overrides config when set)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the twin and serve it over HTTP and WebSocket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	serve.Flags().StringVar(&opts.listenAddr, "addr", "", "listen address (overrides config when set)")

	var ticks, frames int
	view := &cobra.Command{
		Use:   "view",
		Short: "Run the twin headless and print the projected view as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, opts, ticks, frames)
		},
	}
	view.Flags().IntVar(&ticks, "ticks", 1, "telemetry ticks to run")
	view.Flags().IntVar(&frames, "frames", 60, "animation frames to run")

	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the default facility layout as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return layout.Default().Encode(cmd.OutOrStdout())
		},
	}

	root.AddCommand(serve, view, layoutCmd)
	return root
}

func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.layoutFile != "" {
		cfg.LayoutFile = o.layoutFile
	}
	if o.listenAddr != "" {
		cfg.Server.ListenAddr = o.listenAddr
	}
	return cfg, cfg.Validate()
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	a, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Run(ctx)
}

func runView(cmd *cobra.Command, opts *rootOptions, ticks, frames int) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	cfg.LogLevel = "silent"
	a, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	a.Simulator.Seed(cfg.Telemetry.SeedSamples)
	for i := 0; i < ticks; i++ {
		a.Simulator.Tick()
	}
	dt := 1 / float64(cfg.Render.FrameRate)
	for i := 0; i < frames; i++ {
		a.Engine.Tick(dt)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(a.Projector.Project(a.State.Snapshot()))
}
