// Package config loads runtime settings from YAML, a .env file and HVACTWIN_*
// environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

const EnvPrefix = "HVACTWIN_"

var logLevels = map[string]struct{}{
	"debug": {}, "info": {}, "warn": {}, "warning": {}, "error": {}, "silent": {}, "off": {},
}

type Config struct {
	Seed       uint64          `yaml:"seed"`
	LogLevel   string          `yaml:"log_level"`
	LayoutFile string          `yaml:"layout_file,omitempty"`
	Telemetry  TelemetryConfig `yaml:"telemetry"`
	Flow       FlowConfig      `yaml:"flow"`
	Render     RenderConfig    `yaml:"render"`
	Server     ServerConfig    `yaml:"server"`
}

type TelemetryConfig struct {
	Interval        time.Duration `yaml:"interval"`
	HistoryCapacity int           `yaml:"history_capacity"`
	SeedSamples     int           `yaml:"seed_samples"`
}

type FlowConfig struct {
	BaseRate         float64         `yaml:"base_rate"`
	InitialLevel     scene.FlowLevel `yaml:"initial_level"`
	Pipes            int             `yaml:"pipes"`
	ParticlesPerPipe int             `yaml:"particles_per_pipe"`
}

type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	FrameRate   int    `yaml:"frame_rate"`
	SparkWidth  int    `yaml:"spark_width"`
	SparkHeight int    `yaml:"spark_height"`
	ModelPath   string `yaml:"model_path,omitempty"`
}

type ServerConfig struct {
	ListenAddr     string        `yaml:"listen_addr"`
	StreamInterval time.Duration `yaml:"stream_interval"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Seed:     1,
		LogLevel: "info",
		Telemetry: TelemetryConfig{
			Interval:        10 * time.Second,
			HistoryCapacity: 80,
			SeedSamples:     24,
		},
		Flow: FlowConfig{
			BaseRate:         0.3,
			InitialLevel:     scene.FlowOn,
			Pipes:            3,
			ParticlesPerPipe: 6,
		},
		Render: RenderConfig{
			Width:       1280,
			Height:      720,
			FrameRate:   60,
			SparkWidth:  520,
			SparkHeight: 120,
		},
		Server: ServerConfig{
			ListenAddr:     ":8080",
			StreamInterval: 100 * time.Millisecond,
			AllowedOrigins: []string{"*"},
		},
	}
}

// Level is the parsed log level.
func (c *Config) Level() log.Level {
	return log.ParseLevel(strings.ToLower(c.LogLevel))
}

// Decode reads YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, twinerr.WrapConfiguration(err, "decode config")
	}
	return c, nil
}

// Load reads path (optional, empty means defaults), then .env, then the
// environment, and validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, twinerr.WrapConfiguration(err, "open config %s", path)
		}
		defer func() { _ = f.Close() }()
		if c, err = Decode(f); err != nil {
			return nil, err
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, twinerr.WrapConfiguration(err, "load .env")
	}
	if err := c.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// ApplyEnv overrides fields from HVACTWIN_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		errs = append(errs, envErr("SEED", err))
		c.Seed = n
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("LAYOUT_FILE"); ok {
		c.LayoutFile = v
	}
	if v, ok := get("MODEL_PATH"); ok {
		c.Render.ModelPath = v
	}
	if v, ok := get("LISTEN_ADDR"); ok {
		c.Server.ListenAddr = v
	}
	if v, ok := get("TELEMETRY_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("TELEMETRY_INTERVAL", err))
		c.Telemetry.Interval = d
	}
	if v, ok := get("FRAME_RATE"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("FRAME_RATE", err))
		c.Render.FrameRate = n
	}
	if v, ok := get("FLOW_LEVEL"); ok {
		errs = append(errs, envErr("FLOW_LEVEL", c.Flow.InitialLevel.UnmarshalText([]byte(v))))
	}
	return errors.Join(errs...)
}

func envErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return twinerr.WrapConfiguration(err, "%s%s", EnvPrefix, name)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	check(c.Telemetry.Interval >= time.Second, "telemetry.interval must be at least 1s, got %s", c.Telemetry.Interval)
	check(c.Telemetry.HistoryCapacity > 0, "telemetry.history_capacity must be positive, got %d", c.Telemetry.HistoryCapacity)
	check(c.Telemetry.SeedSamples >= 0, "telemetry.seed_samples must not be negative")
	check(c.Flow.BaseRate >= 0, "flow.base_rate must not be negative, got %g", c.Flow.BaseRate)
	check(c.Flow.InitialLevel <= scene.FlowTurbo, "flow.initial_level out of range")
	check(c.Flow.Pipes >= 0 && c.Flow.ParticlesPerPipe >= 0, "flow particle counts must not be negative")
	check(c.Render.FrameRate > 0 && c.Render.FrameRate <= 240, "render.frame_rate must be in 1..240, got %d", c.Render.FrameRate)
	check(c.Render.Width > 0 && c.Render.Height > 0, "render surface must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	check(c.Render.SparkWidth > 0 && c.Render.SparkHeight > 0, "render spark size must be positive")
	check(c.Server.StreamInterval > 0, "server.stream_interval must be positive")
	_, _, err := net.SplitHostPort(c.Server.ListenAddr)
	check(err == nil, "server.listen_addr %q: %v", c.Server.ListenAddr, err)
	_, known := logLevels[strings.ToLower(c.LogLevel)]
	check(known, "unknown log_level %q", c.LogLevel)

	if len(errs) == 0 {
		return nil
	}
	return twinerr.WrapConfiguration(errors.Join(errs...), "invalid config")
}
