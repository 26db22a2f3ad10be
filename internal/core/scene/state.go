// Package scene owns the mutable state of the twin: assets, pipes, flow particles,
// selection, and the user-facing toggles.
//
// State is the single shared context. Writers (simulator, commands, picking)
// go through Update and hold the write lock for the whole callback; readers take a
// Snapshot under the read lock.
package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zeusync/hvactwin/internal/core/camera"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/pkg/sequence"
)

var ErrUnknownAsset = errors.New("scene: unknown asset")

// DefaultHistoryCapacity bounds the throughput history.
const DefaultHistoryCapacity = 80

type State struct {
	mu sync.RWMutex

	assets    []*models.Asset
	byKey     map[models.AssetKey]*models.Asset
	pipes     []*models.Pipe
	pipeViews []PipeSnapshot
	particles []*models.FlowParticle
	camera    *camera.Camera
	modelPath string

	selected   *models.Asset
	flow       FlowLevel
	dark       bool
	history    *sequence.Ring[float64]
	throughput float64
	sampled    bool
	ticks      uint64
	frames     uint64
	shaderTime float64
}

// Update runs fn under the write lock. The Tx must not escape fn.
func (s *State) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s})
}

// AssetKeys lists every asset key in construction order.
func (s *State) AssetKeys() []models.AssetKey {
	keys := make([]models.AssetKey, len(s.assets))
	for i, a := range s.assets {
		keys[i] = a.Key()
	}
	return keys
}

// Tx is the write view handed to Update callbacks.
type Tx struct{ s *State }

func (tx *Tx) Assets() []*models.Asset           { return tx.s.assets }
func (tx *Tx) Particles() []*models.FlowParticle { return tx.s.particles }
func (tx *Tx) Camera() *camera.Camera            { return tx.s.camera }
func (tx *Tx) Flow() FlowLevel                   { return tx.s.flow }
func (tx *Tx) Selected() *models.Asset           { return tx.s.selected }
func (tx *Tx) Ticks() uint64                     { return tx.s.ticks }

// Asset looks up an asset by key.
func (tx *Tx) Asset(key models.AssetKey) (*models.Asset, error) {
	a, ok := tx.s.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, key)
	}
	return a, nil
}

// Select replaces the selection; nil clears it. It reports whether the slot changed.
func (tx *Tx) Select(a *models.Asset) bool {
	if tx.s.selected == a {
		return false
	}
	tx.s.selected = a
	return true
}

func (tx *Tx) SetFlow(level FlowLevel) { tx.s.flow = level }

// ToggleTheme flips between dark and light and returns the new theme.
func (tx *Tx) ToggleTheme() Theme {
	tx.s.dark = !tx.s.dark
	return tx.s.theme()
}

// ToggleAutoRotate flips camera auto-rotation and returns the new setting.
func (tx *Tx) ToggleAutoRotate() bool {
	on := !tx.s.camera.AutoRotate()
	tx.s.camera.SetAutoRotate(on)
	return on
}

// RecordThroughput appends a sample to the history and marks it as the latest reading.
func (tx *Tx) RecordThroughput(v float64) {
	tx.s.history.Push(v)
	tx.s.throughput = v
	tx.s.sampled = true
}

// SeedHistory appends a sample without touching the latest reading.
func (tx *Tx) SeedHistory(v float64) { tx.s.history.Push(v) }

// CompleteTick bumps the telemetry tick counter and returns the new count.
func (tx *Tx) CompleteTick() uint64 {
	tx.s.ticks++
	return tx.s.ticks
}

// AdvanceClock adds dt seconds to the shader clock and counts a frame.
func (tx *Tx) AdvanceClock(dt float64) {
	tx.s.shaderTime += dt
	tx.s.frames++
}

func (s *State) theme() Theme {
	if s.dark {
		return DarkTheme
	}
	return LightTheme
}
