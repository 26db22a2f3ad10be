package engine

import (
	"github.com/zeusync/hvactwin/internal/core/scene"
)

// System is per-frame work. Update runs under the scene write lock and must not block.
type System interface {
	Name() string
	Update(tx *scene.Tx, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc struct {
	Label string
	Fn    func(tx *scene.Tx, dt float64)
}

func (s SystemFunc) Name() string                    { return s.Label }
func (s SystemFunc) Update(tx *scene.Tx, dt float64) { s.Fn(tx, dt) }

// CameraSystem advances the intro animation and auto-rotation.
var CameraSystem = SystemFunc{Label: "camera", Fn: func(tx *scene.Tx, dt float64) {
	tx.Camera().Update(dt)
}}

// ClockSystem accumulates shader time and counts frames.
var ClockSystem = SystemFunc{Label: "clock", Fn: func(tx *scene.Tx, dt float64) {
	tx.AdvanceClock(dt)
}}
