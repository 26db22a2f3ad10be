// Package flow moves markers along pipe curves once per frame.
package flow

import (
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/scene"
)

// DefaultBaseRate keeps particles drifting when flow is off.
const DefaultBaseRate = 0.3

type Engine struct {
	baseRate float64
}

func New(baseRate float64) *Engine {
	return &Engine{baseRate: baseRate}
}

func (e *Engine) BaseRate() float64 { return e.baseRate }

// Step advances one particle for one frame at the given flow multiplier and
// re-evaluates its position by arc length.
func (e *Engine) Step(p *models.FlowParticle, multiplier float64) {
	p.T = models.WrapUnit(p.T + p.Speed*(e.baseRate+multiplier))
	p.Position = p.Pipe.Curve().PointAt(p.T)
}

// Advance steps every particle in the scene. It must run inside scene.Update.
func (e *Engine) Advance(tx *scene.Tx) {
	multiplier := tx.Flow().Speed()
	for _, p := range tx.Particles() {
		e.Step(p, multiplier)
	}
}

func (e *Engine) Name() string { return "flow" }

// Update implements engine.System.
func (e *Engine) Update(tx *scene.Tx, _ float64) { e.Advance(tx) }
