package models

import (
	"math"

	"github.com/zeusync/hvactwin/internal/core/geom"
)

// Flow marker colors, alternating per particle.
const (
	ParticleColorA = "#00ffa9"
	ParticleColorB = "#8cf0ff"
)

// FlowParticle travels along one pipe's curve. The pipe is not owned.
type FlowParticle struct {
	Pipe     *Pipe
	T        float64
	Speed    float64
	Position geom.Vec3
	Color    string
}

// WrapUnit folds t into [0,1). Non-finite input maps to 0.
func WrapUnit(t float64) float64 {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0
	}
	t -= math.Floor(t)
	if t >= 1 || t < 0 {
		return 0
	}
	return t
}
