package picking

import (
	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/models"
)

// Hit-test volumes, matching the rendered meshes.
const (
	tankRadius       = 1.6
	tankHeight       = 5.2
	chillerWidth     = 6.0
	chillerHeight    = 3.0
	chillerDepth     = 3.0
	compressorRadius = 1.3
	compressorHeight = 4.2
	compressorLift   = 2.5
)

// Proxy returns the hit-test shape for an asset placed at pos.
func Proxy(t models.AssetType, pos geom.Vec3) geom.Shape {
	switch t {
	case models.AssetTank:
		return geom.Cylinder{Center: pos, Radius: tankRadius, Height: tankHeight}
	case models.AssetChiller:
		return geom.BoxFromCenter(pos.Add(geom.V3(0, chillerHeight/2, 0)), geom.V3(chillerWidth, chillerHeight, chillerDepth))
	default:
		return geom.Cylinder{Center: pos.Add(geom.V3(0, compressorLift, 0)), Radius: compressorRadius, Height: compressorHeight}
	}
}
