// Package picking maps pointer positions on the render surface to assets.
package picking

import (
	"math"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

// Result describes one pick. Key is nil when nothing was hit.
type Result struct {
	Key      *models.AssetKey `json:"key,omitempty"`
	Distance float64          `json:"distance,omitempty"`
	Changed  bool             `json:"changed"`
}

func (r Result) Hit() bool { return r.Key != nil }

// Err reports twinerr.ErrInputIgnored for misses. It is informational only.
func (r Result) Err() error {
	if r.Hit() {
		return nil
	}
	return twinerr.ErrInputIgnored
}

type Picker struct {
	state *scene.State
	log   log.Log
}

func New(state *scene.State, logger log.Log) *Picker {
	return &Picker{state: state, log: logger.With(log.String("component", "picking"))}
}

// NDC converts surface pixels to normalised device coordinates with y up. ok is
// false when the pointer lies outside the surface.
func NDC(px, py float64, width, height int) (x, y float64, ok bool) {
	w, h := float64(width), float64(height)
	if w <= 0 || h <= 0 || math.IsNaN(px) || math.IsNaN(py) || px < 0 || py < 0 || px > w || py > h {
		return 0, 0, false
	}
	return px/w*2 - 1, -(py/h)*2 + 1, true
}

// Pick selects the nearest asset under (px, py) or clears the selection.
func (p *Picker) Pick(px, py float64) Result {
	var res Result
	_ = p.state.Update(func(tx *scene.Tx) error {
		cam := tx.Camera()
		w, h := cam.Size()
		x, y, ok := NDC(px, py, w, h)
		var hit *models.Asset
		if ok {
			ray := cam.Ray(x, y)
			hit, res.Distance = nearest(ray, tx.Assets())
		}
		res.Changed = tx.Select(hit)
		if hit != nil {
			key := hit.Key()
			res.Key = &key
		}
		return nil
	})

	if res.Hit() {
		p.log.Debug("asset picked", log.String("asset", res.Key.String()), log.Float64("distance", res.Distance))
	} else {
		p.log.Debug("pick missed", log.Float64("x", px), log.Float64("y", py), log.Error(res.Err()))
	}
	return res
}

// nearest returns the asset whose proxy the ray enters first.
func nearest(ray geom.Ray, assets []*models.Asset) (*models.Asset, float64) {
	var (
		best     *models.Asset
		bestDist = math.Inf(1)
	)
	for _, a := range assets {
		d, ok := Proxy(a.Type(), a.Position()).Intersect(ray)
		if ok && d < bestDist {
			best, bestDist = a, d
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestDist
}
