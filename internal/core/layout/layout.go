// Package layout describes where assets stand and how pipes run between them.
//
// Default returns the facility as a constant. A layout can also be read from YAML
// with the same shape, and Validate enforces the topology rules the scene relies on.
package layout

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/hvactwin/internal/core/geom"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

// AssetSpec places one asset.
type AssetSpec struct {
	Key      models.AssetKey `yaml:",inline"`
	Position geom.Vec3       `yaml:"position"`
}

// PipeSpec describes one pipe. Asset is set for spurs only.
type PipeSpec struct {
	Kind      models.PipeKind  `yaml:"kind"`
	Waypoints []geom.Vec3      `yaml:"waypoints"`
	Radius    float64          `yaml:"radius"`
	Asset     *models.AssetKey `yaml:"asset,omitempty"`
}

// Layout is the full facility description. Pipe ids follow slice order, starting at 1.
type Layout struct {
	Assets []AssetSpec `yaml:"assets"`
	Pipes  []PipeSpec  `yaml:"pipes"`
}

const (
	tankY        = 2.6
	tankX        = -34.0
	tankPipeY    = 1.8
	tankTrunkX   = -30.0
	tankSpurGap  = 1.8
	chillerZ     = -6.0
	chillerPipeY = 1.2
	chillerTrunk = -3.0
	compZ        = 6.0
	compPipeY    = 1.2
	compTrunk    = 3.0

	trunkRadius      = 0.16
	tankTrunkRadius  = 0.18
	spurRadius       = 0.12
	crossRadius      = 0.14
	chillerSpurShift = 1.5
	compSpurShift    = 2.0
)

var (
	tankZs       = []float64{-10, -2, 6, 14}
	chillerXs    = []float64{-20, -10, 0, 10, 20}
	compressorXs = []float64{-15, -5, 5, 15}
)

// Default returns the 4 tank, 5 chiller, 4 compressor facility and its 18 pipes.
func Default() *Layout {
	l := &Layout{}

	var tanks, chillers, compressors []AssetSpec
	for i, z := range tankZs {
		tanks = append(tanks, AssetSpec{
			Key:      models.AssetKey{Type: models.AssetTank, ID: i + 1},
			Position: geom.V3(tankX, tankY, z),
		})
	}
	for i, x := range chillerXs {
		chillers = append(chillers, AssetSpec{
			Key:      models.AssetKey{Type: models.AssetChiller, ID: i + 1},
			Position: geom.V3(x, 0, chillerZ),
		})
	}
	for i, x := range compressorXs {
		compressors = append(compressors, AssetSpec{
			Key:      models.AssetKey{Type: models.AssetCompressor, ID: i + 1},
			Position: geom.V3(x, 0, compZ),
		})
	}
	l.Assets = append(append(append(l.Assets, tanks...), chillers...), compressors...)

	l.Pipes = append(l.Pipes, trunk([]geom.Vec3{geom.V3(-40, tankPipeY, -12), geom.V3(tankTrunkX, tankPipeY, 16)}, tankTrunkRadius))
	for _, t := range tanks {
		p := t.Position
		l.Pipes = append(l.Pipes, spur(t.Key,
			geom.V3(p.X()+tankSpurGap, tankPipeY, p.Z()),
			geom.V3(tankTrunkX, tankPipeY, p.Z())))
	}

	l.Pipes = append(l.Pipes, trunk([]geom.Vec3{geom.V3(-24, chillerPipeY, chillerTrunk), geom.V3(24, chillerPipeY, chillerTrunk)}, trunkRadius))
	for _, c := range chillers {
		p := c.Position
		l.Pipes = append(l.Pipes, spur(c.Key,
			geom.V3(p.X(), chillerPipeY, p.Z()+chillerSpurShift),
			geom.V3(p.X(), chillerPipeY, chillerTrunk)))
	}

	l.Pipes = append(l.Pipes, trunk([]geom.Vec3{geom.V3(-20, compPipeY, compTrunk), geom.V3(20, compPipeY, compTrunk)}, trunkRadius))
	for _, c := range compressors {
		p := c.Position
		l.Pipes = append(l.Pipes, spur(c.Key,
			geom.V3(p.X(), compPipeY, p.Z()-compSpurShift),
			geom.V3(p.X(), compPipeY, compTrunk)))
	}

	l.Pipes = append(l.Pipes,
		PipeSpec{Kind: models.PipeCross, Waypoints: []geom.Vec3{geom.V3(-28, 1.5, -8), geom.V3(-28, 1.5, 8)}, Radius: crossRadius},
		PipeSpec{Kind: models.PipeCross, Waypoints: []geom.Vec3{geom.V3(22, 1.5, 0), geom.V3(22, 1.5, 8)}, Radius: crossRadius},
	)
	return l
}

func trunk(pts []geom.Vec3, radius float64) PipeSpec {
	return PipeSpec{Kind: models.PipeTrunk, Waypoints: pts, Radius: radius}
}

func spur(key models.AssetKey, from, to geom.Vec3) PipeSpec {
	k := key
	return PipeSpec{Kind: models.PipeSpur, Waypoints: []geom.Vec3{from, to}, Radius: spurRadius, Asset: &k}
}

// Count returns how many assets of type t the layout places.
func (l *Layout) Count(t models.AssetType) int {
	n := 0
	for _, a := range l.Assets {
		if a.Key.Type == t {
			n++
		}
	}
	return n
}

// PipesOf returns the pipes of one kind, in id order.
func (l *Layout) PipesOf(kind models.PipeKind) []PipeSpec {
	var out []PipeSpec
	for _, p := range l.Pipes {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks asset keys are unique, every pipe is buildable and every
// asset has exactly one spur. All problems are reported together.
func (l *Layout) Validate() error {
	var errs []error
	if len(l.Assets) == 0 {
		errs = append(errs, errors.New("layout has no assets"))
	}

	spurs := make(map[models.AssetKey]int, len(l.Assets))
	for i, a := range l.Assets {
		if a.Key.ID < 1 {
			errs = append(errs, fmt.Errorf("asset %d: id must be >= 1", i))
		}
		if !geom.Finite(a.Position) {
			errs = append(errs, fmt.Errorf("asset %s: position is not finite", a.Key))
		}
		if _, dup := spurs[a.Key]; dup {
			errs = append(errs, fmt.Errorf("asset %s: duplicate key", a.Key))
		}
		spurs[a.Key] = 0
	}

	for i, p := range l.Pipes {
		id := i + 1
		if len(p.Waypoints) < 2 {
			errs = append(errs, fmt.Errorf("pipe %d: needs at least 2 waypoints, got %d", id, len(p.Waypoints)))
		}
		if !(p.Radius > 0) {
			errs = append(errs, fmt.Errorf("pipe %d: radius must be positive", id))
		}
		switch {
		case p.Kind == models.PipeSpur && p.Asset == nil:
			errs = append(errs, fmt.Errorf("pipe %d: spur without asset", id))
		case p.Kind != models.PipeSpur && p.Asset != nil:
			errs = append(errs, fmt.Errorf("pipe %d: only spurs reference an asset", id))
		case p.Asset != nil:
			n, ok := spurs[*p.Asset]
			if !ok {
				errs = append(errs, fmt.Errorf("pipe %d: unknown asset %s", id, *p.Asset))
				continue
			}
			spurs[*p.Asset] = n + 1
		}
	}

	for _, a := range l.Assets {
		if n := spurs[a.Key]; n != 1 {
			errs = append(errs, fmt.Errorf("asset %s: has %d spurs, want exactly 1", a.Key, n))
		}
	}

	if len(errs) > 0 {
		return twinerr.WrapConfiguration(errors.Join(errs...), "invalid layout")
	}
	return nil
}

// Load decodes and validates a YAML layout.
func Load(r io.Reader) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, twinerr.WrapConfiguration(err, "decode layout")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads a YAML layout from disk.
func LoadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, twinerr.WrapConfiguration(err, "open layout").WithContext("path", path)
	}
	defer f.Close()
	return Load(f)
}

// Encode writes the layout as YAML.
func (l *Layout) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return err
	}
	return enc.Close()
}
