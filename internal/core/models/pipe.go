package models

import (
	"fmt"
	"strings"

	"github.com/zeusync/hvactwin/internal/core/curve"
	"github.com/zeusync/hvactwin/internal/core/geom"
)

// PipeKind is the role of a pipe in the network topology.
type PipeKind uint8

const (
	// PipeTrunk is a shared main line.
	PipeTrunk PipeKind = iota
	// PipeSpur connects one asset to a trunk.
	PipeSpur
	// PipeCross joins two trunks.
	PipeCross
)

func (k PipeKind) String() string {
	switch k {
	case PipeTrunk:
		return "trunk"
	case PipeSpur:
		return "spur"
	case PipeCross:
		return "cross"
	default:
		return fmt.Sprintf("pipe(%d)", uint8(k))
	}
}

func (k PipeKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *PipeKind) UnmarshalText(b []byte) error {
	for _, v := range []PipeKind{PipeTrunk, PipeSpur, PipeCross} {
		if strings.EqualFold(string(b), v.String()) {
			*k = v
			return nil
		}
	}
	return fmt.Errorf("unknown pipe kind %q", string(b))
}

// PipeID is sequential and global across all pipes, starting at 1.
type PipeID int

// Pipe is a conduit segment. It never changes after construction.
type Pipe struct {
	id    PipeID
	kind  PipeKind
	asset *AssetKey
	curve *curve.Curve
}

// NewPipe builds the pipe and its curve. Curve errors are configuration errors.
func NewPipe(id PipeID, kind PipeKind, waypoints []geom.Vec3, radius float64, asset *AssetKey) (*Pipe, error) {
	c, err := curve.New(waypoints, radius)
	if err != nil {
		return nil, fmt.Errorf("pipe %d: %w", id, err)
	}
	p := &Pipe{id: id, kind: kind, curve: c}
	if asset != nil {
		k := *asset
		p.asset = &k
	}
	return p, nil
}

func (p *Pipe) ID() PipeID             { return p.id }
func (p *Pipe) Name() string           { return fmt.Sprintf("Pipe %d", p.id) }
func (p *Pipe) Label() string          { return fmt.Sprintf("P%d", p.id) }
func (p *Pipe) Kind() PipeKind         { return p.kind }
func (p *Pipe) Curve() *curve.Curve    { return p.curve }
func (p *Pipe) Radius() float64        { return p.curve.Radius() }
func (p *Pipe) Waypoints() []geom.Vec3 { return p.curve.Waypoints() }

// Asset returns the asset a spur serves.
func (p *Pipe) Asset() (AssetKey, bool) {
	if p.asset == nil {
		return AssetKey{}, false
	}
	return *p.asset, true
}

// Midpoint is where the pipe label is anchored.
func (p *Pipe) Midpoint() geom.Vec3 { return p.curve.PointAt(0.5) }
