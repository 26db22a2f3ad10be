package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/zeusync/hvactwin/internal/core/geom"
)

// AssetType enumerates the simulated unit kinds.
type AssetType uint8

const (
	AssetTank AssetType = iota
	AssetChiller
	AssetCompressor
)

// AssetTypes lists every type in scene construction order.
var AssetTypes = []AssetType{AssetTank, AssetChiller, AssetCompressor}

func (t AssetType) String() string {
	switch t {
	case AssetTank:
		return "tank"
	case AssetChiller:
		return "chiller"
	case AssetCompressor:
		return "compressor"
	default:
		return fmt.Sprintf("asset(%d)", uint8(t))
	}
}

// Title is the capitalised form used in display names.
func (t AssetType) Title() string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func ParseAssetType(s string) (AssetType, error) {
	for _, t := range AssetTypes {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown asset type %q", s)
}

func (t AssetType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *AssetType) UnmarshalText(b []byte) error {
	v, err := ParseAssetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Status is the alarm tier derived from telemetry.
type Status uint8

const (
	StatusOK Status = iota
	StatusWarn
	StatusAlert
)

func (s Status) String() string {
	switch s {
	case StatusWarn:
		return "warn"
	case StatusAlert:
		return "alert"
	default:
		return "ok"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ok":
		*s = StatusOK
	case "warn":
		*s = StatusWarn
	case "alert":
		*s = StatusAlert
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Status thresholds. Comparisons are strict.
const (
	AlertLoad        = 1.05
	AlertTemperature = 80.0
	WarnLoad         = 0.95
	WarnTemperature  = 70.0
)

// DeriveStatus is the only way a Status is produced. Alert wins over warn.
func DeriveStatus(load, temperature float64) Status {
	switch {
	case load > AlertLoad || temperature > AlertTemperature:
		return StatusAlert
	case load > WarnLoad || temperature > WarnTemperature:
		return StatusWarn
	default:
		return StatusOK
	}
}

// AssetKey identifies an asset: ids are unique within a type.
type AssetKey struct {
	Type AssetType `yaml:"type" json:"type"`
	ID   int       `yaml:"id" json:"id"`
}

func (k AssetKey) String() string { return fmt.Sprintf("%s-%d", k.Type, k.ID) }

// Name is the display name, e.g. "Chiller 3".
func (k AssetKey) Name() string { return fmt.Sprintf("%s %d", k.Type.Title(), k.ID) }

var ErrNonFiniteTelemetry = errors.New("telemetry value is not finite")

// Asset is one physical unit. Position is fixed; telemetry is mutated by the
// simulator and the pulse action only, and status always follows telemetry.
type Asset struct {
	key         AssetKey
	position    geom.Vec3
	temperature float64
	load        float64
	status      Status
}

func NewAsset(key AssetKey, position geom.Vec3, temperature, load float64) (*Asset, error) {
	a := &Asset{key: key, position: position}
	if err := a.SetTelemetry(load, temperature); err != nil {
		return nil, fmt.Errorf("asset %s: %w", key, err)
	}
	return a, nil
}

func (a *Asset) Key() AssetKey        { return a.key }
func (a *Asset) ID() int              { return a.key.ID }
func (a *Asset) Type() AssetType      { return a.key.Type }
func (a *Asset) Name() string         { return a.key.Name() }
func (a *Asset) Position() geom.Vec3  { return a.position }
func (a *Asset) Temperature() float64 { return a.temperature }
func (a *Asset) Load() float64        { return a.load }
func (a *Asset) Status() Status       { return a.status }

// SetTelemetry replaces load and temperature and re-derives status. Non-finite
// values are rejected and leave the asset untouched.
func (a *Asset) SetTelemetry(load, temperature float64) error {
	if math.IsNaN(load) || math.IsInf(load, 0) || math.IsNaN(temperature) || math.IsInf(temperature, 0) {
		return ErrNonFiniteTelemetry
	}
	a.load = load
	a.temperature = temperature
	a.status = DeriveStatus(load, temperature)
	return nil
}

// Snapshot copies the asset into a plain value safe to hand to readers.
func (a *Asset) Snapshot() AssetSnapshot {
	return AssetSnapshot{
		Key:         a.key,
		Name:        a.Name(),
		Position:    a.position,
		Temperature: a.temperature,
		Load:        a.load,
		Status:      a.status,
	}
}

// AssetSnapshot is a read-only copy of an Asset.
type AssetSnapshot struct {
	Key         AssetKey
	Name        string
	Position    geom.Vec3
	Temperature float64
	Load        float64
	Status      Status
}
