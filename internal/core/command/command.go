// Package command enumerates the UI controls and applies them to the scene.
package command

import (
	"errors"
	"fmt"

	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/scene"
)

var (
	ErrUnknownKind    = errors.New("command: unknown kind")
	ErrInvalidCommand = errors.New("command: invalid argument")
)

type Kind string

const (
	KindSetFlowSpeed     Kind = "set_flow_speed"
	KindResetCamera      Kind = "reset_camera"
	KindToggleTheme      Kind = "toggle_theme"
	KindToggleAutoRotate Kind = "toggle_auto_rotate"
	KindStart            Kind = "start"
	KindStop             Kind = "stop"
	KindPulse            Kind = "pulse"
	KindSelect           Kind = "select"
	KindResize           Kind = "resize"
)

var kinds = map[Kind]struct{}{
	KindSetFlowSpeed: {}, KindResetCamera: {}, KindToggleTheme: {}, KindToggleAutoRotate: {},
	KindStart: {}, KindStop: {}, KindPulse: {}, KindSelect: {}, KindResize: {},
}

// Command is one UI action. Only the fields relevant to Kind are read.
type Command struct {
	ID     string           `json:"id,omitempty"`
	Kind   Kind             `json:"type"`
	Level  scene.FlowLevel  `json:"level,omitempty"`
	Target *models.AssetKey `json:"target,omitempty"`
	X      float64          `json:"x,omitempty"`
	Y      float64          `json:"y,omitempty"`
	Width  int              `json:"width,omitempty"`
	Height int              `json:"height,omitempty"`
	// SparkWidth and SparkHeight resize the sparkline canvas along with the surface.
	SparkWidth  int `json:"sparkWidth,omitempty"`
	SparkHeight int `json:"sparkHeight,omitempty"`
}

func SetFlowSpeed(level scene.FlowLevel) Command {
	return Command{Kind: KindSetFlowSpeed, Level: level}
}

func ResetCamera() Command      { return Command{Kind: KindResetCamera} }
func ToggleTheme() Command      { return Command{Kind: KindToggleTheme} }
func ToggleAutoRotate() Command { return Command{Kind: KindToggleAutoRotate} }
func Start() Command            { return Command{Kind: KindStart} }
func Stop() Command             { return Command{Kind: KindStop} }

// Pulse targets an asset; nil picks one at random.
func Pulse(target *models.AssetKey) Command { return Command{Kind: KindPulse, Target: target} }

func Select(x, y float64) Command { return Command{Kind: KindSelect, X: x, Y: y} }

func Resize(width, height int) Command {
	return Command{Kind: KindResize, Width: width, Height: height}
}

// Validate checks the kind and the fields it needs.
func (c Command) Validate() error {
	if _, ok := kinds[c.Kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, c.Kind)
	}
	if c.Kind == KindSetFlowSpeed && c.Level > scene.FlowTurbo {
		return fmt.Errorf("%w: flow level %s out of range", ErrInvalidCommand, c.Level)
	}
	return nil
}

func (c Command) String() string {
	switch c.Kind {
	case KindSetFlowSpeed:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Level)
	case KindPulse:
		if c.Target != nil {
			return fmt.Sprintf("%s(%s)", c.Kind, c.Target)
		}
	case KindSelect:
		return fmt.Sprintf("%s(%.0f,%.0f)", c.Kind, c.X, c.Y)
	case KindResize:
		return fmt.Sprintf("%s(%dx%d)", c.Kind, c.Width, c.Height)
	}
	return string(c.Kind)
}
