package scene

import (
	"fmt"
	"strings"
)

// FlowLevel selects the flow speed multiplier.
type FlowLevel uint8

const (
	FlowOff FlowLevel = iota
	FlowOn
	FlowTurbo
)

var flowSpeeds = [...]float64{FlowOff: 0, FlowOn: 0.55, FlowTurbo: 1.4}

// Speed is the multiplier added to the base rate of every particle.
func (l FlowLevel) Speed() float64 {
	if int(l) < len(flowSpeeds) {
		return flowSpeeds[l]
	}
	return 0
}

func (l FlowLevel) String() string {
	switch l {
	case FlowOff:
		return "off"
	case FlowOn:
		return "on"
	case FlowTurbo:
		return "turbo"
	default:
		return fmt.Sprintf("FlowLevel(%d)", uint8(l))
	}
}

func ParseFlowLevel(s string) (FlowLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return FlowOff, nil
	case "on", "1":
		return FlowOn, nil
	case "turbo", "2":
		return FlowTurbo, nil
	}
	return FlowOff, fmt.Errorf("unknown flow level %q", s)
}

func (l FlowLevel) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *FlowLevel) UnmarshalText(b []byte) error {
	v, err := ParseFlowLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Theme is the background and tone-mapping exposure pair.
type Theme struct {
	Name       string  `json:"name"`
	Background string  `json:"background"`
	Exposure   float64 `json:"exposure"`
}

var (
	DarkTheme  = Theme{Name: "dark", Background: "#08101e", Exposure: 1.2}
	LightTheme = Theme{Name: "light", Background: "#0e1c28", Exposure: 1.0}
)
