package command

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/zeusync/hvactwin/internal/core/events"
	"github.com/zeusync/hvactwin/internal/core/events/bus"
	"github.com/zeusync/hvactwin/internal/core/models"
	"github.com/zeusync/hvactwin/internal/core/observability/log"
	"github.com/zeusync/hvactwin/internal/core/picking"
	"github.com/zeusync/hvactwin/internal/core/projector"
	"github.com/zeusync/hvactwin/internal/core/scene"
)

// Pulser forces an asset into alert.
type Pulser interface {
	Pulse(target *models.AssetKey) (models.AssetSnapshot, error)
}

// Outcome reports what a command changed.
type Outcome struct {
	Command    Command               `json:"command"`
	Pick       *picking.Result       `json:"pick,omitempty"`
	Pulsed     *models.AssetSnapshot `json:"pulsed,omitempty"`
	Theme      *scene.Theme          `json:"theme,omitempty"`
	AutoRotate *bool                 `json:"autoRotate,omitempty"`
}

// Dispatcher is the single consumer of commands. Each command applies
// atomically under the scene write lock.
type Dispatcher struct {
	state     *scene.State
	pulser    Pulser
	picker    *picking.Picker
	projector *projector.Projector
	bus       bus.EventBus
	log       log.Log
}

func NewDispatcher(
	state *scene.State,
	pulser Pulser,
	picker *picking.Picker,
	proj *projector.Projector,
	eventBus bus.EventBus,
	logger log.Log,
) *Dispatcher {
	return &Dispatcher{
		state:     state,
		pulser:    pulser,
		picker:    picker,
		projector: proj,
		bus:       eventBus,
		log:       logger.With(log.String("component", "command")),
	}
}

// Dispatch validates and applies cmd, then announces the change on the bus.
func (d *Dispatcher) Dispatch(cmd Command) (Outcome, error) {
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}
	out := Outcome{Command: cmd}
	if err := cmd.Validate(); err != nil {
		return out, err
	}

	var err error
	switch cmd.Kind {
	case KindSelect:
		res := d.picker.Pick(cmd.X, cmd.Y)
		out.Pick = &res
	case KindPulse:
		var a models.AssetSnapshot
		if a, err = d.pulser.Pulse(cmd.Target); err == nil {
			out.Pulsed = &a
		}
	default:
		err = d.state.Update(func(tx *scene.Tx) error {
			return d.apply(tx, cmd, &out)
		})
	}
	if err != nil {
		d.log.Warn("command rejected", log.String("command", cmd.String()), log.Error(err))
		return out, fmt.Errorf("%s: %w", cmd.Kind, err)
	}

	d.log.Debug("command applied", log.String("id", cmd.ID), log.String("command", cmd.String()))
	typ := events.SceneChanged
	if cmd.Kind == KindSelect {
		typ = events.SelectionChanged
	}
	if err := d.bus.Publish(bus.NewEvent(typ, "command", out)); err != nil {
		d.log.Warn("scene change handlers failed", log.Error(err))
	}
	return out, nil
}

func (d *Dispatcher) apply(tx *scene.Tx, cmd Command, out *Outcome) error {
	switch cmd.Kind {
	case KindSetFlowSpeed:
		tx.SetFlow(cmd.Level)
	case KindStart:
		tx.SetFlow(scene.FlowOn)
	case KindStop:
		tx.SetFlow(scene.FlowOff)
	case KindResetCamera:
		tx.Camera().Reset()
	case KindToggleTheme:
		theme := tx.ToggleTheme()
		out.Theme = &theme
	case KindToggleAutoRotate:
		on := tx.ToggleAutoRotate()
		out.AutoRotate = &on
	case KindResize:
		if err := tx.Camera().Resize(cmd.Width, cmd.Height); err != nil {
			return err
		}
		d.projector.ResizeSparkline(cmd.SparkWidth, cmd.SparkHeight)
	}
	return nil
}

// Listen consumes commands published to events.CommandTopic.
func (d *Dispatcher) Listen() (bus.Subscription, error) {
	return d.bus.SubscribeTopic(events.CommandTopic, events.CommandIssued, func(e bus.Event) error {
		cmd, ok := e.Data().(Command)
		if !ok {
			return fmt.Errorf("command: unexpected payload %T", e.Data())
		}
		_, err := d.Dispatch(cmd)
		return err
	})
}
