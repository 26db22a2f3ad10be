// Package events names the event types exchanged over the bus.
package events

const (
	// TelemetryTick carries a telemetry.Report after every simulator tick.
	TelemetryTick = "telemetry.tick"
	// TelemetryPulse carries the models.AssetSnapshot of a pulsed asset.
	TelemetryPulse = "telemetry.pulse"
	// SelectionChanged carries the command.Outcome of a select.
	SelectionChanged = "selection.changed"
	// SceneChanged carries the command.Outcome of any other command.
	SceneChanged = "scene.changed"
	// CommandIssued carries a command.Command for the dispatcher.
	CommandIssued = "command.issued"
)

// CommandTopic isolates command intake from state notifications.
const CommandTopic = "commands"
