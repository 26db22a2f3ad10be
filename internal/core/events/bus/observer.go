package bus

import (
	"time"

	"github.com/zeusync/hvactwin/internal/core/observability/log"
)

// LogObserver writes every delivery to a logger at debug level and failed
// deliveries at warn level.
type LogObserver struct {
	log log.Log
}

func NewLogObserver(logger log.Log) *LogObserver {
	return &LogObserver{log: logger.With(log.String("component", "bus"))}
}

func (o *LogObserver) OnPublish(string, Event) {}

func (o *LogObserver) OnDelivered(topic string, event Event, handlers int, err error, took time.Duration) {
	fields := []log.Field{
		log.String("topic", topic),
		log.String("type", event.Type()),
		log.String("source", event.Source()),
		log.Int("handlers", handlers),
		log.Duration("took", took),
	}
	if err != nil {
		o.log.Warn("event delivery failed", append(fields, log.Error(err))...)
		return
	}
	o.log.Debug("event delivered", fields...)
}
