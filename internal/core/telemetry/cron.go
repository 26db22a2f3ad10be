package telemetry

import (
	"fmt"

	"github.com/zeusync/hvactwin/internal/core/observability/log"
)

// cronLogger adapts log.Log to cron.Logger.
type cronLogger struct {
	log log.Log
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(kvFields(keysAndValues), log.Error(err))...)
}

func kvFields(kv []any) []log.Field {
	fields := make([]log.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		fields = append(fields, log.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return fields
}
