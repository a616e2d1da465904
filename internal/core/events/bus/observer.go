package bus

import (
	"time"

	"github.com/zeusync/flockbeat/internal/core/observability/log"
)

var _ EventBusObserver = (*LogObserver)(nil)

// LogObserver logs failed deliveries and events nobody listened to.
// Registering it also switches on the bus metrics.
type LogObserver struct {
	log log.Log
}

func NewLogObserver(l log.Log) *LogObserver {
	if l == nil {
		l = log.Nop()
	}
	return &LogObserver{log: l.With(log.String("component", "event_bus"))}
}

func (o *LogObserver) OnPublish(string, Event) {}

func (o *LogObserver) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	switch {
	case err != nil:
		o.log.Warn("event handlers failed",
			log.String("event", eventType),
			log.Int("handlers", handlers),
			log.Duration("took", duration),
			log.Error(err),
		)
	case handlers == 0:
		o.log.Debug("event had no subscribers", log.String("event", eventType))
	}
}
