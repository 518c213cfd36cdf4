package synth

import "github.com/chatty-ai/chatty-api/internal/logger"

// Event is a structured record of one step of an orchestration. The sink is
// injected so tests can assert on emitted events instead of log output.
type Event struct {
	Type   string
	Seat   Seat
	Fields map[string]any
}

const (
	EventHelperSucceeded   = "helper_succeeded"
	EventHelperFailed      = "helper_failed"
	EventHelpersAggregated = "helpers_aggregated"
	EventSynthesisStarted  = "synthesis_started"
	EventSynthesisFinished = "synthesis_finished"
	EventSynthesisFailed   = "synthesis_failed"
)

// EventSink receives orchestration events. Implementations must be safe for
// concurrent use; helper events are emitted from per-seat goroutines.
type EventSink interface {
	Emit(event Event)
}

// LogSink forwards events to the structured logger.
type LogSink struct{}

func (LogSink) Emit(event Event) {
	fields := logger.Fields{"event": event.Type}
	if event.Seat != "" {
		fields["seat"] = string(event.Seat)
	}
	for k, v := range event.Fields {
		fields[k] = v
	}
	logger.Debug("synth orchestration event", fields)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}
