package synth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Generator issues one text generation call against a named model. It is the
// only boundary through which the synthesis pipeline reaches an LLM backend.
type Generator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// HelperResult is one helper seat's successful contribution.
type HelperResult struct {
	Seat   Seat
	Output string
}

// Dispatcher fans one prompt out to every helper seat concurrently and joins
// at a barrier once all calls have settled.
type Dispatcher struct {
	backend Generator
	seats   *SeatConfig
	events  EventSink
}

func NewDispatcher(backend Generator, seats *SeatConfig, events EventSink) *Dispatcher {
	if events == nil {
		events = NopSink{}
	}
	return &Dispatcher{backend: backend, seats: seats, events: events}
}

// Dispatch calls every helper seat's backend with its calibrated prompt. Each
// goroutine writes only its own result slot; the barrier releases once every
// call has settled. A failing or blank seat is dropped without affecting its
// siblings. Results come back in HelperSeats declaration order, never
// completion order. Returns ErrAllHelpersFailed when nothing survived.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string) ([]HelperResult, error) {
	slots := make([]*HelperResult, len(HelperSeats))

	var wg sync.WaitGroup
	for i, seat := range HelperSeats {
		wg.Add(1)
		go func(i int, seat Seat) {
			defer wg.Done()
			start := time.Now()

			output, err := d.backend.Generate(ctx, d.seats.ModelFor(seat), ComposePrompt(seat, prompt))
			if err != nil {
				d.events.Emit(Event{Type: EventHelperFailed, Seat: seat, Fields: map[string]any{
					"error":       err.Error(),
					"duration_ms": time.Since(start).Milliseconds(),
				}})
				return
			}
			if strings.TrimSpace(output) == "" {
				d.events.Emit(Event{Type: EventHelperFailed, Seat: seat, Fields: map[string]any{
					"error":       "blank output",
					"duration_ms": time.Since(start).Milliseconds(),
				}})
				return
			}

			slots[i] = &HelperResult{Seat: seat, Output: output}
			d.events.Emit(Event{Type: EventHelperSucceeded, Seat: seat, Fields: map[string]any{
				"duration_ms": time.Since(start).Milliseconds(),
				"output_len":  len(output),
			}})
		}(i, seat)
	}
	wg.Wait()

	results := make([]HelperResult, 0, len(HelperSeats))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}

	d.events.Emit(Event{Type: EventHelpersAggregated, Fields: map[string]any{
		"dispatched": len(HelperSeats),
		"succeeded":  len(results),
	}})

	if len(results) == 0 {
		return nil, ErrAllHelpersFailed
	}
	return results, nil
}
