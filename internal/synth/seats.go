package synth

import (
	"fmt"
	"strings"
)

// Seat names the specialized persona that handles a sub-task, or the
// orchestrator itself ("synth").
type Seat string

const (
	SeatSynth     Seat = "synth"
	SeatCoding    Seat = "coding"
	SeatCreative  Seat = "creative"
	SeatSmalltalk Seat = "smalltalk"
)

// HelperSeats is the fixed dispatch order. Helper output is always assembled
// in this order, regardless of which backend call completes first.
var HelperSeats = []Seat{SeatCoding, SeatCreative, SeatSmalltalk}

// NormalizeSeat lowercases and trims a seat identifier, defaulting to "synth"
// when empty.
func NormalizeSeat(s string) Seat {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SeatSynth
	}
	return Seat(s)
}

// SeatConfig maps each seat to the model identity that serves it.
type SeatConfig struct {
	Models         map[Seat]string
	SynthesisModel string
}

// DefaultSeatConfig returns the stock seat-to-model table. Each helper seat is
// served by a different provider family so one vendor outage degrades rather
// than kills a request.
func DefaultSeatConfig() *SeatConfig {
	return &SeatConfig{
		Models: map[Seat]string{
			SeatCoding:    "gpt-5.1",
			SeatCreative:  "claude-sonnet-4-20250514",
			SeatSmalltalk: "gemini-2.0-flash",
		},
		SynthesisModel: "gpt-5.1",
	}
}

// Validate checks the seat-to-model table before any helper call is made.
// A broken mapping aborts the whole request up front; it is never reported as
// a helper failure.
func (c *SeatConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("seat config is nil")
	}
	if strings.TrimSpace(c.SynthesisModel) == "" {
		return fmt.Errorf("seat config: synthesis model is empty")
	}
	for _, seat := range HelperSeats {
		model, ok := c.Models[seat]
		if !ok || strings.TrimSpace(model) == "" {
			return fmt.Errorf("seat config: no model mapped for seat %q", seat)
		}
	}
	return nil
}

// ModelFor returns the model identity assigned to a helper seat.
func (c *SeatConfig) ModelFor(seat Seat) string {
	return c.Models[seat]
}
