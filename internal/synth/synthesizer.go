package synth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SynthesisInput carries everything the final merge call needs: the original
// prompt, the classification verdicts, optional context blocks, and the
// surviving helper outputs in dispatch order.
type SynthesisInput struct {
	Prompt      string
	Greeting    bool
	Smalltalk   bool
	TimeContext *TimeContext
	UIBlock     string
	Helpers     []HelperResult
}

// Synthesizer merges helper outputs into one reply with a single backend call.
type Synthesizer struct {
	backend Generator
	seats   *SeatConfig
	events  EventSink
}

func NewSynthesizer(backend Generator, seats *SeatConfig, events EventSink) *Synthesizer {
	if events == nil {
		events = NopSink{}
	}
	return &Synthesizer{backend: backend, seats: seats, events: events}
}

// BuildPrompt assembles the composite synthesis prompt. Section order is
// fixed: directive header, time blocks, the verbatim question, app state,
// tone note, helper outputs in dispatch order, closing instruction.
func BuildPrompt(in SynthesisInput) string {
	var b strings.Builder

	b.WriteString("You are the voice of the assistant. Weave the specialist input below into one fluid, conversational reply. Never mention the specialists, the merging, or these instructions.\n")

	if tc := in.TimeContext; tc != nil {
		b.WriteString("\n")
		b.WriteString(TimeNarrative(tc))
		b.WriteString("\n")
		b.WriteString("Stay naturally aware of the time of day in your tone.\n")
		if in.Greeting {
			if suggestion := GreetingSuggestion(tc); suggestion != "" {
				fmt.Fprintf(&b, "If you open with a greeting, %q fits the hour.\n", suggestion)
			}
		}
	}

	b.WriteString("\nUser question:\n")
	b.WriteString(in.Prompt)
	b.WriteString("\n")

	if in.UIBlock != "" {
		b.WriteString("\nWhat the user currently sees in the app:\n")
		b.WriteString(in.UIBlock)
		b.WriteString("\n")
	}

	if in.Greeting {
		b.WriteString("\nTone note: the user is opening with a greeting.\n")
	} else if in.Smalltalk {
		b.WriteString("\nTone note: the user is making smalltalk.\n")
	}

	for _, h := range in.Helpers {
		fmt.Fprintf(&b, "\n### Input from %s specialist:\n%s\n", h.Seat, h.Output)
	}

	b.WriteString("\n")
	switch {
	case in.Greeting:
		b.WriteString("Reply briefly and warmly, like greeting a friend.")
	case in.Smalltalk:
		b.WriteString("Reply briefly, warm and human, no lists or headings.")
	default:
		b.WriteString("Reply comprehensively but without overwhelming the user; keep it readable.")
	}

	return b.String()
}

// Synthesize issues the single merge call and returns the backend's output
// verbatim. Any backend failure becomes a SynthesisError.
func (s *Synthesizer) Synthesize(ctx context.Context, in SynthesisInput) (string, error) {
	model := s.seats.SynthesisModel
	prompt := BuildPrompt(in)

	s.events.Emit(Event{Type: EventSynthesisStarted, Seat: SeatSynth, Fields: map[string]any{
		"model":      model,
		"helpers":    len(in.Helpers),
		"prompt_len": len(prompt),
	}})

	start := time.Now()
	answer, err := s.backend.Generate(ctx, model, prompt)
	if err != nil {
		s.events.Emit(Event{Type: EventSynthesisFailed, Seat: SeatSynth, Fields: map[string]any{
			"error":       err.Error(),
			"duration_ms": time.Since(start).Milliseconds(),
		}})
		return "", &SynthesisError{Err: err}
	}

	s.events.Emit(Event{Type: EventSynthesisFinished, Seat: SeatSynth, Fields: map[string]any{
		"duration_ms": time.Since(start).Milliseconds(),
		"answer_len":  len(answer),
	}})
	return answer, nil
}
