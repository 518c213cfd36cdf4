package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_SectionOrder(t *testing.T) {
	tc := &TimeContext{
		LocalTime: time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC),
		TimeOfDay: "morning",
		DayOfWeek: "Monday",
		Timezone:  "UTC",
	}
	prompt := BuildPrompt(SynthesisInput{
		Prompt:      "what should I work on today?",
		TimeContext: tc,
		UIBlock:     "- Route: /chat",
		Helpers: []HelperResult{
			{Seat: SeatCoding, Output: "coding take"},
			{Seat: SeatCreative, Output: "creative take"},
		},
	})

	positions := []int{
		strings.Index(prompt, "fluid, conversational reply"),
		strings.Index(prompt, "It is currently morning on Monday"),
		strings.Index(prompt, "aware of the time of day"),
		strings.Index(prompt, "what should I work on today?"),
		strings.Index(prompt, "- Route: /chat"),
		strings.Index(prompt, "### Input from coding specialist:"),
		strings.Index(prompt, "### Input from creative specialist:"),
		strings.Index(prompt, "Reply comprehensively"),
	}
	for i, pos := range positions {
		require.GreaterOrEqual(t, pos, 0, "section %d missing", i)
		if i > 0 {
			assert.Greater(t, pos, positions[i-1], "section %d out of order", i)
		}
	}
}

func TestBuildPrompt_ToneNotes(t *testing.T) {
	tests := []struct {
		name      string
		greeting  bool
		smalltalk bool
		wantNote  string
		wantClose string
	}{
		{name: "greeting", greeting: true, wantNote: "opening with a greeting", wantClose: "briefly and warmly"},
		{name: "smalltalk", smalltalk: true, wantNote: "making smalltalk", wantClose: "warm and human"},
		{name: "neither", wantClose: "Reply comprehensively"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(SynthesisInput{
				Prompt:    "hi",
				Greeting:  tt.greeting,
				Smalltalk: tt.smalltalk,
				Helpers:   []HelperResult{{Seat: SeatSmalltalk, Output: "hey!"}},
			})

			if tt.wantNote != "" {
				assert.Contains(t, prompt, tt.wantNote)
			} else {
				assert.NotContains(t, prompt, "Tone note:")
			}
			assert.Contains(t, prompt, tt.wantClose)

			// At most one tone note.
			assert.LessOrEqual(t, strings.Count(prompt, "Tone note:"), 1)
		})
	}
}

func TestBuildPrompt_GreetingSuggestionOnlyForGreeting(t *testing.T) {
	tc := &TimeContext{TimeOfDay: "morning", DayOfWeek: "Monday", Timezone: "UTC"}

	withGreeting := BuildPrompt(SynthesisInput{Prompt: "hi", Greeting: true, TimeContext: tc})
	assert.Contains(t, withGreeting, `"Good morning"`)

	withoutGreeting := BuildPrompt(SynthesisInput{Prompt: "hi", TimeContext: tc})
	assert.NotContains(t, withoutGreeting, "Good morning")
}

func TestBuildPrompt_OmitsAbsentBlocks(t *testing.T) {
	prompt := BuildPrompt(SynthesisInput{Prompt: "plain question"})

	assert.NotContains(t, prompt, "It is currently")
	assert.NotContains(t, prompt, "What the user currently sees")
	assert.NotContains(t, prompt, "### Input from")
}

func TestSynthesize_ReturnsOutputVerbatim(t *testing.T) {
	raw := "  ## Heading\n\nunpolished output with trailing space  "
	backend := &scriptedBackend{
		respond: func(model, _ string) (string, error) {
			assert.Equal(t, "model-synth", model)
			return raw, nil
		},
	}

	answer, err := NewSynthesizer(backend, testSeatConfig(), nil).Synthesize(context.Background(), SynthesisInput{
		Prompt:  "question",
		Helpers: []HelperResult{{Seat: SeatCoding, Output: "take"}},
	})
	require.NoError(t, err)
	assert.Equal(t, raw, answer)
	assert.Equal(t, 1, backend.callCount())
}

func TestSynthesize_FailureWrapsUnderlyingMessage(t *testing.T) {
	cause := errors.New("model overloaded")
	backend := &scriptedBackend{
		respond: func(_, _ string) (string, error) { return "", cause },
	}
	sink := &recordingSink{}

	_, err := NewSynthesizer(backend, testSeatConfig(), sink).Synthesize(context.Background(), SynthesisInput{Prompt: "q"})
	require.Error(t, err)

	var synthErr *SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, "model overloaded", err.Error())
	assert.ErrorIs(t, err, cause)

	require.Len(t, sink.ofType(EventSynthesisFailed), 1)
}
