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

type fixedTimeService struct {
	tc  *TimeContext
	err error
}

func (s fixedTimeService) Resolve(context.Context) (*TimeContext, error) {
	return s.tc, s.err
}

func morningTimeService() fixedTimeService {
	return fixedTimeService{tc: &TimeContext{
		LocalTime: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC),
		TimeOfDay: "morning",
		DayOfWeek: "Monday",
		Timezone:  "UTC",
	}}
}

func TestOrchestratorRun_GreetingEndToEnd(t *testing.T) {
	var synthesisPrompt string
	backend := &scriptedBackend{
		respond: func(model, prompt string) (string, error) {
			if model == "model-synth" {
				synthesisPrompt = prompt
				return "Good morning! Ready when you are.", nil
			}
			return "take from " + model, nil
		},
	}

	outcome, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{
		Prompt:  "hi",
		History: nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "Good morning! Ready when you are.", outcome.Answer)
	assert.Equal(t, 3, outcome.HelperCount)
	require.NotNil(t, outcome.TimeContext)
	assert.Equal(t, "morning", outcome.TimeContext.TimeOfDay)

	// Greeting classification flows through to the synthesis prompt.
	assert.Contains(t, synthesisPrompt, "opening with a greeting")
	assert.Contains(t, synthesisPrompt, "briefly and warmly")
	assert.Contains(t, synthesisPrompt, `"Good morning"`)

	// 3 helper calls plus 1 synthesis call.
	assert.Equal(t, 4, backend.callCount())
}

func TestOrchestratorRun_GreetingSuppressedByHistory(t *testing.T) {
	var synthesisPrompt string
	backend := &scriptedBackend{
		respond: func(model, prompt string) (string, error) {
			if model == "model-synth" {
				synthesisPrompt = prompt
			}
			return "ok", nil
		},
	}

	_, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{
		Prompt:  "hello",
		History: []string{"hi there", "hey! what can I do for you?"},
	})
	require.NoError(t, err)

	assert.NotContains(t, synthesisPrompt, "opening with a greeting")
	assert.NotContains(t, synthesisPrompt, `"Good morning"`)
}

func TestOrchestratorRun_HelperOutputsInDeclarationOrder(t *testing.T) {
	var synthesisPrompt string
	backend := &scriptedBackend{
		respond: func(model, prompt string) (string, error) {
			if model == "model-synth" {
				synthesisPrompt = prompt
			}
			return "take from " + model, nil
		},
		delays: map[string]time.Duration{
			"model-coding":   25 * time.Millisecond,
			"model-creative": 1 * time.Millisecond,
		},
	}

	_, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{
		Prompt: "compare goroutines and threads",
	})
	require.NoError(t, err)

	coding := strings.Index(synthesisPrompt, "### Input from coding specialist:")
	creative := strings.Index(synthesisPrompt, "### Input from creative specialist:")
	smalltalk := strings.Index(synthesisPrompt, "### Input from smalltalk specialist:")
	require.GreaterOrEqual(t, coding, 0)
	require.GreaterOrEqual(t, creative, 0)
	require.GreaterOrEqual(t, smalltalk, 0)
	assert.Less(t, coding, creative)
	assert.Less(t, creative, smalltalk)
}

func TestOrchestratorRun_MissingPrompt(t *testing.T) {
	backend := &scriptedBackend{
		respond: func(_, _ string) (string, error) { return "ok", nil },
	}
	orch := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil)

	for _, prompt := range []string{"", "   ", "\n\t"} {
		_, err := orch.Run(context.Background(), Request{Prompt: prompt})
		assert.ErrorIs(t, err, ErrMissingPrompt)
	}
	assert.Equal(t, 0, backend.callCount(), "no backend call before validation passes")
}

func TestOrchestratorRun_BrokenSeatConfigAbortsBeforeDispatch(t *testing.T) {
	backend := &scriptedBackend{
		respond: func(_, _ string) (string, error) { return "ok", nil },
	}
	cfg := testSeatConfig()
	delete(cfg.Models, SeatCreative)

	_, err := NewOrchestrator(backend, cfg, morningTimeService(), nil).Run(context.Background(), Request{Prompt: "question"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAllHelpersFailed)
	assert.Equal(t, 0, backend.callCount())
}

func TestOrchestratorRun_AllHelpersFailed(t *testing.T) {
	backend := &scriptedBackend{
		respond: func(model, _ string) (string, error) {
			if model == "model-synth" {
				t.Error("synthesis must not run when every helper failed")
			}
			return "", errors.New("unavailable")
		},
	}

	outcome, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{Prompt: "question"})
	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, ErrAllHelpersFailed)
}

func TestOrchestratorRun_PartialHelperFailureIsInvisible(t *testing.T) {
	backend := &scriptedBackend{
		respond: func(model, _ string) (string, error) {
			if model == "model-creative" {
				return "", errors.New("timeout")
			}
			return "fine", nil
		},
	}

	outcome, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{Prompt: "question"})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.HelperCount)
	assert.NotEmpty(t, outcome.Answer)
}

func TestOrchestratorRun_SynthesisFailureSurfaces(t *testing.T) {
	backend := &scriptedBackend{
		respond: func(model, _ string) (string, error) {
			if model == "model-synth" {
				return "", errors.New("context length exceeded")
			}
			return "fine", nil
		},
	}

	outcome, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{Prompt: "question"})
	assert.Nil(t, outcome)

	var synthErr *SynthesisError
	require.ErrorAs(t, err, &synthErr)
	assert.Equal(t, "context length exceeded", err.Error())
}

func TestOrchestratorRun_TimeServiceErrorIsHandled(t *testing.T) {
	backend := &scriptedBackend{
		respond: func(_, _ string) (string, error) { return "fine", nil },
	}

	outcome, err := NewOrchestrator(backend, testSeatConfig(), fixedTimeService{err: errors.New("tz db missing")}, nil).Run(context.Background(), Request{Prompt: "question"})
	require.NoError(t, err)
	assert.Nil(t, outcome.TimeContext)
	assert.NotEmpty(t, outcome.Answer)
}

func TestOrchestratorRun_NilTimeServiceMeansAbsence(t *testing.T) {
	var synthesisPrompt string
	backend := &scriptedBackend{
		respond: func(model, prompt string) (string, error) {
			if model == "model-synth" {
				synthesisPrompt = prompt
			}
			return "fine", nil
		},
	}

	outcome, err := NewOrchestrator(backend, testSeatConfig(), nil, nil).Run(context.Background(), Request{Prompt: "question"})
	require.NoError(t, err)
	assert.Nil(t, outcome.TimeContext)
	assert.NotContains(t, synthesisPrompt, "It is currently")
}

func TestOrchestratorRun_UIContextRendered(t *testing.T) {
	var synthesisPrompt string
	backend := &scriptedBackend{
		respond: func(model, prompt string) (string, error) {
			if model == "model-synth" {
				synthesisPrompt = prompt
			}
			return "fine", nil
		},
	}

	_, err := NewOrchestrator(backend, testSeatConfig(), morningTimeService(), nil).Run(context.Background(), Request{
		Prompt: "where is the export button?",
		UIContext: map[string]any{
			"route":        "/chat",
			"featureFlags": map[string]any{"beta": true},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, synthesisPrompt, "- Route: /chat")
	assert.Contains(t, synthesisPrompt, `- Feature "beta" is enabled`)
}
