package synth

import (
	"context"
	"fmt"
	"strings"
)

// Request is one synthesis orchestration's input. History carries prior
// utterance texts oldest-first; UIContext is the raw client state document.
type Request struct {
	Prompt    string
	History   []string
	UIContext map[string]any
}

// SynthesisOutcome is the result of one successful orchestration.
type SynthesisOutcome struct {
	Answer      string
	HelperCount int
	TimeContext *TimeContext
}

// Orchestrator runs the full synthesis pipeline: validate, classify, assemble
// context, fan out to the helper seats, and merge with a single synthesis
// call. All collaborators are injected; the orchestrator itself holds no
// per-request state.
type Orchestrator struct {
	seats       *SeatConfig
	dispatcher  *Dispatcher
	synthesizer *Synthesizer
	timeService TimeService
	events      EventSink
}

func NewOrchestrator(backend Generator, seats *SeatConfig, timeService TimeService, events EventSink) *Orchestrator {
	if events == nil {
		events = NopSink{}
	}
	if timeService == nil {
		timeService = absentTimeService{}
	}
	return &Orchestrator{
		seats:       seats,
		dispatcher:  NewDispatcher(backend, seats, events),
		synthesizer: NewSynthesizer(backend, seats, events),
		timeService: timeService,
		events:      events,
	}
}

// Run executes one orchestration. An empty prompt fails with
// ErrMissingPrompt before any backend call; an unloadable seat configuration
// also aborts before dispatch. Helper failures degrade silently as long as at
// least one helper survives; a synthesis failure surfaces as SynthesisError.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*SynthesisOutcome, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, ErrMissingPrompt
	}
	if err := o.seats.Validate(); err != nil {
		return nil, fmt.Errorf("seat configuration: %w", err)
	}

	// A greeting-shaped message only counts as a greeting when it opens the
	// conversation. Smalltalk never overlaps with a greeting.
	greeting := IsGreeting(prompt) && len(req.History) == 0
	smalltalk := !greeting && IsSmalltalk(prompt)

	// Absence of time awareness is a handled case, not an error.
	timeContext, err := o.timeService.Resolve(ctx)
	if err != nil {
		timeContext = nil
	}

	uiBlock := ""
	if req.UIContext != nil {
		uiBlock = ParseUIContext(req.UIContext).Render()
	}

	helpers, err := o.dispatcher.Dispatch(ctx, prompt)
	if err != nil {
		return nil, err
	}

	answer, err := o.synthesizer.Synthesize(ctx, SynthesisInput{
		Prompt:      prompt,
		Greeting:    greeting,
		Smalltalk:   smalltalk,
		TimeContext: timeContext,
		UIBlock:     uiBlock,
		Helpers:     helpers,
	})
	if err != nil {
		return nil, err
	}

	return &SynthesisOutcome{
		Answer:      answer,
		HelperCount: len(helpers),
		TimeContext: timeContext,
	}, nil
}
