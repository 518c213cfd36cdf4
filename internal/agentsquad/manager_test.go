package agentsquad

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chatty-ai/chatty-api/internal/synth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	lastModel  string
	lastPrompt string
	reply      string
	err        error
}

func (b *stubBackend) Generate(_ context.Context, model, prompt string) (string, error) {
	b.lastModel = model
	b.lastPrompt = prompt
	return b.reply, b.err
}

func TestProcess_DelegatesWithIdentityPrompt(t *testing.T) {
	backend := &stubBackend{reply: "hi, I'm Lin"}
	mgr := NewManager(backend)
	mgr.Register(Agent{ID: "lin", Model: "gpt-5.1", IdentityPrompt: "You are Lin, the creation assistant."})

	reply, err := mgr.Process(context.Background(), "lin", "help me build a bot")
	require.NoError(t, err)

	assert.Equal(t, "lin", reply.AgentID)
	assert.Equal(t, "hi, I'm Lin", reply.Answer)
	assert.Equal(t, "gpt-5.1", backend.lastModel)
	assert.True(t, strings.HasPrefix(backend.lastPrompt, "You are Lin"))
	assert.True(t, strings.HasSuffix(backend.lastPrompt, "help me build a bot"))
}

func TestProcess_AgentIDNormalization(t *testing.T) {
	mgr := NewManager(&stubBackend{reply: "ok"})
	mgr.Register(Agent{ID: "Lin", Model: "gpt-5.1"})

	_, err := mgr.Process(context.Background(), "  LIN ", "hello")
	assert.NoError(t, err)
}

func TestProcess_UnknownAgent(t *testing.T) {
	mgr := NewManager(&stubBackend{})

	_, err := mgr.Process(context.Background(), "nobody", "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownAgent)
	assert.Contains(t, err.Error(), "unknown agent")
}

func TestProcess_EmptyMessage(t *testing.T) {
	mgr := NewManager(&stubBackend{reply: "should not be used"})
	mgr.Register(Agent{ID: "lin", Model: "gpt-5.1"})

	_, err := mgr.Process(context.Background(), "lin", "   ")
	assert.ErrorIs(t, err, synth.ErrMissingPrompt)
}

func TestProcess_BackendFailure(t *testing.T) {
	cause := errors.New("upstream down")
	mgr := NewManager(&stubBackend{err: cause})
	mgr.Register(Agent{ID: "lin", Model: "gpt-5.1"})

	_, err := mgr.Process(context.Background(), "lin", "hello")
	assert.ErrorIs(t, err, cause)
}
