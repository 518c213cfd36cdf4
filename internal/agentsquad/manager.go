// Package agentsquad routes chat requests addressed to a named agent seat.
// The "synth" seat runs the full synthesis pipeline elsewhere; every other
// registered seat is a single delegated backend call with that agent's
// identity prompt.
package agentsquad

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chatty-ai/chatty-api/internal/logger"
	"github.com/chatty-ai/chatty-api/internal/synth"
)

// Agent is one registered non-synth seat: a model identity plus the prompt
// that frames every message sent to it.
type Agent struct {
	ID             string
	Model          string
	IdentityPrompt string
}

// Reply is the outcome of one delegated agent call.
type Reply struct {
	AgentID string
	Answer  string
}

// Manager holds the agent registry. Registration happens at startup; lookups
// at request time.
type Manager struct {
	backend synth.Generator

	mu     sync.RWMutex
	agents map[string]Agent
}

func NewManager(backend synth.Generator) *Manager {
	return &Manager{
		backend: backend,
		agents:  make(map[string]Agent),
	}
}

// Register adds or replaces an agent in the registry.
func (m *Manager) Register(agent Agent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agents[strings.ToLower(agent.ID)] = agent
	logger.Info("Registered agent", logger.Fields{"agent_id": agent.ID, "model": agent.Model})
}

// Agents returns the registered agent ids.
func (m *Manager) Agents() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.agents))
	for id := range m.agents {
		ids = append(ids, id)
	}
	return ids
}

// ErrUnknownAgent marks a request addressed to an id nobody registered.
var ErrUnknownAgent = fmt.Errorf("unknown agent")

// Process delegates one message to the named agent with a single backend
// call. Unknown agent ids are an error.
func (m *Manager) Process(ctx context.Context, agentID, message string) (*Reply, error) {
	m.mu.RLock()
	agent, ok := m.agents[strings.ToLower(strings.TrimSpace(agentID))]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownAgent, agentID)
	}

	if strings.TrimSpace(message) == "" {
		return nil, synth.ErrMissingPrompt
	}

	prompt := message
	if agent.IdentityPrompt != "" {
		prompt = agent.IdentityPrompt + "\n\nUser message:\n" + message
	}

	answer, err := m.backend.Generate(ctx, agent.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", agent.ID, err)
	}

	return &Reply{AgentID: agent.ID, Answer: answer}, nil
}
