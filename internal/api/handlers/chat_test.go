package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chatty-ai/chatty-api/internal/agentsquad"
	"github.com/chatty-ai/chatty-api/internal/config"
	"github.com/chatty-ai/chatty-api/internal/synth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatBackend scripts responses per model so helper and synthesis calls can
// be told apart.
type chatBackend struct {
	respond func(model, prompt string) (string, error)
}

func (b *chatBackend) Generate(_ context.Context, model, prompt string) (string, error) {
	return b.respond(model, prompt)
}

func chatTestSeats() *synth.SeatConfig {
	return &synth.SeatConfig{
		Models: map[synth.Seat]string{
			synth.SeatCoding:    "model-coding",
			synth.SeatCreative:  "model-creative",
			synth.SeatSmalltalk: "model-smalltalk",
		},
		SynthesisModel: "model-synth",
	}
}

func newChatRouter(t *testing.T, backend synth.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	seats := chatTestSeats()
	orchestrator := synth.NewOrchestrator(backend, seats, synth.NewClockTimeService("UTC"), nil)

	squad := agentsquad.NewManager(backend)
	squad.Register(agentsquad.Agent{
		ID:             "coding",
		Model:          "model-coding",
		IdentityPrompt: "You are a precise software engineering assistant.",
	})

	handler := NewChatHandler(nil, &config.Config{}, orchestrator, squad, nil)

	router := gin.New()
	router.POST("/api/v1/chat", handler.Chat)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestChatSynthSuccess(t *testing.T) {
	backend := &chatBackend{respond: func(model, _ string) (string, error) {
		if model == "model-synth" {
			return "Here is the merged answer.", nil
		}
		return "specialist take from " + model, nil
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":"how do I sort a slice?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Here is the merged answer.", body["answer"])
	assert.Equal(t, "synth", body["model"])

	metadata, ok := body["metadata"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), metadata["helpers"])
	assert.Contains(t, metadata, "time")
}

func TestChatMissingPrompt(t *testing.T) {
	backend := &chatBackend{respond: func(string, string) (string, error) {
		t.Error("backend must not be called for an empty prompt")
		return "", nil
	}}
	router := newChatRouter(t, backend)

	for _, payload := range []string{`{"prompt":""}`, `{"prompt":"   "}`, `{}`} {
		w := postChat(t, router, payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Missing prompt", body["error"])
	}
}

func TestChatAllHelpersFailed(t *testing.T) {
	backend := &chatBackend{respond: func(model, _ string) (string, error) {
		if model == "model-synth" {
			t.Error("synthesis must not run when every helper failed")
		}
		return "", fmt.Errorf("backend down")
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":"anything"}`)

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Synth helper failure", body["error"])
}

func TestChatSynthesisFailure(t *testing.T) {
	backend := &chatBackend{respond: func(model, _ string) (string, error) {
		if model == "model-synth" {
			return "", fmt.Errorf("context length exceeded")
		}
		return "fine", nil
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":"anything"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "context length exceeded", body["error"])
}

func TestChatPartialHelperFailure(t *testing.T) {
	backend := &chatBackend{respond: func(model, _ string) (string, error) {
		switch model {
		case "model-creative":
			return "", fmt.Errorf("timeout")
		case "model-synth":
			return "merged without the creative seat", nil
		default:
			return "ok", nil
		}
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":"anything"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	metadata := body["metadata"].(map[string]interface{})
	assert.Equal(t, float64(2), metadata["helpers"])
}

func TestChatDelegatesToAgentSeat(t *testing.T) {
	backend := &chatBackend{respond: func(model, prompt string) (string, error) {
		require.Equal(t, "model-coding", model)
		assert.Contains(t, prompt, "User message:")
		return "direct specialist answer", nil
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":"review this function","seat":"coding"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "direct specialist answer", body["answer"])
	assert.Equal(t, "coding", body["model"])
}

func TestChatUnknownSeat(t *testing.T) {
	backend := &chatBackend{respond: func(string, string) (string, error) {
		t.Error("backend must not be called for an unknown seat")
		return "", nil
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":"hello","seat":"lawyer"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "unknown agent")
}

func TestChatRejectsMalformedJSON(t *testing.T) {
	backend := &chatBackend{respond: func(string, string) (string, error) {
		return "", nil
	}}
	router := newChatRouter(t, backend)

	w := postChat(t, router, `{"prompt":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
