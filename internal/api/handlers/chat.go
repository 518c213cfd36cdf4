package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/chatty-ai/chatty-api/internal/agentsquad"
	"github.com/chatty-ai/chatty-api/internal/config"
	"github.com/chatty-ai/chatty-api/internal/logger"
	"github.com/chatty-ai/chatty-api/internal/metrics"
	"github.com/chatty-ai/chatty-api/internal/middleware"
	"github.com/chatty-ai/chatty-api/internal/models"
	"github.com/chatty-ai/chatty-api/internal/observability"
	"github.com/chatty-ai/chatty-api/internal/synth"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChatHandler struct {
	db            *gorm.DB
	cfg           *config.Config
	orchestrator  *synth.Orchestrator
	squad         *agentsquad.Manager
	sentryMetrics *metrics.SentryMetrics
	cloudwatch    *metrics.Client
}

func NewChatHandler(db *gorm.DB, cfg *config.Config, orchestrator *synth.Orchestrator, squad *agentsquad.Manager, cloudwatch *metrics.Client) *ChatHandler {
	return &ChatHandler{
		db:            db,
		cfg:           cfg,
		orchestrator:  orchestrator,
		squad:         squad,
		sentryMetrics: metrics.NewSentryMetrics(),
		cloudwatch:    cloudwatch,
	}
}

// ChatRequest is the inbound chat contract. Prompt is validated by the
// pipeline itself so an empty prompt maps to the canonical error payload
// rather than a binding error.
type ChatRequest struct {
	Prompt         string                 `json:"prompt"`
	Seat           string                 `json:"seat"`
	History        []string               `json:"history"`
	UIContext      map[string]interface{} `json:"uiContext"`
	ConversationID *uint                  `json:"conversation_id"`
}

// Chat handles POST /api/v1/chat. The synth seat runs the full synthesis
// pipeline; any other seat is delegated to the agent squad.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seat := synth.NormalizeSeat(req.Seat)
	if seat != synth.SeatSynth {
		h.delegateToAgent(c, string(seat), req.Prompt)
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)

	history := req.History
	var conversation *models.Conversation
	if req.ConversationID != nil {
		var err error
		conversation, err = h.loadConversation(userID, *req.ConversationID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		if len(history) == 0 {
			for _, msg := range conversation.Messages {
				history = append(history, msg.Content)
			}
		}
	}

	trace := observability.GetClient().StartTrace(c.Request.Context(), "synth-chat", map[string]interface{}{
		"user_id":    userID,
		"request_id": c.GetString("request_id"),
	})
	defer trace.Finish()

	gen := trace.Generation("synthesis", map[string]interface{}{
		"history_len": len(history),
	})
	gen.Input(req.Prompt)

	start := time.Now()
	outcome, err := h.orchestrator.Run(c.Request.Context(), synth.Request{
		Prompt:    req.Prompt,
		History:   history,
		UIContext: req.UIContext,
	})
	duration := time.Since(start)

	helperCount := 0
	if outcome != nil {
		helperCount = outcome.HelperCount
	}
	h.sentryMetrics.RecordSynthesis(c.Request.Context(), helperCount, duration, err == nil)
	if h.cloudwatch != nil {
		h.cloudwatch.RecordSynthesis(helperCount, duration, err == nil)
	}

	if err != nil {
		gen.SetLevel("ERROR")
		gen.Output(err.Error())
		gen.Finish()
		h.renderSynthesisError(c, err)
		return
	}

	gen.Output(outcome.Answer)
	gen.Metadata(map[string]interface{}{
		"helpers":     outcome.HelperCount,
		"duration_ms": duration.Milliseconds(),
	})
	gen.Finish()

	if conversation != nil {
		h.appendExchange(conversation, req.Prompt, outcome)
	}

	metadata := gin.H{"helpers": outcome.HelperCount}
	if outcome.TimeContext != nil {
		metadata["time"] = outcome.TimeContext
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":   outcome.Answer,
		"model":    "synth",
		"metadata": metadata,
	})
}

// renderSynthesisError maps pipeline errors onto the wire contract: empty
// prompt is a client error, total helper loss a bad-gateway, a failed
// synthesis call an internal error carrying the backend's message.
func (h *ChatHandler) renderSynthesisError(c *gin.Context, err error) {
	var synthErr *synth.SynthesisError
	switch {
	case errors.Is(err, synth.ErrMissingPrompt):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt"})
	case errors.Is(err, synth.ErrAllHelpersFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Synth helper failure"})
	case errors.As(err, &synthErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": synthErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *ChatHandler) delegateToAgent(c *gin.Context, agentID, prompt string) {
	reply, err := h.squad.Process(c.Request.Context(), agentID, prompt)
	if err != nil {
		if errors.Is(err, agentsquad.ErrUnknownAgent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, synth.ErrMissingPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing prompt"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer": reply.Answer,
		"model":  reply.AgentID,
	})
}

func (h *ChatHandler) loadConversation(userID, conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	err := h.db.Where("id = ? AND user_id = ?", conversationID, userID).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// appendExchange persists the prompt and answer. Persistence failure is
// logged, not surfaced: the answer was already produced.
func (h *ChatHandler) appendExchange(conversation *models.Conversation, prompt string, outcome *synth.SynthesisOutcome) {
	messages := []models.Message{
		{ConversationID: conversation.ID, Role: "user", Content: prompt},
		{ConversationID: conversation.ID, Role: "assistant", Content: outcome.Answer, Model: "synth", HelperCount: outcome.HelperCount},
	}
	if err := h.db.Create(&messages).Error; err != nil {
		logger.Error("Failed to persist chat exchange", err, logger.Fields{
			"conversation_id": conversation.ID,
		})
	}
}
