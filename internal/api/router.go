package api

import (
	"github.com/chatty-ai/chatty-api/internal/agentsquad"
	"github.com/chatty-ai/chatty-api/internal/api/handlers"
	apimiddleware "github.com/chatty-ai/chatty-api/internal/api/middleware"
	"github.com/chatty-ai/chatty-api/internal/config"
	"github.com/chatty-ai/chatty-api/internal/llm"
	"github.com/chatty-ai/chatty-api/internal/metrics"
	"github.com/chatty-ai/chatty-api/internal/middleware"
	"github.com/chatty-ai/chatty-api/internal/services"
	"github.com/chatty-ai/chatty-api/internal/storage"
	"github.com/chatty-ai/chatty-api/internal/synth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, store *storage.ObjectStore, cloudwatch *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Synthesis pipeline shared by the chat and agent paths
	seats := buildSeatConfig(cfg)
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.AnthropicAPIKey, cfg.GeminiAPIKey)
	backend := llm.NewTextBackend(factory)
	orchestrator := synth.NewOrchestrator(backend, seats, synth.NewClockTimeService(cfg.Timezone), synth.LogSink{})
	squad := buildAgentSquad(backend, seats)

	// Health check
	router.GET("/health", handlers.HealthCheck(seats))

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Initialize email service for all handlers
	emailService := services.NewEmailService(db, cfg)

	// Auth routes (public)
	auth := router.Group("/api/auth")
	{
		authHandler := handlers.NewAuthHandler(db, cfg, emailService)
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-verification", authHandler.ResendVerification)

		// OAuth routes
		oauthHandler := handlers.NewOAuthHandler(db, cfg)
		auth.GET("/:provider", oauthHandler.BeginAuth)
		auth.GET("/:provider/callback", oauthHandler.Callback)
	}

	// Protected API routes v1 (require JWT)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(db, cfg))
	{
		// Chat endpoint - synthesis orchestration and agent delegation
		chatHandler := handlers.NewChatHandler(db, cfg, orchestrator, squad, cloudwatch)
		v1.POST("/chat", chatHandler.Chat)

		// Conversation endpoints
		conversationHandler := handlers.NewConversationHandler(db)
		v1.POST("/conversations", conversationHandler.Create)
		v1.GET("/conversations", conversationHandler.List)
		v1.GET("/conversations/:id", conversationHandler.Get)
		v1.PUT("/conversations/:id", conversationHandler.Update)
		v1.DELETE("/conversations/:id", conversationHandler.Delete)

		// File endpoints
		fileHandler := handlers.NewFileHandler(db, store)
		v1.POST("/files", fileHandler.Upload)
		v1.GET("/files", fileHandler.List)
		v1.GET("/files/:id/download", fileHandler.Download)
		v1.DELETE("/files/:id", fileHandler.Delete)

		// Assistant capsule endpoints
		capsuleHandler := handlers.NewCapsuleHandler(db)
		v1.PUT("/capsules", capsuleHandler.Save)
		v1.GET("/capsules", capsuleHandler.List)
		v1.GET("/capsules/:instance", capsuleHandler.Get)
		v1.DELETE("/capsules/:instance", capsuleHandler.Delete)

		// Phone verification endpoints
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		phoneService := services.NewPhoneService(redisClient, services.NewSNSSender(cfg))
		phoneHandler := handlers.NewPhoneHandler(db, phoneService)
		v1.POST("/phone/request-code", phoneHandler.RequestCode)
		v1.POST("/phone/verify-code", phoneHandler.VerifyCode)

		// User endpoints
		userHandler := handlers.NewUserHandler(db)
		v1.GET("/me", userHandler.GetProfile)
	}

	return router
}

// buildSeatConfig applies environment overrides on top of the default
// seat-to-model table.
func buildSeatConfig(cfg *config.Config) *synth.SeatConfig {
	seats := synth.DefaultSeatConfig()
	for seat, model := range cfg.SeatModels() {
		if model == "" {
			continue
		}
		if seat == string(synth.SeatSynth) {
			seats.SynthesisModel = model
			continue
		}
		seats.Models[synth.Seat(seat)] = model
	}
	return seats
}

// buildAgentSquad registers the helper seats as directly addressable agents,
// for clients that want one specialist instead of the full synthesis.
func buildAgentSquad(backend synth.Generator, seats *synth.SeatConfig) *agentsquad.Manager {
	squad := agentsquad.NewManager(backend)
	identities := map[synth.Seat]string{
		synth.SeatCoding:    "You are a precise software engineering assistant. Answer with working code and short explanations.",
		synth.SeatCreative:  "You are an imaginative writing assistant. Answer with vivid, original prose.",
		synth.SeatSmalltalk: "You are a friendly conversational companion. Keep replies short and warm.",
	}
	for seat, identity := range identities {
		squad.Register(agentsquad.Agent{
			ID:             string(seat),
			Model:          seats.ModelFor(seat),
			IdentityPrompt: identity,
		})
	}
	return squad
}
