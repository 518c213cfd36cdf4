package config

import "os"

// Config holds the application configuration, loaded once at startup.
type Config struct {
	// Environment
	Environment string
	Port        string
	DatabaseURL string
	JWTSecret   string

	// LLM API Keys
	OpenAIAPIKey    string // OpenAI API key for GPT models
	AnthropicAPIKey string // Anthropic API key for Claude models
	GeminiAPIKey    string // Google Gemini API key

	// Seat model overrides (defaults applied in synth.SeatConfig)
	CodingModel    string
	CreativeModel  string
	SmalltalkModel string
	SynthesisModel string
	Timezone       string

	// Observability
	SentryDSN         string // Sentry DSN for error tracking
	LangfusePublicKey string // Langfuse public key
	LangfuseSecretKey string // Langfuse secret key
	LangfuseHost      string // Langfuse host URL (cloud or self-hosted)
	LangfuseEnabled   bool   // Feature flag for Langfuse

	// AWS (SES email, CloudWatch metrics)
	AWSRegion string
	FromEmail string
	BaseURL   string

	// OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GithubClientID     string
	GithubClientSecret string
	SessionSecret      string

	// Redis (phone verification codes)
	RedisAddr     string
	RedisPassword string

	// Object storage (file uploads)
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/chatty?sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret-change-me"),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),

		CodingModel:    getEnv("SYNTH_CODING_MODEL", ""),
		CreativeModel:  getEnv("SYNTH_CREATIVE_MODEL", ""),
		SmalltalkModel: getEnv("SYNTH_SMALLTALK_MODEL", ""),
		SynthesisModel: getEnv("SYNTH_MODEL", ""),
		Timezone:       getEnv("SYNTH_TIMEZONE", "America/New_York"),

		SentryDSN:         getEnv("SENTRY_DSN", ""),
		LangfusePublicKey: getEnv("LANGFUSE_PUBLIC_KEY", ""),
		LangfuseSecretKey: getEnv("LANGFUSE_SECRET_KEY", ""),
		LangfuseHost:      getEnv("LANGFUSE_HOST", "https://cloud.langfuse.com"),
		LangfuseEnabled:   getEnv("LANGFUSE_ENABLED", "false") == "true",

		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		FromEmail: getEnv("FROM_EMAIL", "noreply@chatty.chat"),
		BaseURL:   getEnv("BASE_URL", "http://localhost:8080"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GithubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GithubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		SessionSecret:      getEnv("SESSION_SECRET", "dev-session-secret"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "chatty-uploads"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// SeatModels returns the configured per-seat model identifiers, empty strings
// meaning "use the default".
func (c *Config) SeatModels() map[string]string {
	return map[string]string{
		"coding":    c.CodingModel,
		"creative":  c.CreativeModel,
		"smalltalk": c.SmalltalkModel,
		"synth":     c.SynthesisModel,
	}
}
