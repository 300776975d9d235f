package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultVisionModelVersion pins the BLIP-2 captioning model on Replicate.
const DefaultVisionModelVersion = "2e1dddc8621f72155f24cf2e0adbde548458d3cab9f00c0139eea840d0ac4746"

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	ReplicateAPIToken    string
	ReplicateBaseURL     string
	VisionModelVersion   string
	EditModel            string
	EditOutputFormat     string
	PollInterval         time.Duration
	TransformMaxAttempts int
	AnalyzeMaxWait       time.Duration

	AzureOpenAIKey        string
	AzureOpenAIEndpoint   string
	AzureOpenAIAPIVersion string
	AzureOpenAIDeployment string

	TelegramBotToken string
	TelegramChatID   int64

	StorageDir     string
	StorageBaseURL string
	S3Bucket       string
	S3Prefix       string
	S3Region       string
	S3URLTTL       time.Duration

	MaxConcurrentJobs int

	CORSAllowedOrigins []string
	RateLimitPerMin    int
	// TrustProxy honors X-Forwarded-For / X-Real-IP from the peer.
	TrustProxy bool

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Credentials are optional here; components report a configuration error when
// a request needs one that is missing.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8000")
	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   port,

		ReplicateAPIToken:    strings.TrimSpace(os.Getenv("REPLICATE_API_TOKEN")),
		ReplicateBaseURL:     getEnv("REPLICATE_BASE_URL", "https://api.replicate.com/v1"),
		VisionModelVersion:   getEnv("VISION_MODEL_VERSION", DefaultVisionModelVersion),
		EditModel:            getEnv("EDIT_MODEL", "google/nano-banana"),
		EditOutputFormat:     getEnv("EDIT_OUTPUT_FORMAT", "jpg"),
		PollInterval:         time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 1000)),
		TransformMaxAttempts: getEnvInt("TRANSFORM_MAX_ATTEMPTS", 120),
		AnalyzeMaxWait:       time.Second * time.Duration(getEnvInt("ANALYZE_MAX_WAIT_SECONDS", 60)),

		AzureOpenAIKey:        strings.TrimSpace(os.Getenv("AZURE_OPENAI_API_KEY")),
		AzureOpenAIEndpoint:   strings.TrimSpace(os.Getenv("AZURE_OPENAI_ENDPOINT")),
		AzureOpenAIAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-10-21"),
		AzureOpenAIDeployment: strings.TrimSpace(os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME")),

		TelegramBotToken: strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		TelegramChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),

		StorageDir:     strings.TrimSpace(os.Getenv("STORAGE_DIR")),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),
		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Prefix:       getEnv("S3_PREFIX", "uploads/"),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3URLTTL:       time.Minute * time.Duration(getEnvInt("S3_URL_TTL_MINUTES", 60)),

		MaxConcurrentJobs: getEnvInt("MAX_CONCURRENT_JOBS", 0),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		TrustProxy:         getEnvBool("TRUST_PROXY", false),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 300)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.TransformMaxAttempts <= 0 {
		cfg.TransformMaxAttempts = 120
	}
	return cfg, nil
}

// ChatConfigured reports whether the chat-completion proxy can be used.
func (c *Config) ChatConfigured() bool {
	return c.AzureOpenAIKey != "" && c.AzureOpenAIEndpoint != "" && c.AzureOpenAIDeployment != ""
}

// TelegramConfigured reports whether lead alerts can be delivered.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
