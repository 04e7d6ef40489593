package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	// Video generation service (xAI Grok).
	XAIAPIKey  string
	XAIBaseURL string

	// Background removal service.
	BGRemoverAPIKey  string
	BGRemoverBaseURL string

	// Text-to-speech service (MiniMax).
	MiniMaxToken   string
	MiniMaxBaseURL string

	// Chat completion service (DeepSeek).
	DeepSeekAPIKey  string
	DeepSeekBaseURL string

	// PublicBaseURL is the externally reachable address of this server. The
	// background-removal service fetches direct uploads by URL, so it must be
	// able to reach <PublicBaseURL>/uploads/<name>.
	PublicBaseURL string
	UploadPath    string

	FrontendURL   string
	RedisURL      string
	GeoIPDBPath   string
	DefaultLocale string

	VideoPollInterval time.Duration
	VideoPollAttempts int

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "4000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		XAIAPIKey:         os.Getenv("XAI_API_KEY"),
		XAIBaseURL:        getEnv("XAI_BASE_URL", "https://api.x.ai/v1"),
		BGRemoverAPIKey:   os.Getenv("VIDEO_BG_REMOVER_KEY"),
		BGRemoverBaseURL:  getEnv("VIDEO_BG_REMOVER_BASE_URL", "https://api.videobgremover.com/v1"),
		MiniMaxToken:      os.Getenv("MINIMAX_TOKEN"),
		MiniMaxBaseURL:    getEnv("MINIMAX_BASE_URL", "https://api-bj.minimaxi.com/v1"),
		DeepSeekAPIKey:    os.Getenv("DEEPSEEK_API_KEY"),
		DeepSeekBaseURL:   getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
		PublicBaseURL:     os.Getenv("PUBLIC_BASE_URL"),
		UploadPath:        getEnv("UPLOAD_PATH", "./uploads"),
		FrontendURL:       os.Getenv("FRONTEND_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "zh-HK"),
		VideoPollInterval: time.Second * time.Duration(getEnvInt("VIDEO_POLL_INTERVAL_SECONDS", 2)),
		VideoPollAttempts: getEnvInt("VIDEO_POLL_MAX_ATTEMPTS", 120),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 600)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}

	if cfg.VideoPollInterval <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_INTERVAL_SECONDS must be positive")
	}
	if cfg.VideoPollAttempts <= 0 {
		return nil, fmt.Errorf("VIDEO_POLL_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
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
