package infra

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv              string
	Port                string
	StoragePath         string
	StorageBaseURL      string
	BrandDirectoryKey   string
	BrandDirectoryURL   string
	RenderAPIKey        string
	RenderBaseURL       string
	GeminiAPIKey        string
	GeminiModel         string
	GeminiBaseURL       string
	SearchBaseURL       string
	BrightnessThreshold int
	RenderConcurrency   int
	FetchTimeout        time.Duration
	HTTPReadTimeout     time.Duration
	HTTPWriteTimeout    time.Duration
	HTTPIdleTimeout     time.Duration
	RateLimitPerMin     int
	CORSAllowedOrigins  []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "8080"),
		StoragePath:         getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:      os.Getenv("STORAGE_BASE_URL"),
		BrandDirectoryKey:   os.Getenv("BRAND_DIRECTORY_API_KEY"),
		BrandDirectoryURL:   getEnv("BRAND_DIRECTORY_BASE_URL", "https://api.brandfetch.io"),
		RenderAPIKey:        os.Getenv("RENDER_API_KEY"),
		RenderBaseURL:       getEnv("RENDER_BASE_URL", "https://api.renderforest.com"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getEnv("GEMINI_MODEL", "gemini-2.5-flash-image"),
		GeminiBaseURL:       getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		SearchBaseURL:       getEnv("SEARCH_BASE_URL", "https://duckduckgo.com/html/"),
		BrightnessThreshold: getEnvInt("BRIGHTNESS_THRESHOLD", 30),
		RenderConcurrency:   getEnvInt("RENDER_CONCURRENCY", 1),
		FetchTimeout:        time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 8)),
		HTTPReadTimeout:     time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:    time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:     time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:     getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.StorageBaseURL == "" {
		cfg.StorageBaseURL = fmt.Sprintf("http://localhost:%s/static", cfg.Port)
	}
	if _, err := url.Parse(cfg.StorageBaseURL); err != nil {
		return nil, fmt.Errorf("STORAGE_BASE_URL is not a valid URL: %w", err)
	}

	if cfg.BrandDirectoryKey == "" {
		return nil, fmt.Errorf("BRAND_DIRECTORY_API_KEY is required")
	}

	if cfg.RenderAPIKey == "" {
		return nil, fmt.Errorf("RENDER_API_KEY is required")
	}

	// The classifier treats a non-positive threshold as "use the default",
	// so 0 is not an expressible setting.
	if cfg.BrightnessThreshold < 1 || cfg.BrightnessThreshold > 255 {
		return nil, fmt.Errorf("BRIGHTNESS_THRESHOLD must be within [1,255]")
	}

	if cfg.RenderConcurrency < 1 {
		cfg.RenderConcurrency = 1
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

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
