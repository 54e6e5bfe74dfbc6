// Package config loads service configuration from the environment. A .env
// file in the working directory is honored when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Extraction ExtractionConfig
	Preview    PreviewConfig
	Results    ResultsConfig
	LogLevel   string
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            string
	CORSOrigins     string
	BodyLimitMB     int
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the file storage backend.
type StorageConfig struct {
	Mode     string // "local" or "s3"
	LocalDir string
	S3Bucket string
	S3Region string
	S3Prefix string
}

// ExtractionConfig configures the extraction pipelines.
type ExtractionConfig struct {
	// PreviewDPI is the resolution used for page previews and OCR
	// rasterization. Both must agree for word boxes to align with the
	// preview image.
	PreviewDPI      int
	PipelineTimeout time.Duration
	OCRLanguages    []string
	OCRWorkers      int
}

// PreviewConfig configures the page-preview cache.
type PreviewConfig struct {
	CacheBackend  string // "storage" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

// ResultsConfig configures persistence of extraction responses.
type ResultsConfig struct {
	Store       string // "storage" or "postgres"
	PostgresDSN string
}

// Load reads configuration from the environment.
func Load() *Config {
	// Best effort; absence of a .env file is the normal production case.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
			BodyLimitMB:     getEnvInt("BODY_LIMIT_MB", 50),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			Mode:     getEnv("STORAGE_MODE", "local"),
			LocalDir: getEnv("DATA_DIR", "./data"),
			S3Bucket: getEnv("AWS_BUCKET", "pdfscope-files"),
			S3Region: getEnv("AWS_REGION", "us-east-1"),
			S3Prefix: getEnv("S3_PREFIX", ""),
		},
		Extraction: ExtractionConfig{
			PreviewDPI:      getEnvInt("PREVIEW_DPI", 150),
			PipelineTimeout: getEnvDuration("PIPELINE_TIMEOUT", 2*time.Minute),
			OCRLanguages:    getEnvStringSlice("OCR_LANGUAGES", []string{"eng"}),
			OCRWorkers:      getEnvInt("OCR_WORKERS", 2),
		},
		Preview: PreviewConfig{
			CacheBackend:  getEnv("PREVIEW_CACHE", "storage"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisTTL:      getEnvDuration("PREVIEW_CACHE_TTL", 24*time.Hour),
		},
		Results: ResultsConfig{
			Store:       getEnv("RESULTS_STORE", "storage"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvStringSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
