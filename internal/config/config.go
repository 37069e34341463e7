// Package config loads environment-driven configuration for both binaries
// using struct tags.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
)

// PipelineConfig configures the core ingestion/analysis binary.
type PipelineConfig struct {
	APIBaseURL          string `env:"API_BASE_URL" envDefault:"http://localhost:8000"`
	GCSCredentialsPath  string `env:"GCS_CREDENTIALS_PATH"`
	GCSBucketName       string `env:"GCS_BUCKET_NAME"`
	GeminiAPIKey        string `env:"GEMINI_API_KEY"`
	GeminiModel         string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-pro"`
	UploadsDir          string `env:"UPLOADS_DIR" envDefault:"uploads"`
	GridRows            int    `env:"GRID_ROWS" envDefault:"2"`
	GridCols            int    `env:"GRID_COLS" envDefault:"3"`
	StreamsCacheTTLSecs int    `env:"STREAMS_CACHE_TTL" envDefault:"300"`
	VerifyHLSTimeoutSec int    `env:"VERIFY_HLS_TIMEOUT" envDefault:"10"`
	ExtractTimeoutSec   int    `env:"EXTRACT_TIMEOUT" envDefault:"5"`
	VisionTimeoutSec    int    `env:"VISION_TIMEOUT" envDefault:"30"`
	VerifyIntervalSec   int    `env:"VERIFY_STREAMS_INTERVAL" envDefault:"60"`
	CaptureIntervalSec  int    `env:"CAPTURE_SCREENSHOTS_INTERVAL" envDefault:"10"`
	LogHistorySize      int    `env:"FFMPEG_LOG_HISTORY_SIZE" envDefault:"100"`
	FFmpegBinary        string `env:"FFMPEG_BINARY" envDefault:"ffmpeg"`
}

// ServerConfig configures the gin CRUD/auth binary.
type ServerConfig struct {
	Port string
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"gridwatch"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// JWTConfig configures token signing for the CRUD service's auth surface.
type JWTConfig struct {
	Secret string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	Expiry string `env:"JWT_EXPIRY" envDefault:"24h"`
}

// APIConfig is the full config tree for cmd/api.
type APIConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

// LoadPipeline parses environment variables into a PipelineConfig.
func LoadPipeline() (*PipelineConfig, error) {
	cfg := &PipelineConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse pipeline config: %w", err)
	}
	return cfg, nil
}

// LoadAPI parses environment variables into an APIConfig.
func LoadAPI() (*APIConfig, error) {
	cfg := &APIConfig{}
	cfg.Server.Port = getEnv("PORT", "8000")
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("config: parse database config: %w", err)
	}
	if err := env.Parse(&cfg.JWT); err != nil {
		return nil, fmt.Errorf("config: parse jwt config: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
