package common

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	LLM    LLMConfig
	OCR    OCRConfig
	Log    LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr        string        `envconfig:"GRPC_ADDR" default:":9090"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	RateLimit       int           `envconfig:"RATE_LIMIT" default:"60"` // requests per minute per IP
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	APIKey      string  `envconfig:"OPENAI_API_KEY"`
	BaseURL     string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model       string  `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	Temperature float32 `envconfig:"OPENAI_TEMPERATURE" default:"0.2"`
	MaxTokens   int     `envconfig:"OPENAI_MAX_TOKENS" default:"4096"`
}

// OCRConfig holds text-detection configuration
type OCRConfig struct {
	APIKey   string        `envconfig:"VISION_API_KEY"`
	Endpoint string        `envconfig:"VISION_ENDPOINT" default:"https://vision.googleapis.com/v1/images:annotate"`
	Timeout  time.Duration `envconfig:"VISION_TIMEOUT" default:"20s"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Format string `envconfig:"LOG_FORMAT" default:"json"`
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
// Every key may be given with its section prefix (LLM_OPENAI_MODEL) or bare (OPENAI_MODEL).
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, NewAppError(CodeConfig, "load environment", err)
	}
	return &cfg, nil
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError(CodeConfig, "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Model == "" {
		return NewAppError(CodeConfig, "OPENAI_MODEL is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError(CodeConfig, "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}

// ValidateOCR is checked only by entry points that parse invoices.
func (c *Config) ValidateOCR() error {
	if c.OCR.APIKey == "" {
		return NewAppError(CodeConfig, "VISION_API_KEY is required", ErrInvalidInput)
	}
	return nil
}
