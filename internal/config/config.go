// Package config loads runtime settings for the OCR MCP server from the
// environment. A .env file in the working directory is honored when present,
// mirroring how the server is typically launched from an MCP client config.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all tunable settings. Every field has a working default so
// the server runs with an empty environment.
type Config struct {
	// ServerName and ServerVersion are advertised during the MCP
	// initialize handshake.
	ServerName    string `env:"OCR_MCP_SERVER_NAME" envDefault:"fast-paddleocr-mcp"`
	ServerVersion string `env:"OCR_MCP_SERVER_VERSION" envDefault:"0.5.0"`

	// LogLevel enables debug logging when set to "debug". All logging goes
	// to stderr; stdout carries the protocol.
	LogLevel string `env:"OCR_MCP_LOG_LEVEL" envDefault:""`

	// DefaultLanguage is used when a request omits the language argument.
	DefaultLanguage string `env:"OCR_MCP_DEFAULT_LANGUAGE" envDefault:"ch"`

	// MaxImageSize is the largest allowed dimension (width or height) before
	// preprocessing downscales the image.
	MaxImageSize int `env:"OCR_MCP_MAX_IMAGE_SIZE" envDefault:"1920"`

	// JPEGQuality is the encoding quality for the preprocessed temp image.
	JPEGQuality int `env:"OCR_MCP_JPEG_QUALITY" envDefault:"95"`

	// TessdataPrefix overrides the tesseract training-data directory.
	// Empty means the system default.
	TessdataPrefix string `env:"OCR_MCP_TESSDATA_PREFIX" envDefault:""`

	// EnableSnapshot additionally writes a <image>.snapshot.log YAML file
	// with bounding-box geometry and returns its path as a second content
	// item. Off by default.
	EnableSnapshot bool `env:"OCR_MCP_SNAPSHOT" envDefault:"false"`
}

// Load reads the optional .env file and the environment.
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.MaxImageSize <= 0 {
		return nil, fmt.Errorf("max image size must be positive, got %d", cfg.MaxImageSize)
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return nil, fmt.Errorf("jpeg quality must be in 1..100, got %d", cfg.JPEGQuality)
	}

	return cfg, nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}
