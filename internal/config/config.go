// Package config provides environment-driven configuration for the
// Stardust MCP server.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all application configuration values.
type Config struct {
	StardustURL    string
	StardustAPIKey Secret
	VectorTag      string
	OllamaURL      string
	EmbeddingModel string
	Transport      string
	Host           string
	Port           string
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StardustURL:    envOrDefault("STARDUST_URL", "http://localhost:7077"),
		StardustAPIKey: Secret(envOrDefault("STARDUST_API_KEY", "")),
		VectorTag:      envOrDefault("STARDUST_VECTOR_TAG", "text"),
		OllamaURL:      envOrDefault("OLLAMA_URL", "http://localhost:11434"),
		EmbeddingModel: envOrDefault("OLLAMA_MODEL", "nomic-embed-text:v1.5"),
		Transport:      envOrDefault("MCP_TRANSPORT", TransportHTTP),
		Host:           envOrDefault("MCP_HOST", "127.0.0.1"),
		Port:           envOrDefault("MCP_PORT", "8000"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "text"),
	}

	origins := envOrDefault("CORS_ORIGINS", "")
	if origins != "" {
		cfg.CORSOrigins = strings.Split(origins, ",")
		for i, o := range cfg.CORSOrigins {
			cfg.CORSOrigins[i] = strings.TrimSpace(o)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
