package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STARDUST_URL", "STARDUST_API_KEY", "STARDUST_VECTOR_TAG",
		"OLLAMA_URL", "OLLAMA_MODEL",
		"MCP_TRANSPORT", "MCP_HOST", "MCP_PORT",
		"CORS_ORIGINS", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StardustURL != "http://localhost:7077" {
		t.Errorf("StardustURL = %q", cfg.StardustURL)
	}
	if cfg.VectorTag != "text" {
		t.Errorf("VectorTag = %q", cfg.VectorTag)
	}
	if cfg.EmbeddingModel != "nomic-embed-text:v1.5" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.Transport != TransportHTTP {
		t.Errorf("Transport = %q", cfg.Transport)
	}
	if cfg.Addr() != "127.0.0.1:8000" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STARDUST_URL", "https://graph.internal:7077")
	t.Setenv("STARDUST_VECTOR_TAG", "plot")
	t.Setenv("MCP_TRANSPORT", "stdio")
	t.Setenv("MCP_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StardustURL != "https://graph.internal:7077" {
		t.Errorf("StardustURL = %q", cfg.StardustURL)
	}
	if cfg.VectorTag != "plot" {
		t.Errorf("VectorTag = %q", cfg.VectorTag)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("Transport = %q", cfg.Transport)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:5173" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad stardust url", "STARDUST_URL", "not-a-url"},
		{"bad stardust scheme", "STARDUST_URL", "ftp://host:21"},
		{"bad transport", "MCP_TRANSPORT", "websocket"},
		{"bad port", "MCP_PORT", "not-a-port"},
		{"port out of range", "MCP_PORT", "70000"},
		{"bad host", "MCP_HOST", "8.8.8.8"},
		{"bad ollama url", "OLLAMA_URL", "nope"},
		{"wildcard cors", "CORS_ORIGINS", "*"},
		{"glob cors", "CORS_ORIGINS", "http://*.example.com"},
		{"schemeless cors", "CORS_ORIGINS", "localhost:3000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected validation error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("super-secret-key")

	if got := fmt.Sprintf("%v", s); got != "[REDACTED]" {
		t.Errorf("Sprintf %%v = %q", got)
	}
	if got := fmt.Sprintf("%#v", s); got != "[REDACTED]" {
		t.Errorf("Sprintf %%#v = %q", got)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(b), "super-secret-key") {
		t.Errorf("JSON leaked the secret: %s", b)
	}

	if s.Value() != "super-secret-key" {
		t.Errorf("Value() = %q", s.Value())
	}
}
