package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

func (c *Config) validate() error {
	if err := c.validateStardust(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateOllama(); err != nil {
		return err
	}

	return c.validateCORS()
}

func (c *Config) validateStardust() error {
	u, err := url.ParseRequestURI(c.StardustURL)
	if err != nil {
		return fmt.Errorf("STARDUST_URL is not a valid URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("STARDUST_URL scheme must be http:// or https://")
	}

	if u.Hostname() == "" {
		return fmt.Errorf("STARDUST_URL must include a host")
	}

	if c.VectorTag == "" {
		return fmt.Errorf("STARDUST_VECTOR_TAG must not be empty")
	}

	return nil
}

func (c *Config) validateNetwork() error {
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("MCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}

	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("MCP_PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("MCP_PORT must be between 1 and 65535")
	}

	// Allow loopback addresses for local deployments and 0.0.0.0/:: for
	// containerized deployments where the network boundary is enforced
	// externally (e.g. Docker, Kubernetes).
	validHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !validHosts[c.Host] {
		return fmt.Errorf("MCP_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.Host)
	}

	return nil
}

func (c *Config) validateOllama() error {
	u, err := url.ParseRequestURI(c.OllamaURL)
	if err != nil {
		return fmt.Errorf("OLLAMA_URL is not a valid URL: %w", err)
	}

	if u.Hostname() == "" {
		return fmt.Errorf("OLLAMA_URL must include a host")
	}

	if c.EmbeddingModel == "" {
		return fmt.Errorf("OLLAMA_MODEL must not be empty")
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}
