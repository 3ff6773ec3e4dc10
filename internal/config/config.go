// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GuestPolicy selects how unauthenticated callers are identified.
type GuestPolicy string

const (
	// GuestShared gives all anonymous callers the same well-known guest identity.
	GuestShared GuestPolicy = "shared"
	// GuestIsolated mints a per-browser guest identity, carried in its own cookie.
	GuestIsolated GuestPolicy = "isolated"
)

// Config holds the application configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Auth   AuthConfig
	AI     AIConfig
	Fetch  FetchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds document store configuration.
type DataConfig struct {
	// Path is the directory for the embedded Badger database.
	Path string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 60s, AI calls run inside handlers)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string      // Allowed CORS origins (default: *)
}

// AuthConfig holds session and identity-provider configuration.
type AuthConfig struct {
	// ProviderURL is the identity-provider endpoint that exchanges an external
	// session identifier for user attributes.
	ProviderURL string
	// ExchangeTimeout bounds the identity-provider call (default: 10s).
	ExchangeTimeout time.Duration
	// SessionDuration is the lifetime of an issued session (default: 168h).
	SessionDuration time.Duration
	// SweepInterval is how often expired sessions are purged (default: 1h, 0 disables).
	SweepInterval time.Duration
	// GuestPolicy selects shared or per-browser guest identities.
	GuestPolicy GuestPolicy
}

// AIConfig holds the completion-API configuration.
// An empty APIKey leaves the AI capability absent; AI routes then report unavailable.
type AIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration // Completion call timeout (default: 60s)
}

// FetchConfig holds timeouts for raw outbound page fetches.
type FetchConfig struct {
	PageTimeout    time.Duration // Page fetch / proxy timeout (default: 30s)
	SuggestTimeout time.Duration // Search-suggestions proxy timeout (default: 5s)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Directory for the document store")
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins")

	providerURL := flag.String("auth-provider-url", "", "Identity provider exchange endpoint")
	sessionDuration := flag.String("session-duration", "", "Session lifetime (default: 168h)")
	sweepInterval := flag.String("session-sweep-interval", "", "Expired-session sweep interval (default: 1h, 0 disables)")
	guestPolicy := flag.String("guest-policy", "", "Guest identity policy: shared or isolated (default: shared)")

	aiBaseURL := flag.String("ai-base-url", "", "Completion API base URL")
	aiModel := flag.String("ai-model", "", "Completion API model")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			Path: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: splitOrigins(getConfigValue(*corsOrigins, "CORS_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			ProviderURL: getConfigValue(*providerURL, "AUTH_PROVIDER_URL", ""),
			GuestPolicy: GuestPolicy(getConfigValue(*guestPolicy, "GUEST_POLICY", string(GuestShared))),
		},
		AI: AIConfig{
			BaseURL: getConfigValue(*aiBaseURL, "AI_BASE_URL", "https://api.a4f.co/v1"),
			APIKey:  getConfigValue("", "AI_API_KEY", ""),
			Model:   getConfigValue(*aiModel, "AI_MODEL", "provider-5/gpt-5-nano"),
		},
	}

	durations := []struct {
		dest         *time.Duration
		flagValue    string
		envKey       string
		defaultValue string
	}{
		{&cfg.Server.ReadTimeout, "", "SERVER_READ_TIMEOUT", "15s"},
		{&cfg.Server.WriteTimeout, "", "SERVER_WRITE_TIMEOUT", "60s"},
		{&cfg.Server.IdleTimeout, "", "SERVER_IDLE_TIMEOUT", "60s"},
		{&cfg.Auth.ExchangeTimeout, "", "AUTH_EXCHANGE_TIMEOUT", "10s"},
		{&cfg.Auth.SessionDuration, *sessionDuration, "SESSION_DURATION", "168h"},
		{&cfg.Auth.SweepInterval, *sweepInterval, "SESSION_SWEEP_INTERVAL", "1h"},
		{&cfg.AI.Timeout, "", "AI_TIMEOUT", "60s"},
		{&cfg.Fetch.PageTimeout, "", "PAGE_FETCH_TIMEOUT", "30s"},
		{&cfg.Fetch.SuggestTimeout, "", "SUGGEST_TIMEOUT", "5s"},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.defaultValue)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Auth.GuestPolicy != GuestShared && c.Auth.GuestPolicy != GuestIsolated {
		return fmt.Errorf("invalid guest policy: %s (must be shared or isolated)", c.Auth.GuestPolicy)
	}

	if c.Data.Path == "" {
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Auth.SessionDuration <= 0 {
		return errors.New("session duration must be positive")
	}

	return nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/DeepBrowser/data when unset.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "DeepBrowser", "data")

	path := c.Data.Path
	if path == "" {
		c.Data.Path = defaultPath
		return nil
	}

	if strings.HasPrefix(path, "~/") {
		path = filepath.Join(homeDir, path[2:])
	}
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	c.Data.Path = filepath.Clean(path)
	return nil
}

// splitOrigins splits a comma-separated origin list, trimming whitespace.
func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Env vars take precedence over .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
