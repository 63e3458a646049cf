// Package common provides shared utilities for VeriFin
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for VeriFin
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Directory   DirectoryConfig `toml:"directory"`
	Market      MarketConfig    `toml:"market"`
	Clients     ClientsConfig   `toml:"clients"`
	Documents   DocumentsConfig `toml:"documents"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"` // "*" allows any origin
}

// DirectoryConfig points at an optional company directory override file.
// An empty path uses the embedded directory.
type DirectoryConfig struct {
	Path string `toml:"path"`
}

// MarketConfig controls the market data pipeline.
type MarketConfig struct {
	Provider     string        `toml:"provider"`      // "yahoo" or "eodhd"
	TierTimeout  string        `toml:"tier_timeout"`  // per upstream attempt
	HistoryYears int           `toml:"history_years"` // price history look-back
	Indices      []IndexConfig `toml:"indices"`
}

// IndexConfig names one entry of the market indices ticker.
type IndexConfig struct {
	Name   string `toml:"name" json:"name"`
	Symbol string `toml:"symbol" json:"symbol"`
}

// GetTierTimeout parses and returns the per-tier timeout
func (c *MarketConfig) GetTierTimeout() time.Duration {
	d, err := time.ParseDuration(c.TierTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	EODHD  EODHDConfig  `toml:"eodhd"`
	Yahoo  YahooConfig  `toml:"yahoo"`
	Gemini GeminiConfig `toml:"gemini"`
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// YahooConfig holds Yahoo Finance client configuration
type YahooConfig struct {
	RateLimit int `toml:"rate_limit"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// DocumentsConfig bounds the document analyzer.
type DocumentsConfig struct {
	MaxUploadMB  int `toml:"max_upload_mb"`
	MaxTextChars int `toml:"max_text_chars"` // text sent to the AI extractor
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// DefaultIndices is the market indices ticker shown when none are configured.
func DefaultIndices() []IndexConfig {
	return []IndexConfig{
		{Name: "NIFTY 50", Symbol: "^NSEI"},
		{Name: "SENSEX", Symbol: "^BSESN"},
		{Name: "BANKNIFTY", Symbol: "^NSEBANK"},
		{Name: "NASDAQ", Symbol: "^IXIC"},
		{Name: "GOLD", Symbol: "GC=F"},
	}
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8000,
			CORSOrigins: []string{"*"},
		},
		Market: MarketConfig{
			Provider:     "yahoo",
			TierTimeout:  "5s",
			HistoryYears: 5,
			Indices:      DefaultIndices(),
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			Yahoo: YahooConfig{
				RateLimit: 5,
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Documents: DocumentsConfig{
			MaxUploadMB:  100,
			MaxTextChars: 100000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			Outputs:  []string{"console"},
			FilePath: "./logs/verifin.log",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	normalizeConfig(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("APP_MODE"); env != "" {
		config.Environment = env
	}
	if env := os.Getenv("VERIFIN_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("VERIFIN_HOST"); host != "" {
		config.Server.Host = host
	}

	// PORT is what most PaaS hosts inject; VERIFIN_PORT wins when both are set
	for _, name := range []string{"PORT", "VERIFIN_PORT"} {
		if port := os.Getenv(name); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				config.Server.Port = p
			}
		}
	}

	if origins := os.Getenv("VERIFIN_CORS_ORIGINS"); origins != "" {
		config.Server.CORSOrigins = splitList(origins)
	}

	if level := os.Getenv("VERIFIN_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if provider := os.Getenv("VERIFIN_MARKET_PROVIDER"); provider != "" {
		config.Market.Provider = provider
	}

	if path := os.Getenv("VERIFIN_DIRECTORY_PATH"); path != "" {
		config.Directory.Path = path
	}

	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.Clients.EODHD.APIKey = key
	}

	if key := firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// normalizeConfig lowercases enum-like fields and restores defaults for invalid values.
func normalizeConfig(config *Config) {
	provider := strings.ToLower(strings.TrimSpace(config.Market.Provider))
	if provider != "yahoo" && provider != "eodhd" {
		provider = "yahoo"
	}
	config.Market.Provider = provider

	if config.Market.HistoryYears <= 0 {
		config.Market.HistoryYears = 5
	}
	if len(config.Market.Indices) == 0 {
		config.Market.Indices = DefaultIndices()
	}
	if len(config.Server.CORSOrigins) == 0 {
		config.Server.CORSOrigins = []string{"*"}
	}
	if config.Documents.MaxUploadMB <= 0 {
		config.Documents.MaxUploadMB = 100
	}
	if config.Documents.MaxTextChars <= 0 {
		config.Documents.MaxTextChars = 100000
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment or fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"eodhd_api_key":  {"EODHD_API_KEY", "VERIFIN_EODHD_API_KEY"},
		"gemini_api_key": {"GEMINI_API_KEY", "VERIFIN_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		if v := firstEnv(envVarNames...); v != "" {
			return v, nil
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// splitList splits a comma separated env value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
