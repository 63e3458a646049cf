// Package app wires configuration, clients and services into a running VeriFin core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/bobmcallan/verifin/internal/clients/eodhd"
	"github.com/bobmcallan/verifin/internal/clients/gemini"
	"github.com/bobmcallan/verifin/internal/clients/yahoo"
	"github.com/bobmcallan/verifin/internal/common"
	"github.com/bobmcallan/verifin/internal/directory"
	"github.com/bobmcallan/verifin/internal/interfaces"
	"github.com/bobmcallan/verifin/internal/services/chart"
	"github.com/bobmcallan/verifin/internal/services/chat"
	"github.com/bobmcallan/verifin/internal/services/compare"
	"github.com/bobmcallan/verifin/internal/services/document"
	"github.com/bobmcallan/verifin/internal/services/financials"
	"github.com/bobmcallan/verifin/internal/services/history"
	"github.com/bobmcallan/verifin/internal/services/indices"
	"github.com/bobmcallan/verifin/internal/services/overview"
	"github.com/bobmcallan/verifin/internal/services/quote"
	"github.com/bobmcallan/verifin/internal/services/resolver"
)

// App holds all initialized clients and services.
// It is the shared core used by cmd/verifin-server and the HTTP handlers.
type App struct {
	Config    *common.Config
	Logger    *common.Logger
	Directory *directory.Directory
	Market    interfaces.MarketClient
	AI        *gemini.Client // nil when no Gemini key is configured

	ResolverService   interfaces.CompanyResolver
	QuoteService      interfaces.QuoteService
	HistoryService    interfaces.HistoryService
	OverviewService   interfaces.OverviewService
	CompareService    interfaces.CompareService
	ChatService       interfaces.ChatService
	DocumentService   interfaces.DocumentService
	IndicesService    interfaces.IndicesService
	FinancialsService interfaces.FinancialsService
	ChartService      interfaces.ChartService

	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and initializes every client and service.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load .env file if it exists
	_ = godotenv.Load()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: provided path, VERIFIN_CONFIG, binary dir, then fallback
	if configPath == "" {
		configPath = os.Getenv("VERIFIN_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "verifin.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/verifin.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	market := newMarketClient(config, logger)

	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - chat and document analysis use pattern fallback")
	}

	var geminiClient *gemini.Client
	if geminiKey != "" {
		geminiClient, err = gemini.NewClient(context.Background(), geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
			geminiClient = nil
		}
	}

	a, err := NewAppWith(config, logger, market, geminiClient)
	if err != nil {
		return nil, err
	}
	a.StartupTime = startupStart

	logger.Info().
		Str("version", common.GetFullVersion()).
		Int64("startup_ms", time.Since(startupStart).Milliseconds()).
		Str("provider", market.Name()).
		Bool("ai", geminiClient != nil).
		Msg("App initialized")

	return a, nil
}

// newMarketClient selects the configured market data provider.
// EODHD without a key falls back to Yahoo.
func newMarketClient(config *common.Config, logger *common.Logger) interfaces.MarketClient {
	if config.Market.Provider == "eodhd" {
		key, err := common.ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey)
		if err == nil {
			return eodhd.NewClient(key,
				eodhd.WithBaseURL(config.Clients.EODHD.BaseURL),
				eodhd.WithLogger(logger),
				eodhd.WithRateLimit(config.Clients.EODHD.RateLimit),
				eodhd.WithTimeout(config.Clients.EODHD.GetTimeout()),
			)
		}
		logger.Warn().Msg("EODHD API key not configured - falling back to Yahoo Finance")
		config.Market.Provider = "yahoo"
	}

	return yahoo.NewClient(
		yahoo.WithLogger(logger),
		yahoo.WithRateLimit(config.Clients.Yahoo.RateLimit),
	)
}

// NewAppWith builds the service graph from an already loaded config and
// explicit clients. ai may be nil.
func NewAppWith(config *common.Config, logger *common.Logger, market interfaces.MarketClient, ai *gemini.Client) (*App, error) {
	dir, err := directory.Load(config.Directory.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load company directory: %w", err)
	}

	var (
		textAI interfaces.TextGenerator
		jsonAI interfaces.JSONGenerator
	)
	if ai != nil {
		textAI = ai
		jsonAI = ai
	}

	tierTimeout := config.Market.GetTierTimeout()

	quoteService := quote.NewService(market, tierTimeout, logger)
	resolverService := resolver.NewService(dir, quoteService, tierTimeout, logger)
	historyService := history.NewService(market, tierTimeout, logger)
	overviewService := overview.NewService(resolverService, quoteService, historyService, config.Market.HistoryYears, logger)

	return &App{
		Config:            config,
		Logger:            logger,
		Directory:         dir,
		Market:            market,
		AI:                ai,
		ResolverService:   resolverService,
		QuoteService:      quoteService,
		HistoryService:    historyService,
		OverviewService:   overviewService,
		CompareService:    compare.NewService(overviewService, logger),
		ChatService:       chat.NewService(textAI, logger),
		DocumentService:   document.NewService(jsonAI, config.Documents.MaxTextChars, logger),
		IndicesService:    indices.NewService(market, config.Market.Indices, tierTimeout, logger),
		FinancialsService: financials.NewService(market, tierTimeout, logger),
		ChartService:      chart.NewService(historyService, logger),
		StartupTime:       time.Now(),
	}, nil
}

// AIEnabled reports whether a Gemini client is configured.
func (a *App) AIEnabled() bool {
	return a.AI != nil
}

// Close releases resources. The current clients hold none.
func (a *App) Close() {
	a.Logger.Info().Msg("App closed")
}
