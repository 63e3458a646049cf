package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "yahoo", cfg.Market.Provider)
	assert.Equal(t, 5, cfg.Market.HistoryYears)
	assert.Equal(t, 5*time.Second, cfg.Market.GetTierTimeout())
	assert.Len(t, cfg.Market.Indices, 5)
	assert.Equal(t, "^NSEI", cfg.Market.Indices[0].Symbol)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestConfig_CORSOriginsEnvOverride(t *testing.T) {
	t.Setenv("VERIFIN_CORS_ORIGINS", " https://verifin.netlify.app , ,http://localhost:3000")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, []string{"https://verifin.netlify.app", "http://localhost:3000"}, cfg.Server.CORSOrigins)

	cfg.Server.CORSOrigins = nil
	normalizeConfig(cfg)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("VERIFIN_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestConfig_PlatformPortYieldsToVerifinPort(t *testing.T) {
	t.Setenv("PORT", "10000")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)
	assert.Equal(t, 10000, cfg.Server.Port)

	t.Setenv("VERIFIN_PORT", "9191")
	applyEnvOverrides(cfg)
	assert.Equal(t, 9191, cfg.Server.Port)
}

func TestConfig_AppModeSetsEnvironment(t *testing.T) {
	t.Setenv("APP_MODE", "production")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.True(t, cfg.IsProduction())
}

func TestConfig_KeyEnvOverrides(t *testing.T) {
	t.Setenv("EODHD_API_KEY", "from-env")
	t.Setenv("GOOGLE_API_KEY", "google-fallback")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "from-env", cfg.Clients.EODHD.APIKey)
	assert.Equal(t, "google-fallback", cfg.Clients.Gemini.APIKey)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verifin.toml")
	content := `
environment = "staging"

[server]
port = 7070

[market]
provider = "EODHD"
tier_timeout = "2s"

[[market.indices]]
name = "S&P 500"
symbol = "^GSPC"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("VERIFIN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"), path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "eodhd", cfg.Market.Provider)
	assert.Equal(t, 2*time.Second, cfg.Market.GetTierTimeout())
	require.Len(t, cfg.Market.Indices, 1)
	assert.Equal(t, "S&P 500", cfg.Market.Indices[0].Name)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidProviderFallsBack(t *testing.T) {
	t.Setenv("VERIFIN_MARKET_PROVIDER", "bloomberg")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "yahoo", cfg.Market.Provider)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport = "), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestMarketConfig_InvalidTierTimeout(t *testing.T) {
	cfg := MarketConfig{TierTimeout: "soon"}
	assert.Equal(t, 5*time.Second, cfg.GetTierTimeout())

	cfg.TierTimeout = "-1s"
	assert.Equal(t, 5*time.Second, cfg.GetTierTimeout())
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("VERIFIN_GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := ResolveAPIKey("gemini_api_key", "")
	assert.Error(t, err)

	key, err := ResolveAPIKey("gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	t.Setenv("VERIFIN_GEMINI_API_KEY", "from-env")
	key, err = ResolveAPIKey("gemini_api_key", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestLoadVersionFile(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })

	Version, Build, GitCommit = "dev", "unknown", "v-from-ldflags"

	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte("# build info\nversion: 1.2.3\nbuild: 2026-01-02\ncommit: abc123\n"), 0644))

	loadVersionFile(path)

	info := GetBuildInfo()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "2026-01-02", info.Build)
	assert.Equal(t, "v-from-ldflags", info.Commit, "ldflags value must not be replaced")
}
