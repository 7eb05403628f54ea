package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ESPN_SEASON", "2026")
	t.Setenv("ESPN_LEAGUE_ID", "12345")
	t.Setenv("ESPN_S2_COOKIE", "cookie-value")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiredProviderEnv(t *testing.T) {
	t.Run("missing season", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ESPN_SEASON", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ESPN_SEASON is missing")
		}
	})

	t.Run("season must be positive", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ESPN_SEASON", "-2026")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for negative ESPN_SEASON")
		}
	})

	t.Run("missing league id", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ESPN_LEAGUE_ID", "  ")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ESPN_LEAGUE_ID is missing")
		}
	})

	t.Run("missing cookie", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("ESPN_S2_COOKIE", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ESPN_S2_COOKIE is missing")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "fantasy-hockey-notifier" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.ESPNTimeout != 20*time.Second {
		t.Fatalf("unexpected default timeout: %s", cfg.ESPNTimeout)
	}
	if cfg.ESPNMaxRetries != 1 {
		t.Fatalf("unexpected default max retries: %d", cfg.ESPNMaxRetries)
	}
	if !cfg.ESPNCircuitEnabled || cfg.ESPNCircuitFailureCount != 5 {
		t.Fatalf("unexpected default circuit config: %+v", cfg)
	}
	if cfg.LastRunFilePath != ".lastrun" {
		t.Fatalf("unexpected last run file path: %q", cfg.LastRunFilePath)
	}
	if cfg.NotifyMaxWorkers != 4 {
		t.Fatalf("unexpected default notify workers: %d", cfg.NotifyMaxWorkers)
	}
	if cfg.PollInterval != 0 {
		t.Fatalf("expected one-shot run by default, got %s", cfg.PollInterval)
	}
	if cfg.PositionSuffixMode != SuffixModeNonPrimary {
		t.Fatalf("unexpected default suffix mode: %q", cfg.PositionSuffixMode)
	}
	if !cfg.TopicHeadersEnabled || !cfg.DraftPickTradesEnabled {
		t.Fatalf("expected topic headers and draft pick trades enabled by default")
	}
	if cfg.EarliestDate != 0 || cfg.LatestDate != 0 {
		t.Fatalf("expected window overrides unset by default")
	}
}

func TestLoad_SuffixModeValidation(t *testing.T) {
	t.Run("all eligible accepted", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RENDER_POSITION_SUFFIX_MODE", "ALL_ELIGIBLE")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.PositionSuffixMode != SuffixModeAllEligible {
			t.Fatalf("unexpected suffix mode: %q", cfg.PositionSuffixMode)
		}
	})

	t.Run("invalid rejected", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("RENDER_POSITION_SUFFIX_MODE", "primary_only")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid suffix mode")
		}
	})
}

func TestLoad_WindowOverrideParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EARLIEST_DATE", "1759190400000")
	t.Setenv("LATEST_DATE", "1759276800000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.EarliestDate != 1759190400000 {
		t.Fatalf("unexpected earliest date: %d", cfg.EarliestDate)
	}
	if cfg.LatestDate != 1759276800000 {
		t.Fatalf("unexpected latest date: %d", cfg.LatestDate)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SERVICE_NAME", "hockey-notifier-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "hockey-notifier-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Run("default true", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 10*time.Minute {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_WebhookAndPollParsing(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("POLL_INTERVAL", "5m")
	t.Setenv("NOTIFY_MAX_WORKERS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DiscordWebhookURL != "https://discord.com/api/webhooks/1/abc" {
		t.Fatalf("unexpected webhook url: %q", cfg.DiscordWebhookURL)
	}
	if cfg.WebhookTimeout != 3*time.Second {
		t.Fatalf("unexpected webhook timeout: %s", cfg.WebhookTimeout)
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval)
	}
	if cfg.NotifyMaxWorkers != 2 {
		t.Fatalf("unexpected notify workers: %d", cfg.NotifyMaxWorkers)
	}
}
