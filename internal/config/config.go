package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/puckwatch/fantasy-hockey-notifier/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	SuffixModeNonPrimary  = "non_primary"
	SuffixModeAllEligible = "all_eligible"
)

// Config stores runtime configuration for the notifier.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	Season   int
	LeagueID string
	S2Cookie string

	ESPNBaseURL               string
	ESPNTimeout               time.Duration
	ESPNMaxRetries            int
	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int
	ESPNCircuitOpenTimeout    time.Duration
	ESPNCircuitHalfOpenMaxReq int

	EarliestDate int64
	LatestDate   int64

	LastRunFilePath         string
	DBURL                   string
	DBDisablePreparedBinary bool

	DiscordWebhookURL            string
	WebhookTimeout               time.Duration
	WebhookCircuitEnabled        bool
	WebhookCircuitFailureCount   int
	WebhookCircuitOpenTimeout    time.Duration
	WebhookCircuitHalfOpenMaxReq int
	NotifyMaxWorkers             int

	PollInterval time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration

	PositionSuffixMode     string
	TopicHeadersEnabled    bool
	DraftPickTradesEnabled bool

	UptraceEnabled bool
	UptraceDSN     string

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	season, err := getEnvAsInt("ESPN_SEASON", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_SEASON: %w", err)
	}
	if season <= 0 {
		return Config{}, fmt.Errorf("ESPN_SEASON is required and must be > 0")
	}

	leagueID := strings.TrimSpace(getEnv("ESPN_LEAGUE_ID", ""))
	if leagueID == "" {
		return Config{}, fmt.Errorf("ESPN_LEAGUE_ID is required")
	}

	s2Cookie := strings.TrimSpace(getEnv("ESPN_S2_COOKIE", ""))
	if s2Cookie == "" {
		return Config{}, fmt.Errorf("ESPN_S2_COOKIE is required")
	}

	espnTimeout, err := time.ParseDuration(getEnv("ESPN_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_TIMEOUT: %w", err)
	}
	if espnTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_TIMEOUT must be > 0")
	}
	espnMaxRetries, err := getEnvAsInt("ESPN_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	if espnMaxRetries < 0 {
		return Config{}, fmt.Errorf("ESPN_MAX_RETRIES must be >= 0")
	}
	espnCircuitEnabled, err := strconv.ParseBool(getEnv("ESPN_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_ENABLED: %w", err)
	}
	espnCircuitFailureCount, err := getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if espnCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	espnCircuitOpenTimeout, err := time.ParseDuration(getEnv("ESPN_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if espnCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	espnCircuitHalfOpenMaxReq, err := getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if espnCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	earliestDate, err := getEnvAsInt64("EARLIEST_DATE", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse EARLIEST_DATE: %w", err)
	}
	if earliestDate < 0 {
		return Config{}, fmt.Errorf("EARLIEST_DATE must be >= 0")
	}
	latestDate, err := getEnvAsInt64("LATEST_DATE", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse LATEST_DATE: %w", err)
	}
	if latestDate < 0 {
		return Config{}, fmt.Errorf("LATEST_DATE must be >= 0")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	webhookTimeout, err := time.ParseDuration(getEnv("WEBHOOK_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_TIMEOUT: %w", err)
	}
	if webhookTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_TIMEOUT must be > 0")
	}
	webhookCircuitEnabled, err := strconv.ParseBool(getEnv("WEBHOOK_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_ENABLED: %w", err)
	}
	webhookCircuitFailureCount, err := getEnvAsInt("WEBHOOK_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if webhookCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	webhookCircuitOpenTimeout, err := time.ParseDuration(getEnv("WEBHOOK_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if webhookCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	webhookCircuitHalfOpenMaxReq, err := getEnvAsInt("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if webhookCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("WEBHOOK_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	notifyMaxWorkers, err := getEnvAsInt("NOTIFY_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_MAX_WORKERS: %w", err)
	}
	if notifyMaxWorkers < 1 {
		return Config{}, fmt.Errorf("NOTIFY_MAX_WORKERS must be >= 1")
	}

	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse POLL_INTERVAL: %w", err)
	}
	if pollInterval < 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be >= 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	suffixMode, err := parseSuffixMode(getEnv("RENDER_POSITION_SUFFIX_MODE", SuffixModeNonPrimary))
	if err != nil {
		return Config{}, err
	}
	topicHeadersEnabled, err := strconv.ParseBool(getEnv("RENDER_TOPIC_HEADERS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RENDER_TOPIC_HEADERS: %w", err)
	}
	draftPickTradesEnabled, err := strconv.ParseBool(getEnv("RENDER_DRAFT_PICK_TRADES", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RENDER_DRAFT_PICK_TRADES: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ""))
	if pprofEnabled && pprofAddr == "" {
		pprofAddr = ":6060"
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "fantasy-hockey-notifier"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		Season:   season,
		LeagueID: leagueID,
		S2Cookie: s2Cookie,

		ESPNBaseURL:               strings.TrimSpace(getEnv("ESPN_BASE_URL", "")),
		ESPNTimeout:               espnTimeout,
		ESPNMaxRetries:            espnMaxRetries,
		ESPNCircuitEnabled:        espnCircuitEnabled,
		ESPNCircuitFailureCount:   espnCircuitFailureCount,
		ESPNCircuitOpenTimeout:    espnCircuitOpenTimeout,
		ESPNCircuitHalfOpenMaxReq: espnCircuitHalfOpenMaxReq,

		EarliestDate: earliestDate,
		LatestDate:   latestDate,

		LastRunFilePath:         strings.TrimSpace(getEnv("LAST_RUN_FILE_PATH", ".lastrun")),
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		DiscordWebhookURL:            strings.TrimSpace(getEnv("DISCORD_WEBHOOK_URL", "")),
		WebhookTimeout:               webhookTimeout,
		WebhookCircuitEnabled:        webhookCircuitEnabled,
		WebhookCircuitFailureCount:   webhookCircuitFailureCount,
		WebhookCircuitOpenTimeout:    webhookCircuitOpenTimeout,
		WebhookCircuitHalfOpenMaxReq: webhookCircuitHalfOpenMaxReq,
		NotifyMaxWorkers:             notifyMaxWorkers,

		PollInterval: pollInterval,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		PositionSuffixMode:     suffixMode,
		TopicHeadersEnabled:    topicHeadersEnabled,
		DraftPickTradesEnabled: draftPickTradesEnabled,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func parseSuffixMode(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case SuffixModeNonPrimary, SuffixModeAllEligible:
		return value, nil
	default:
		return "", fmt.Errorf("invalid RENDER_POSITION_SUFFIX_MODE %q: valid values are %s, %s",
			v, SuffixModeNonPrimary, SuffixModeAllEligible)
	}
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsInt64(key string, fallback int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}
