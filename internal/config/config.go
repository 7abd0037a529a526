package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/premhub/premier-hub/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	CORSAllowedOrigins []string

	// DBURL empty means favorites are kept in process memory only.
	DBURL                   string
	DBDisablePreparedBinary bool

	CacheEnabled bool
	CacheTTL     time.Duration

	SessionsBaseURL        string
	SessionsIntrospectPath string
	SessionsTimeout        time.Duration
	SessionsCacheTTL       time.Duration
	SessionsCacheMaxSize   int

	BackendBaseURL               string
	BackendToken                 string
	BackendTimeout               time.Duration
	BackendMaxRetries            int
	BackendCircuitEnabled        bool
	BackendCircuitFailureCount   int
	BackendCircuitOpenTimeout    time.Duration
	BackendCircuitHalfOpenMaxReq int

	LiveSyncEnabled      bool
	LiveSyncSeasonID     string
	LiveSyncInterval     time.Duration
	LiveSyncMaxFailures  int
	LiveSyncEventWorkers int

	LeagueSize           int
	ChampionsLeagueSlots int
	EuropaLeagueSlots    int
	RelegationSlots      int
	StrictStandings      bool

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string

	LogLevel logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	sessionsTimeout, err := time.ParseDuration(getEnv("SESSIONS_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIONS_TIMEOUT: %w", err)
	}
	sessionsCacheTTL, err := time.ParseDuration(getEnv("SESSIONS_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIONS_CACHE_TTL: %w", err)
	}
	sessionsCacheMaxSize, err := getEnvAsInt("SESSIONS_CACHE_MAX_SIZE", 10000)
	if err != nil {
		return Config{}, fmt.Errorf("parse SESSIONS_CACHE_MAX_SIZE: %w", err)
	}
	if sessionsCacheMaxSize < 1 {
		return Config{}, fmt.Errorf("SESSIONS_CACHE_MAX_SIZE must be >= 1")
	}

	backendTimeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKEND_TIMEOUT: %w", err)
	}
	if backendTimeout <= 0 {
		return Config{}, fmt.Errorf("BACKEND_TIMEOUT must be > 0")
	}
	backendMaxRetries, err := getEnvAsInt("BACKEND_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKEND_MAX_RETRIES: %w", err)
	}
	if backendMaxRetries < 0 {
		return Config{}, fmt.Errorf("BACKEND_MAX_RETRIES must be >= 0")
	}
	backendCircuitEnabled, err := strconv.ParseBool(getEnv("BACKEND_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKEND_CIRCUIT_ENABLED: %w", err)
	}
	backendCircuitFailureCount, err := getEnvAsInt("BACKEND_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKEND_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if backendCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("BACKEND_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	backendCircuitOpenTimeout, err := time.ParseDuration(getEnv("BACKEND_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKEND_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if backendCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("BACKEND_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	backendCircuitHalfOpenMaxReq, err := getEnvAsInt("BACKEND_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse BACKEND_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if backendCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("BACKEND_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	liveSyncEnabled, err := strconv.ParseBool(getEnv("LIVE_SYNC_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_SYNC_ENABLED: %w", err)
	}
	liveSyncSeasonID := strings.TrimSpace(getEnv("LIVE_SYNC_SEASON_ID", ""))
	if liveSyncEnabled && liveSyncSeasonID == "" {
		return Config{}, fmt.Errorf("LIVE_SYNC_SEASON_ID is required when LIVE_SYNC_ENABLED=true")
	}
	liveSyncInterval, err := time.ParseDuration(getEnv("LIVE_SYNC_INTERVAL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_SYNC_INTERVAL: %w", err)
	}
	if liveSyncInterval <= 0 {
		return Config{}, fmt.Errorf("LIVE_SYNC_INTERVAL must be > 0")
	}
	liveSyncMaxFailures, err := getEnvAsInt("LIVE_SYNC_MAX_FAILURES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_SYNC_MAX_FAILURES: %w", err)
	}
	if liveSyncMaxFailures < 0 {
		return Config{}, fmt.Errorf("LIVE_SYNC_MAX_FAILURES must be >= 0")
	}
	liveSyncEventWorkers, err := getEnvAsInt("LIVE_SYNC_EVENT_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIVE_SYNC_EVENT_WORKERS: %w", err)
	}
	if liveSyncEventWorkers < 1 {
		return Config{}, fmt.Errorf("LIVE_SYNC_EVENT_WORKERS must be >= 1")
	}

	leagueSize, err := getEnvAsInt("LEAGUE_SIZE", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_SIZE: %w", err)
	}
	clSlots, err := getEnvAsInt("CHAMPIONS_LEAGUE_SLOTS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse CHAMPIONS_LEAGUE_SLOTS: %w", err)
	}
	elSlots, err := getEnvAsInt("EUROPA_LEAGUE_SLOTS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse EUROPA_LEAGUE_SLOTS: %w", err)
	}
	relegationSlots, err := getEnvAsInt("RELEGATION_SLOTS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse RELEGATION_SLOTS: %w", err)
	}
	strictStandings, err := strconv.ParseBool(getEnv("STRICT_STANDINGS", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse STRICT_STANDINGS: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
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

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("APP_SERVICE_NAME", "premier-hub"),
		ServiceVersion: getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:       getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,

		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,

		CacheEnabled: cacheEnabled,
		CacheTTL:     cacheTTL,

		SessionsBaseURL:        getEnv("SESSIONS_BASE_URL", "http://localhost:8081"),
		SessionsIntrospectPath: getEnv("SESSIONS_INTROSPECT_PATH", "/v1/auth/introspect"),
		SessionsTimeout:        sessionsTimeout,
		SessionsCacheTTL:       sessionsCacheTTL,
		SessionsCacheMaxSize:   sessionsCacheMaxSize,

		BackendBaseURL:               getEnv("BACKEND_BASE_URL", "https://api.premierleague.internal/v1"),
		BackendToken:                 strings.TrimSpace(getEnv("BACKEND_TOKEN", "")),
		BackendTimeout:               backendTimeout,
		BackendMaxRetries:            backendMaxRetries,
		BackendCircuitEnabled:        backendCircuitEnabled,
		BackendCircuitFailureCount:   backendCircuitFailureCount,
		BackendCircuitOpenTimeout:    backendCircuitOpenTimeout,
		BackendCircuitHalfOpenMaxReq: backendCircuitHalfOpenMaxReq,

		LiveSyncEnabled:      liveSyncEnabled,
		LiveSyncSeasonID:     liveSyncSeasonID,
		LiveSyncInterval:     liveSyncInterval,
		LiveSyncMaxFailures:  liveSyncMaxFailures,
		LiveSyncEventWorkers: liveSyncEventWorkers,

		LeagueSize:           leagueSize,
		ChampionsLeagueSlots: clSlots,
		EuropaLeagueSlots:    elSlots,
		RelegationSlots:      relegationSlots,
		StrictStandings:      strictStandings,

		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
		UptraceLogsEnabled: uptraceLogsEnabled,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		LogLevel: parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}
