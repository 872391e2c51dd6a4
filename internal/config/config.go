package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	NodeURL            string
	MatcherURL         string
	MatcherAPIKey      string
	DataServiceURL     string
	DatabaseURL        string
	Network            string
	TrackedAccounts    []string
	NodeRetryMax       int
	NodeRetryBaseDelay time.Duration
	RefreshInterval    time.Duration
	HTTPPort           string
	AdminAPIKey        string
	SpreadsheetID      string
	GoogleCredentials  string
	XLSXDir            string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		NodeURL:            envOrDefault("NODE_URL", "https://nodes.wavesnodes.com"),
		MatcherURL:         envOrDefault("MATCHER_URL", "https://matcher.waves.exchange"),
		MatcherAPIKey:      envOrDefault("MATCHER_API_KEY", ""),
		DataServiceURL:     envOrDefault("DATA_SERVICE_URL", "https://api.wavesplatform.com"),
		DatabaseURL:        envOrDefaultWarn("DATABASE_URL", ""),
		Network:            envOrDefault("NETWORK", "mainnet"),
		TrackedAccounts:    envList("TRACKED_ACCOUNTS"),
		NodeRetryMax:       envOrDefaultInt("NODE_RETRY_MAX", 5),
		NodeRetryBaseDelay: envOrDefaultDuration("NODE_RETRY_BASE_DELAY", 2*time.Second),
		RefreshInterval:    envOrDefaultDuration("REFRESH_INTERVAL", 1*time.Minute),
		HTTPPort:           envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:        envOrDefault("ADMIN_API_KEY", ""),
		SpreadsheetID:      envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		GoogleCredentials:  envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
		XLSXDir:            envOrDefault("XLSX_EXPORT_DIR", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultWarn(key, defaultVal string) string {
	v := envOrDefault(key, defaultVal)
	if v == "" {
		slog.Warn("required env var not set", "key", key)
	}
	return v
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}

// envList parses a comma-separated env var, trimming blanks.
func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
