package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress     string
	DatabaseURI    string
	AssetsDir      string
	PublicBaseURL  string
	AdminPassword  string
	SessionSecret  string
	MaxUploadBytes int64

	TelegramToken       string
	TelegramAPIBase     string
	TelegramAdminChatID int64
	BotPollTimeout      time.Duration

	RateServiceURL string
	RateCurrency   string
	RateFallback   float64
	RateTTL        time.Duration

	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultAssetsDir       = "./data"
	defaultAdminPassword   = "admin"
	defaultSessionSecret   = "change-me-in-production"
	defaultMaxUploadBytes  = 16 << 20
	defaultTelegramAPIBase = "https://api.telegram.org"
	defaultBotPollTimeout  = 25 * time.Second
	defaultRateServiceURL  = "https://api.exchangerate-api.com/v4/latest/USD"
	defaultRateCurrency    = "PHP"
	defaultRateFallback    = 58.0
	defaultRateTTL         = time.Hour
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		AssetsDir:           getString(lookup, "ASSETS_DIR", defaultAssetsDir),
		PublicBaseURL:       getString(lookup, "PUBLIC_BASE_URL", ""),
		AdminPassword:       getString(lookup, "ADMIN_PASSWORD", defaultAdminPassword),
		SessionSecret:       getString(lookup, "SESSION_SECRET", defaultSessionSecret),
		MaxUploadBytes:      getInt64(lookup, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
		TelegramToken:       getString(lookup, "TELEGRAM_BOT_TOKEN", ""),
		TelegramAPIBase:     getString(lookup, "TELEGRAM_API_BASE", defaultTelegramAPIBase),
		TelegramAdminChatID: getInt64(lookup, "ADMIN_TELEGRAM_CHAT_ID", 0),
		BotPollTimeout:      getDuration(lookup, "BOT_POLL_TIMEOUT", defaultBotPollTimeout),
		RateServiceURL:      getString(lookup, "RATE_SERVICE_URL", defaultRateServiceURL),
		RateCurrency:        getString(lookup, "RATE_CURRENCY", defaultRateCurrency),
		RateFallback:        getFloat(lookup, "RATE_FALLBACK", defaultRateFallback),
		RateTTL:             getDuration(lookup, "RATE_TTL", defaultRateTTL),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("gophershop", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollTimeoutStr     = cfg.BotPollTimeout.String()
		rateTTLStr         = cfg.RateTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "Directory for stored assets")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", cfg.PublicBaseURL, "Public base URL used in download links")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "Secret for signing admin session tokens")
	fs.StringVar(&cfg.TelegramToken, "bot-token", cfg.TelegramToken, "Telegram bot API token")
	fs.Int64Var(&cfg.TelegramAdminChatID, "admin-chat", cfg.TelegramAdminChatID, "Telegram chat id receiving admin notifications")
	fs.StringVar(&pollTimeoutStr, "bot-poll-timeout", pollTimeoutStr, "Telegram long poll timeout")
	fs.StringVar(&rateTTLStr, "rate-ttl", rateTTLStr, "Cached exchange rate lifetime")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.BotPollTimeout, err = time.ParseDuration(pollTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid bot poll timeout: %w", err)
	}

	if cfg.RateTTL, err = time.ParseDuration(rateTTLStr); err != nil {
		return nil, fmt.Errorf("invalid rate ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("SESSION_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read session secret file: %w", err)
		}
		cfg.SessionSecret = string(content)
	}

	if cfg.BotPollTimeout <= 0 {
		cfg.BotPollTimeout = defaultBotPollTimeout
	}

	if cfg.RateTTL <= 0 {
		cfg.RateTTL = defaultRateTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if cfg.RateFallback <= 0 {
		cfg.RateFallback = defaultRateFallback
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
