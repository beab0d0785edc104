package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies NESTHAUS_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known NESTHAUS_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Sheets ──
	setStr(&cfg.Sheets.SpreadsheetID, "NESTHAUS_SHEETS_SPREADSHEET_ID")
	setStr(&cfg.Sheets.Range, "NESTHAUS_SHEETS_RANGE")
	setStr(&cfg.Sheets.Credentials, "NESTHAUS_SHEETS_CREDENTIALS")
	setStr(&cfg.Sheets.Credentials, "GOOGLE_APPLICATION_CREDENTIALS") // compatibility alias
	setDuration(&cfg.Sheets.FetchTimeout, "NESTHAUS_SHEETS_FETCH_TIMEOUT")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "NESTHAUS_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "NESTHAUS_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "NESTHAUS_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "NESTHAUS_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "NESTHAUS_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "NESTHAUS_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "NESTHAUS_POSTGRES_SSLMODE")
	setStr(&cfg.Postgres.SSLMode, "NESTHAUS_POSTGRES_SSL_MODE") // compatibility alias
	setInt(&cfg.Postgres.PoolMaxConns, "NESTHAUS_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "NESTHAUS_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "NESTHAUS_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "NESTHAUS_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "NESTHAUS_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "NESTHAUS_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "NESTHAUS_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "NESTHAUS_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "NESTHAUS_REDIS_TLS_ENABLED")
	setDuration(&cfg.Redis.CacheTTL, "NESTHAUS_REDIS_CACHE_TTL")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "NESTHAUS_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "NESTHAUS_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "NESTHAUS_S3_REGION")
	setStr(&cfg.S3.Bucket, "NESTHAUS_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "NESTHAUS_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "NESTHAUS_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "NESTHAUS_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "NESTHAUS_S3_FORCE_PATH_STYLE")

	// ── Sync ──
	setDuration(&cfg.Sync.Interval, "NESTHAUS_SYNC_INTERVAL")
	setDuration(&cfg.Sync.LockTTL, "NESTHAUS_SYNC_LOCK_TTL")

	// ── Server ──
	setBool(&cfg.Server.Enabled, "NESTHAUS_SERVER_ENABLED")
	setInt(&cfg.Server.Port, "NESTHAUS_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "NESTHAUS_SERVER_CORS_ORIGINS")
	setStr(&cfg.Server.APIKey, "NESTHAUS_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimit, "NESTHAUS_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateLimitWindow, "NESTHAUS_SERVER_RATE_LIMIT_WINDOW")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "NESTHAUS_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "NESTHAUS_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "NESTHAUS_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "NESTHAUS_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "NESTHAUS_MODE")
	setStr(&cfg.LogLevel, "NESTHAUS_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
