package configs

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/property-intel/acumidata"
	"github.com/yourorg/property-intel/internal/env"
)

// AppConfig holds everything the process reads from its environment. Loaded
// once at startup; read-only afterwards.
type AppConfig struct {
	AppName     string
	Port        int
	LogLevel    string
	Debug       bool
	Environment acumidata.Environment // default environment for requests that omit one
	Credentials acumidata.Credentials
	HTTPTimeout time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	UsersFile     string

	RedisAddr     string // optional; empty disables the report cache
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	StaleAfter    time.Duration

	PostgresDSN string // optional; empty disables snapshot persistence

	BatchWorkers     int
	BatchRateLimit   float64 // vendor calls per second across all batch rows
	BatchMaxRows     int
	RequestRateLimit int // httprate requests/min per IP
}

// Load reads .env (when present) and the process environment. A missing key
// for the default environment is a startup-time configuration error: fail
// now, not on the first user request.
func Load(envPath ...string) (*AppConfig, error) {
	if len(envPath) > 0 {
		_ = godotenv.Load(envPath[0])
	} else {
		_ = godotenv.Load()
	}

	cfg := &AppConfig{
		AppName:     env.Get("APP_NAME", "property-intel"),
		Port:        env.GetInt("PORT", 4010),
		LogLevel:    env.Get("LOG_LEVEL", "info"),
		Debug:       env.GetBool("DEBUG", false),
		HTTPTimeout: env.GetDuration("ACUMIDATA_TIMEOUT", 10*time.Second),

		SessionSecret: env.Get("SESSION_SECRET", ""),
		SessionTTL:    env.GetDuration("SESSION_TTL", 12*time.Hour),
		UsersFile:     env.Get("USERS_FILE", "users.json"),

		RedisAddr:     env.Get("REDIS_ADDR", ""),
		RedisPassword: env.Get("REDIS_PASSWORD", ""),
		RedisDB:       env.GetInt("REDIS_DB", 0),
		CacheTTL:      env.GetDuration("CACHE_TTL", time.Hour),
		StaleAfter:    env.GetDuration("CACHE_STALE_AFTER", 5*time.Minute),

		PostgresDSN: env.Get("PG_DSN", ""),

		BatchWorkers:     env.GetInt("BATCH_WORKERS", 1),
		BatchRateLimit:   float64(env.GetInt("BATCH_RATE_LIMIT", 5)),
		BatchMaxRows:     env.GetInt("BATCH_MAX_ROWS", 5000),
		RequestRateLimit: env.GetInt("REQUEST_RATE_LIMIT", 100),
	}

	environment, err := acumidata.ParseEnvironment(env.Get("ACUMIDATA_ENV", "uat"))
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Environment = environment

	cfg.Credentials = acumidata.Credentials{
		UAT:  env.Get("ACUMIDATA_UAT_KEY", ""),
		Prod: env.Get("ACUMIDATA_PROD_KEY", ""),
	}
	if _, err := cfg.Credentials.For(cfg.Environment); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("config: SESSION_SECRET is required")
	}
	return cfg, nil
}
