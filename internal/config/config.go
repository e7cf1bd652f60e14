package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App            AppConfig
	Database       DatabaseConfig
	JWT            JWTConfig
	Redis          RedisConfig
	Recommendation RecommendationConfig
	Stripe         StripeConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	Timezone    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
	AutoMigrate   bool

	SeedDemo     bool
	DemoEmail    string
	DemoPassword string
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type RecommendationConfig struct {
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	MarketplaceHost string
}

type StripeConfig struct {
	WebhookSecret string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	def := func(key, fallback string) string {
		if v := opt(key); v != "" {
			return v
		}
		return fallback
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		Timezone:    def("APP_TIMEZONE", "UTC"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST"),
		DBPort:     opt("DB_PORT"),
		DBName:     opt("DB_NAME"),
		DBUser:     opt("DB_USER"),
		DBPassword: opt("DB_PASSWORD"),
		DBSSLMode:  def("DB_SSL_MODE", "disable"),

		ConnectTimeout:        seconds(opt("DB_CONNECT_TIMEOUT_SECONDS"), 5*time.Second),
		PoolMaxConns:          int32(intOr(opt("DB_POOL_MAX_CONNS"), 0)),
		PoolMinConns:          int32(intOr(opt("DB_POOL_MIN_CONNS"), 0)),
		PoolMaxConnLifetime:   seconds(opt("DB_POOL_MAX_CONN_LIFETIME_SECONDS"), 0),
		PoolMaxConnIdleTime:   seconds(opt("DB_POOL_MAX_CONN_IDLE_SECONDS"), 0),
		PoolHealthCheckPeriod: seconds(opt("DB_POOL_HEALTH_CHECK_SECONDS"), 0),

		MigrationsDir: opt("DB_MIGRATIONS_DIR"),
		AutoMigrate:   boolOr(opt("DB_AUTO_MIGRATE"), true),

		SeedDemo:     boolOr(opt("DB_SEED_DEMO"), false),
		DemoEmail:    def("DEMO_EMAIL", "demo@hydroguide.app"),
		DemoPassword: def("DEMO_PASSWORD", "drink-more-water"),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  seconds(opt("JWT_ACCESS_EXPIRES_SECONDS"), 15*time.Minute),
		RefreshExpiresIn: seconds(opt("JWT_REFRESH_EXPIRES_SECONDS"), 7*24*time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     def("REDIS_HOST", "localhost"),
		Port:     def("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      seconds(opt("REDIS_TTL"), 600*time.Second),
	}

	cfg.Recommendation = RecommendationConfig{
		APIKey:          opt("GEMINI_API_KEY"),
		Model:           def("GEMINI_MODEL", "gemini-2.5-flash"),
		BaseURL:         def("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		Timeout:         seconds(opt("GEMINI_TIMEOUT_SECONDS"), 20*time.Second),
		MarketplaceHost: def("MARKETPLACE_HOST", "www.amazon.com"),
	}

	cfg.Stripe = StripeConfig{
		WebhookSecret: opt("STRIPE_WEBHOOK_SECRET"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if _, err := time.LoadLocation(cfg.App.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.App.Timezone, err)
	}

	return cfg, nil
}

// Location returns the reference timezone for calendar days.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func seconds(raw string, fallback time.Duration) time.Duration {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}

func intOr(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func boolOr(raw string, fallback bool) bool {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
