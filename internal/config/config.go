package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSessionSecret = "dev-session-secret-change-in-production"

// MinSessionSecretLength is the shortest SESSION_SECRET accepted in production.
const MinSessionSecretLength = 32

type Config struct {
	Port           string
	Env            string
	StorageBackend string
	DatabaseDSN    string
	RunMigrations  bool
	SessionSecret  string
	LogLevel       string
	AllowedOrigins []string

	// TrustProxyHeaders makes X-Forwarded-For / X-Real-IP the client address.
	TrustProxyHeaders bool

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	SeedDemoUsers   bool
	ShutdownTimeout time.Duration
}

// IsProduction reports whether ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	env := getEnv("ENV", "development")

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            env,
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "memory")),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/greenverse?parseTime=true"),
		SessionSecret:  getEnv("SESSION_SECRET", devSessionSecret),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	var errs []error
	var err error

	if cfg.RunMigrations, err = getBool("RUN_MIGRATIONS", true); err != nil {
		errs = append(errs, err)
	}
	if cfg.TrustProxyHeaders, err = getBool("TRUST_PROXY_HEADERS", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.SeedDemoUsers, err = getBool("SEED_DEMO_USERS", env == "development"); err != nil {
		errs = append(errs, err)
	}
	if cfg.AuthRateLimitRPS, err = getFloat("AUTH_RATE_LIMIT_RPS", 5); err != nil {
		errs = append(errs, err)
	}
	if cfg.AuthRateLimitBurst, err = getInt("AUTH_RATE_LIMIT_BURST", 10); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageBackend {
	case "memory", "mysql":
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory or mysql, got %q", c.StorageBackend)
	}

	if c.IsProduction() {
		if c.SessionSecret == devSessionSecret {
			return errors.New("SESSION_SECRET must be set in production environment")
		}
		if len(c.SessionSecret) < MinSessionSecretLength {
			return fmt.Errorf("SESSION_SECRET must be at least %d bytes in production", MinSessionSecretLength)
		}
	}

	if c.AuthRateLimitRPS <= 0 || c.AuthRateLimitBurst <= 0 {
		return errors.New("AUTH_RATE_LIMIT_RPS and AUTH_RATE_LIMIT_BURST must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
