package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/loginlab/internal/logger"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	SessionSecret      string
	CookieSecure       bool
	ViewTTL            time.Duration
	ViewsPerSession    int
	MaxViews           int
	SweepInterval      time.Duration
	SweepWorkerCount   int
	SweepQueueSize     int
	AchievementDisplay time.Duration
	LoginAttemptLimit  int
	BcryptCost         int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:loginlab?mode=memory&cache=shared"),
		LogLevel:           strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		CookieSecure:       envBoolOr("COOKIE_SECURE", false),
		ViewTTL:            envDurationOr("VIEW_TTL", 30*time.Minute),
		ViewsPerSession:    envIntOr("VIEWS_PER_SESSION", 8),
		MaxViews:           envIntOr("MAX_VIEWS", 10000),
		SweepInterval:      envDurationOr("SWEEP_INTERVAL", time.Minute),
		SweepWorkerCount:   envIntOr("SWEEP_WORKER_COUNT", 1),
		SweepQueueSize:     envIntOr("SWEEP_QUEUE_SIZE", 16),
		AchievementDisplay: envDurationOr("ACHIEVEMENT_DISPLAY", 3*time.Second),
		LoginAttemptLimit:  envIntOr("LOGIN_ATTEMPT_LIMIT", 5),
		BcryptCost:         envIntOr("BCRYPT_COST", 10),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.SessionSecret != "" && len(strings.TrimSpace(c.SessionSecret)) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 16 characters"))
	}
	if c.ViewTTL <= 0 {
		errs = append(errs, errors.New("VIEW_TTL must be > 0"))
	}
	if c.ViewsPerSession <= 0 {
		errs = append(errs, errors.New("VIEWS_PER_SESSION must be > 0"))
	}
	if c.MaxViews < c.ViewsPerSession {
		errs = append(errs, errors.New("MAX_VIEWS must be >= VIEWS_PER_SESSION"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL must be > 0"))
	}
	if c.SweepWorkerCount <= 0 {
		errs = append(errs, errors.New("SWEEP_WORKER_COUNT must be > 0"))
	}
	if c.SweepQueueSize <= 0 {
		errs = append(errs, errors.New("SWEEP_QUEUE_SIZE must be > 0"))
	}
	if c.AchievementDisplay <= 0 {
		errs = append(errs, errors.New("ACHIEVEMENT_DISPLAY must be > 0"))
	}
	if c.LoginAttemptLimit <= 0 {
		errs = append(errs, errors.New("LOGIN_ATTEMPT_LIMIT must be > 0"))
	}
	// bcrypt accepts 4..31; anything above 14 makes the demo noticeably slow.
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST %d must be between 4 and 14", c.BcryptCost))
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
