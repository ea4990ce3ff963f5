package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ServerConfig captures all tunable parameters for the console process.
// Values are primarily loaded from environment variables with sane defaults
// so the binary can run locally without excessive setup.
type ServerConfig struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// PlatformBaseURL is the TripMate backend REST root.
	PlatformBaseURL string
	// PlatformWSURL is the realtime channel endpoint; derived from
	// PlatformBaseURL when empty.
	PlatformWSURL  string
	RequestTimeout time.Duration

	// OSRMBaseURL is the road-routing service root.
	OSRMBaseURL string
	OSRMProfile string

	RedisAddr     string
	RedisPassword string
	SessionKey    string
	SessionTTL    time.Duration

	PGDSN string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	StripeKey string

	LogLevel      string
	RunMigrations bool
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPAddr:        ":8080",
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		PlatformBaseURL: "http://localhost:5000",
		RequestTimeout:  5 * time.Second,
		OSRMBaseURL:     "https://router.project-osrm.org",
		OSRMProfile:     "driving",
		SessionKey:      "console:session",
		SessionTTL:      24 * time.Hour,
		KafkaTopic:      "admin-actions",
		KafkaGroup:      "console-audit",
		LogLevel:        "info",
	}
}

func LoadServerConfig() (ServerConfig, error) {
	cfg := defaultServerConfig()
	var errs []error

	setStringFromEnv(&cfg.HTTPAddr, "HTTP_ADDR")
	setDurationFromEnv(&cfg.ReadTimeout, "HTTP_READ_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.WriteTimeout, "HTTP_WRITE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.IdleTimeout, "HTTP_IDLE_TIMEOUT", &errs)
	setDurationFromEnv(&cfg.ShutdownTimeout, "HTTP_SHUTDOWN_TIMEOUT", &errs)

	setStringFromEnv(&cfg.PlatformBaseURL, "PLATFORM_BASE_URL")
	setStringFromEnv(&cfg.PlatformWSURL, "PLATFORM_WS_URL")
	setDurationFromEnv(&cfg.RequestTimeout, "PLATFORM_REQUEST_TIMEOUT", &errs)

	setStringFromEnv(&cfg.OSRMBaseURL, "OSRM_BASE_URL")
	setStringFromEnv(&cfg.OSRMProfile, "OSRM_PROFILE")

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	setStringFromEnv(&cfg.SessionKey, "SESSION_KEY")
	setDurationFromEnv(&cfg.SessionTTL, "SESSION_TTL", &errs)

	cfg.PGDSN = os.Getenv("PG_DSN")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = splitAndTrim(brokers)
	}
	setStringFromEnv(&cfg.KafkaTopic, "KAFKA_TOPIC")
	setStringFromEnv(&cfg.KafkaGroup, "KAFKA_GROUP")

	cfg.StripeKey = os.Getenv("STRIPE_API_KEY")

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}

	cfg.RunMigrations = strings.EqualFold(os.Getenv("MIGRATE"), "true")

	if cfg.PlatformBaseURL == "" {
		errs = append(errs, fmt.Errorf("PLATFORM_BASE_URL must not be empty"))
	}
	if cfg.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be > 0"))
	}

	return cfg, errors.Join(errs...)
}

func setDurationFromEnv(target *time.Duration, key string, errs *[]error) {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func setStringFromEnv(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func splitAndTrim(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
