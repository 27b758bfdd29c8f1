package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DBCredentialsSecret is the Secrets Manager secret holding Postgres
// credentials when AWS_USE_SECRETS=true.
const DBCredentialsSecret = "storefront/DB_CREDENTIALS"

// Config holds all configuration for the storefront service.
type Config struct {
	Port           string
	Env            string
	RequestTimeout time.Duration

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string

	RedisURL       string
	CacheTTL       time.Duration
	IdempotencyTTL time.Duration

	KafkaBrokers     []string
	OrderEventsTopic string
	OrderSNSTopicARN string

	LoginURL       string
	JWTSecret      string
	AllowedOrigins []string
	RateLimit      int
	RateLimitBurst int

	UseSecrets        bool
	CloudWatchEnabled bool
	CloudWatchGroup   string
	MetricsNamespace  string
}

// SecretGetter fetches a JSON object secret as a string map.
type SecretGetter interface {
	GetSecretMap(ctx context.Context, name string) (map[string]string, error)
}

// Load reads configuration from environment variables, after loading an
// optional .env file.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),

		RedisURL:       os.Getenv("REDIS_URL"),
		CacheTTL:       getDuration("CACHE_TTL", 10*time.Minute),
		IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),

		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic: getEnv("ORDER_EVENTS_TOPIC", "order-events"),
		OrderSNSTopicARN: os.Getenv("ORDER_SNS_TOPIC_ARN"),

		LoginURL:       os.Getenv("LOGIN_URL"),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimit:      getInt("RATE_LIMIT_PER_MINUTE", 100),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 50),

		UseSecrets:        os.Getenv("AWS_USE_SECRETS") == "true",
		CloudWatchEnabled: os.Getenv("CLOUDWATCH_ENABLED") == "true",
		CloudWatchGroup:   getEnv("CLOUDWATCH_LOG_GROUP", "/storefront/services"),
		MetricsNamespace:  getEnv("CLOUDWATCH_NAMESPACE", "Storefront"),
	}

	return cfg
}

// ApplySecrets overrides the Postgres credentials with the values stored in
// DBCredentialsSecret. Empty values in the secret are ignored.
func (c *Config) ApplySecrets(ctx context.Context, sm SecretGetter) error {
	m, err := sm.GetSecretMap(ctx, DBCredentialsSecret)
	if err != nil {
		return err
	}

	override := func(dst *string, key string) {
		if v, ok := m[key]; ok && v != "" {
			*dst = v
		}
	}
	override(&c.PostgresUser, "POSTGRES_USER")
	override(&c.PostgresPassword, "POSTGRES_PASSWORD")
	override(&c.PostgresDB, "POSTGRES_DB")
	override(&c.PostgresHost, "POSTGRES_HOST")
	override(&c.PostgresPort, "POSTGRES_PORT")
	return nil
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	if c.PostgresUser == "" || c.PostgresPassword == "" || c.PostgresDB == "" || c.PostgresHost == "" {
		return fmt.Errorf("database config incomplete")
	}
	if c.RateLimit <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit settings must be positive")
	}
	return nil
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(part), "/")); p != "" {
			out = append(out, p)
		}
	}
	return out
}
