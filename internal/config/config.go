package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Admin     AdminConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	AutoMigrate       bool
}

type ServerConfig struct {
	Port            string
	Env             string
	LogLevel        string
	AllowedOrigins  []string
	TrustedProxies  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type AuthConfig struct {
	JWTSecret              string
	TokenExpiry            time.Duration
	BcryptCost             int
	LoginMaxAttempts       int
	LoginWindow            time.Duration
	LoginBlockDuration     time.Duration
	LimiterCleanupInterval time.Duration
	TimingBaseDelayMs      int
	TimingRandomDelayMs    int
}

// RateLimitConfig is the per-IP throttle applied to the whole API
type RateLimitConfig struct {
	APIRequests int
	APIWindow   time.Duration
}

// EmailConfig configures moderation notices. Sending is disabled when
// FromAddress is empty.
type EmailConfig struct {
	AWSRegion   string
	FromAddress string
}

func (c EmailConfig) Enabled() bool {
	return c.FromAddress != ""
}

// AdminConfig describes the administrator account created on startup
type AdminConfig struct {
	Login    string
	Password string
	Email    string
	FullName string
	Phone    string
}

func (c AdminConfig) Enabled() bool {
	return c.Login != "" && c.Password != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "bookshare"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			AutoMigrate:       getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             env,
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			AllowedOrigins:  parseAllowedOrigins(env),
			TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:              jwtSecret,
			TokenExpiry:            getEnvAsDuration("TOKEN_EXPIRY", 7*24*time.Hour),
			BcryptCost:             getEnvAsInt("BCRYPT_COST", 12),
			LoginMaxAttempts:       getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:            getEnvAsDuration("LOGIN_WINDOW", 15*time.Minute),
			LoginBlockDuration:     getEnvAsDuration("LOGIN_BLOCK_DURATION", 30*time.Minute),
			LimiterCleanupInterval: getEnvAsDuration("LOGIN_LIMITER_CLEANUP_INTERVAL", 5*time.Minute),
			TimingBaseDelayMs:      getEnvAsInt("AUTH_TIMING_BASE_DELAY_MS", 100),
			TimingRandomDelayMs:    getEnvAsInt("AUTH_TIMING_RANDOM_DELAY_MS", 50),
		},
		RateLimit: RateLimitConfig{
			APIRequests: getEnvAsInt("API_RATE_LIMIT_REQUESTS", 300),
			APIWindow:   getEnvAsDuration("API_RATE_LIMIT_WINDOW", 15*time.Minute),
		},
		Email: EmailConfig{
			AWSRegion:   getEnv("AWS_REGION", "eu-central-1"),
			FromAddress: getEnv("EMAIL_FROM", ""),
		},
		Admin: AdminConfig{
			Login:    getEnv("ADMIN_LOGIN", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Email:    getEnv("ADMIN_EMAIL", "admin@bookshare.local"),
			FullName: getEnv("ADMIN_FULL_NAME", "Администратор"),
			Phone:    getEnv("ADMIN_PHONE", "+7(000)-000-00-00"),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateJWTSecret(jwtSecret, env); err != nil {
		return nil, err
	}

	if cfg.Auth.LoginMaxAttempts < 1 {
		return nil, fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1 (got %d)", cfg.Auth.LoginMaxAttempts)
	}

	return cfg, nil
}

// validateJWTSecret enforces minimum security standards for JWT secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return splitList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: the React dev servers
	return []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
}
