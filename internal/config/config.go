// Package config provides application configuration through environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const (
	// DefaultBrokerDialTimeout bounds one broker connection attempt when BROKER_DIAL_TIMEOUT_SECONDS is unset.
	DefaultBrokerDialTimeout = 10 * time.Second

	// commandResponseHeadroom covers the insert, the publish and writing the response.
	commandResponseHeadroom = 15 * time.Second
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int
	// ServerWriteTimeout overrides the write timeout of the API server. Zero derives it from
	// the connection retry policy.
	ServerWriteTimeout time.Duration
	// TrustedProxies is a comma-separated list of proxy IPs or CIDRs whose forwarding headers
	// are used to resolve the client IP. Empty trusts no proxy.
	TrustedProxies string

	// DBDriver is the database driver to use ("postgres", "mysql" or "sqlite").
	DBDriver string
	// DatabaseURL is the connection string for the write database.
	DatabaseURL string
	// DBMaxOpenConnections is the maximum number of open connections to the database.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the database pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration
	// DBAutoMigrate applies pending schema migrations when the server starts.
	DBAutoMigrate bool

	// RabbitMQURL is the AMQP connection string of the message broker.
	RabbitMQURL string
	// BrokerQueue is the queue todo events are published to.
	BrokerQueue string
	// BrokerQueueDurable declares the queue as durable and publishes persistent messages.
	BrokerQueueDurable bool
	// BrokerDialTimeout bounds the TCP dial and AMQP handshake of one connection attempt.
	BrokerDialTimeout time.Duration

	// ConnectMaxAttempts is the number of connection attempts before giving up.
	ConnectMaxAttempts int
	// ConnectRetryInterval is the fixed wait between two connection attempts.
	ConnectRetryInterval time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// RateLimitEnabled indicates whether per-IP rate limiting of the command endpoints is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
// Variables already present in the process environment take precedence over the .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost:         env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort:         env.GetInt("SERVER_PORT", 8080),
		ServerWriteTimeout: env.GetDuration("SERVER_WRITE_TIMEOUT_SECONDS", 0, time.Second),
		TrustedProxies:     env.GetString("TRUSTED_PROXIES", ""),

		// Database configuration
		DBDriver:             env.GetString("DB_DRIVER", DriverPostgres),
		DatabaseURL:          env.GetString("DATABASE_URL", ""),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),
		DBAutoMigrate:        env.GetBool("DB_AUTO_MIGRATE", true),

		// Broker configuration
		RabbitMQURL:        env.GetString("RABBITMQ_URL", ""),
		BrokerQueue:        env.GetString("BROKER_QUEUE", "todo_events"),
		BrokerQueueDurable: env.GetBool("BROKER_QUEUE_DURABLE", false),
		BrokerDialTimeout:  env.GetDuration("BROKER_DIAL_TIMEOUT_SECONDS", 10, time.Second),

		// Connection retry policy
		ConnectMaxAttempts:   env.GetInt("CONNECT_MAX_ATTEMPTS", 5),
		ConnectRetryInterval: env.GetDuration("CONNECT_RETRY_INTERVAL_SECONDS", 5, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Rate Limiting (per IP)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "todos"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate reports configuration that makes the process unable to serve commands.
// Both connection strings are mandatory; their absence is a startup failure.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.DBDriver,
			validation.Required.Error("DB_DRIVER is required"),
			validation.In(DriverPostgres, DriverMySQL, DriverSQLite).Error("DB_DRIVER must be postgres, mysql or sqlite"),
		),
		validation.Field(&c.DatabaseURL, validation.Required.Error("DATABASE_URL is required")),
		validation.Field(&c.RabbitMQURL, validation.Required.Error("RABBITMQ_URL is required")),
		validation.Field(&c.BrokerQueue, validation.Required.Error("BROKER_QUEUE is required")),
		validation.Field(&c.ConnectMaxAttempts,
			validation.Required.Error("CONNECT_MAX_ATTEMPTS must be at least 1"),
			validation.Min(1).Error("CONNECT_MAX_ATTEMPTS must be at least 1"),
		),
		validation.Field(&c.ServerWriteTimeout,
			validation.Min(c.MinHTTPWriteTimeout()).Error(
				fmt.Sprintf("SERVER_WRITE_TIMEOUT_SECONDS must be at least %s", c.MinHTTPWriteTimeout()),
			),
		),
	)
}

// EffectiveBrokerDialTimeout returns BrokerDialTimeout, or DefaultBrokerDialTimeout when unset.
func (c *Config) EffectiveBrokerDialTimeout() time.Duration {
	if c.BrokerDialTimeout > 0 {
		return c.BrokerDialTimeout
	}
	return DefaultBrokerDialTimeout
}

// CommandWindow is the longest time a create command can wait on its dependencies: a full
// retry window for the database followed by one for the broker, where every broker attempt
// runs into the dial timeout.
func (c *Config) CommandWindow() time.Duration {
	attempts := max(c.ConnectMaxAttempts, 1)
	waits := time.Duration(attempts-1) * c.ConnectRetryInterval
	return 2*waits + time.Duration(attempts)*c.EffectiveBrokerDialTimeout()
}

// MinHTTPWriteTimeout is the smallest API write timeout that still lets a client receive the
// outcome of a command that used its whole CommandWindow.
func (c *Config) MinHTTPWriteTimeout() time.Duration {
	return c.CommandWindow() + commandResponseHeadroom
}

// HTTPWriteTimeout returns the write timeout of the API server.
func (c *Config) HTTPWriteTimeout() time.Duration {
	if c.ServerWriteTimeout > 0 {
		return c.ServerWriteTimeout
	}
	return c.MinHTTPWriteTimeout()
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// godotenv.Load never overrides variables that are already set
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
