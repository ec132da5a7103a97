// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/todos/internal/config"
	"github.com/allisson/todos/internal/connection"
	"github.com/allisson/todos/internal/database"
	"github.com/allisson/todos/internal/http"
	"github.com/allisson/todos/internal/metrics"
	todoHTTP "github.com/allisson/todos/internal/todo/http"
	todoUseCase "github.com/allisson/todos/internal/todo/usecase"
)

// brokerConnectionName identifies this service in the broker management UI.
const brokerConnectionName = "todos-command"

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Lifetime of background work started by components (rate limiter cleanup)
	ctx    context.Context
	cancel context.CancelFunc

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	brokerDialer    connection.BrokerDialer
	supervisor      *connection.Supervisor
	metricsProvider *metrics.Provider
	commandMetrics  metrics.CommandMetrics

	// Todo module
	todoRepository todoUseCase.TodoRepository
	eventPublisher todoUseCase.EventPublisher
	todoUseCase    todoUseCase.TodoUseCase
	todoHandler    *todoHTTP.TodoHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	supervisorInit      sync.Once
	metricsProviderInit sync.Once
	commandMetricsInit  sync.Once
	todoRepositoryInit  sync.Once
	eventPublisherInit  sync.Once
	todoUseCaseInit     sync.Once
	todoHandlerInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		ctx:        ctx,
		cancel:     cancel,
		initErrors: make(map[string]error),
	}
}

// WithBrokerDialer replaces the AMQP dialer. It must be called before the supervisor is first used.
func (c *Container) WithBrokerDialer(dialer connection.BrokerDialer) *Container {
	c.brokerDialer = dialer
	return c
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database pool.
// The pool is created lazily and does not dial until a connection is requested.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// Supervisor returns the connection supervisor shared by the repository and the publisher.
func (c *Container) Supervisor() (*connection.Supervisor, error) {
	var err error
	c.supervisorInit.Do(func() {
		c.supervisor, err = c.initSupervisor()
		if err != nil {
			c.initErrors["supervisor"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["supervisor"]; exists {
		return nil, storedErr
	}
	return c.supervisor, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// CommandMetrics returns the command metrics recorder.
func (c *Container) CommandMetrics() (metrics.CommandMetrics, error) {
	var err error
	c.commandMetricsInit.Do(func() {
		c.commandMetrics, err = c.initCommandMetrics()
		if err != nil {
			c.initErrors["commandMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["commandMetrics"]; exists {
		return nil, storedErr
	}
	return c.commandMetrics, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Bootstrap waits for the database through the supervisor's retry policy and then applies
// pending migrations when DB_AUTO_MIGRATE is enabled.
func (c *Container) Bootstrap(ctx context.Context) error {
	logger := c.Logger()

	supervisor, err := c.Supervisor()
	if err != nil {
		return fmt.Errorf("failed to get supervisor for bootstrap: %w", err)
	}

	conn, err := supervisor.AcquireDatabaseConnection(ctx)
	if err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}
	if err := conn.Close(); err != nil {
		return fmt.Errorf("failed to release bootstrap connection: %w", err)
	}

	if !c.config.DBAutoMigrate {
		return nil
	}

	if err := database.Migrate(c.databaseConfig()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("database migrations applied", slog.String("driver", c.config.DBDriver))

	return nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancel()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

func (c *Container) databaseConfig() database.Config {
	return database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DatabaseURL,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	}
}

// initDB creates and configures the database pool.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(c.databaseConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initSupervisor creates the connection supervisor with the configured retry policy.
func (c *Container) initSupervisor() (*connection.Supervisor, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for supervisor: %w", err)
	}

	dialer := c.brokerDialer
	if dialer == nil {
		amqpDialer := connection.NewAMQPDialer(brokerConnectionName)
		amqpDialer.Timeout = c.config.EffectiveBrokerDialTimeout()
		dialer = amqpDialer
	}

	policy := connection.NewRetryPolicy(c.config.ConnectMaxAttempts, c.config.ConnectRetryInterval)
	supervisor := connection.NewSupervisor(db, c.config.RabbitMQURL, dialer, policy, c.Logger())

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for supervisor: %w", err)
		}
		connectionMetrics, err := metrics.NewConnectionMetrics(provider.MeterProvider(), provider.Namespace())
		if err != nil {
			return nil, fmt.Errorf("failed to create connection metrics: %w", err)
		}
		supervisor.WithMetrics(connectionMetrics)
	}

	return supervisor, nil
}

// initMetricsProvider creates the metrics provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initCommandMetrics creates the command metrics recorder, a no-op one when metrics are disabled.
func (c *Container) initCommandMetrics() (metrics.CommandMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpCommandMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for command metrics: %w", err)
	}

	commandMetrics, err := metrics.NewCommandMetrics(provider.MeterProvider(), provider.Namespace())
	if err != nil {
		return nil, fmt.Errorf("failed to create command metrics: %w", err)
	}
	return commandMetrics, nil
}

// initHTTPServer creates the HTTP server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	todoHandler, err := c.TodoHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(
		db,
		c.config.ServerHost,
		c.config.ServerPort,
		c.config.HTTPWriteTimeout(),
		c.Logger(),
	)
	server.SetupRouter(c.ctx, c.config, todoHandler, provider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
