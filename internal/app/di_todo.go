package app

import (
	"fmt"

	"github.com/allisson/todos/internal/config"
	todoHTTP "github.com/allisson/todos/internal/todo/http"
	"github.com/allisson/todos/internal/todo/publisher"
	todoRepository "github.com/allisson/todos/internal/todo/repository"
	todoUseCase "github.com/allisson/todos/internal/todo/usecase"
)

// TodoRepository returns the todo repository based on database driver.
func (c *Container) TodoRepository() (todoUseCase.TodoRepository, error) {
	var err error
	c.todoRepositoryInit.Do(func() {
		c.todoRepository, err = c.initTodoRepository()
		if err != nil {
			c.initErrors["todoRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["todoRepository"]; exists {
		return nil, storedErr
	}
	return c.todoRepository, nil
}

// EventPublisher returns the broker event publisher.
func (c *Container) EventPublisher() (todoUseCase.EventPublisher, error) {
	var err error
	c.eventPublisherInit.Do(func() {
		c.eventPublisher, err = c.initEventPublisher()
		if err != nil {
			c.initErrors["eventPublisher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventPublisher"]; exists {
		return nil, storedErr
	}
	return c.eventPublisher, nil
}

// TodoUseCase returns the todo command use case.
func (c *Container) TodoUseCase() (todoUseCase.TodoUseCase, error) {
	var err error
	c.todoUseCaseInit.Do(func() {
		c.todoUseCase, err = c.initTodoUseCase()
		if err != nil {
			c.initErrors["todoUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["todoUseCase"]; exists {
		return nil, storedErr
	}
	return c.todoUseCase, nil
}

// TodoHandler returns the HTTP handler for todo commands.
func (c *Container) TodoHandler() (*todoHTTP.TodoHandler, error) {
	var err error
	c.todoHandlerInit.Do(func() {
		c.todoHandler, err = c.initTodoHandler()
		if err != nil {
			c.initErrors["todoHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["todoHandler"]; exists {
		return nil, storedErr
	}
	return c.todoHandler, nil
}

// initTodoRepository creates the todo repository for the configured driver.
func (c *Container) initTodoRepository() (todoUseCase.TodoRepository, error) {
	supervisor, err := c.Supervisor()
	if err != nil {
		return nil, fmt.Errorf("failed to get supervisor for todo repository: %w", err)
	}

	switch c.config.DBDriver {
	case config.DriverPostgres:
		return todoRepository.NewPostgreSQLTodoRepository(supervisor), nil
	case config.DriverMySQL:
		return todoRepository.NewMySQLTodoRepository(supervisor), nil
	case config.DriverSQLite:
		return todoRepository.NewSQLiteTodoRepository(supervisor), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventPublisher creates the AMQP event publisher.
func (c *Container) initEventPublisher() (todoUseCase.EventPublisher, error) {
	supervisor, err := c.Supervisor()
	if err != nil {
		return nil, fmt.Errorf("failed to get supervisor for event publisher: %w", err)
	}

	return publisher.NewAMQPEventPublisher(supervisor, c.config.BrokerQueueDurable, c.Logger()), nil
}

// initTodoUseCase creates the todo use case with all its dependencies.
func (c *Container) initTodoUseCase() (todoUseCase.TodoUseCase, error) {
	repository, err := c.TodoRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo repository for todo use case: %w", err)
	}

	eventPublisher, err := c.EventPublisher()
	if err != nil {
		return nil, fmt.Errorf("failed to get event publisher for todo use case: %w", err)
	}

	baseUseCase := todoUseCase.NewTodoUseCase(repository, eventPublisher, c.config.BrokerQueue, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		commandMetrics, err := c.CommandMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get command metrics for todo use case: %w", err)
		}
		return todoUseCase.NewTodoUseCaseWithMetrics(baseUseCase, commandMetrics), nil
	}

	return baseUseCase, nil
}

// initTodoHandler creates the todo HTTP handler.
func (c *Container) initTodoHandler() (*todoHTTP.TodoHandler, error) {
	useCase, err := c.TodoUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get todo use case for todo handler: %w", err)
	}

	return todoHTTP.NewTodoHandler(useCase, c.Logger()), nil
}
