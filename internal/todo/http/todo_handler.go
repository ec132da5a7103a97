// Package http provides HTTP handlers for todo commands.
package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/todos/internal/httputil"
	"github.com/allisson/todos/internal/todo/domain"
	"github.com/allisson/todos/internal/todo/http/dto"
	todoUseCase "github.com/allisson/todos/internal/todo/usecase"
	customValidation "github.com/allisson/todos/internal/validation"
)

// TodoHandler handles HTTP requests for todo commands.
type TodoHandler struct {
	todoUseCase todoUseCase.TodoUseCase
	logger      *slog.Logger
}

// NewTodoHandler creates a new todo handler with required dependencies.
func NewTodoHandler(todoUseCase todoUseCase.TodoUseCase, logger *slog.Logger) *TodoHandler {
	return &TodoHandler{
		todoUseCase: todoUseCase,
		logger:      logger,
	}
}

// CreateHandler creates a todo and publishes its TODO_CREATED event.
// POST /v1/todos - Returns 201 Created with the stored todo.
//
// A todo whose event could not be published is still stored; the 502 response carries its id.
func (h *TodoHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateTodoRequest

	// An empty body is a command without a title
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	todo, err := h.todoUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		var publishErr *domain.PublishFailedError
		if errors.As(err, &publishErr) {
			response := dto.MapTodoToPublishFailedResponse(publishErr.Todo)
			httputil.LogError(c.Request.Context(), h.logger, http.StatusBadGateway, response.Code, err)
			c.JSON(http.StatusBadGateway, response)
			return
		}

		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTodoToCreateResponse(todo))
}
