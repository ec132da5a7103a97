package dto

import (
	"github.com/allisson/todos/internal/todo/domain"
)

// CreatedMessage is the message returned with every created todo.
const CreatedMessage = "Todo created successfully."

// CreateTodoResponse represents a created todo in API responses.
type CreateTodoResponse struct {
	Message   string `json:"message"`
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// PublishFailedResponse is returned when the todo was saved but its event was not published.
// ID lets clients reconcile the todo that exists in the store.
type PublishFailedResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	ID    int64  `json:"id"`
}

// MapTodoToCreateResponse converts a domain todo to an API response.
func MapTodoToCreateResponse(todo *domain.Todo) CreateTodoResponse {
	return CreateTodoResponse{
		Message:   CreatedMessage,
		ID:        todo.ID,
		Title:     todo.Title,
		Completed: todo.Completed,
	}
}

// MapTodoToPublishFailedResponse converts a committed but unannounced todo to an API response.
func MapTodoToPublishFailedResponse(todo *domain.Todo) PublishFailedResponse {
	return PublishFailedResponse{
		Error: "Todo was saved but the event could not be published",
		Code:  "publish_failed",
		ID:    todo.ID,
	}
}
