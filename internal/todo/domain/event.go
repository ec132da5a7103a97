package domain

import "encoding/json"

// TodoCreatedEventType is the type of the event announced after a todo is created.
const TodoCreatedEventType = "TODO_CREATED"

// EventData is the todo snapshot carried by an event.
type EventData struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Event is an immutable domain event. Its data is a copy taken at construction time.
type Event struct {
	eventType string
	data      EventData
}

// NewTodoCreatedEvent builds the TODO_CREATED event for a persisted todo.
func NewTodoCreatedEvent(todo Todo) Event {
	return Event{
		eventType: TodoCreatedEventType,
		data: EventData{
			ID:        todo.ID,
			Title:     todo.Title,
			Completed: todo.Completed,
		},
	}
}

// Type returns the event type.
func (e Event) Type() string {
	return e.eventType
}

// Data returns a copy of the event data.
func (e Event) Data() EventData {
	return e.data
}

// MarshalJSON encodes the event in its wire format:
// {"type":"TODO_CREATED","data":{"id":1,"title":"buy milk","completed":false}}.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string    `json:"type"`
		Data EventData `json:"data"`
	}{
		Type: e.eventType,
		Data: e.data,
	})
}
