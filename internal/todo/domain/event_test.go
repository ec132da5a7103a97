package domain

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodoCreatedEvent(t *testing.T) {
	todo := Todo{ID: 1, Title: "buy milk", Completed: false}

	event := NewTodoCreatedEvent(todo)

	assert.Equal(t, TodoCreatedEventType, event.Type())
	assert.Equal(t, EventData{ID: 1, Title: "buy milk", Completed: false}, event.Data())
}

func TestEvent_IsSnapshot(t *testing.T) {
	todo := Todo{ID: 7, Title: "original"}
	event := NewTodoCreatedEvent(todo)

	todo.Title = "changed"
	todo.Completed = true

	assert.Equal(t, "original", event.Data().Title)
	assert.False(t, event.Data().Completed)

	data := event.Data()
	data.Title = "mutated copy"
	assert.Equal(t, "original", event.Data().Title)
}

func TestEvent_MarshalJSON(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)

	t.Run("wire format", func(t *testing.T) {
		body, err := json.Marshal(NewTodoCreatedEvent(Todo{ID: 1, Title: "buy milk"}))
		require.NoError(t, err)
		g.Assert(t, "todo_created_event", body)
	})

	t.Run("title escaping", func(t *testing.T) {
		body, err := json.Marshal(NewTodoCreatedEvent(Todo{
			ID:        42,
			Title:     `  "quoted" <b>&</b> ünïcode  `,
			Completed: true,
		}))
		require.NoError(t, err)
		g.Assert(t, "todo_created_event_escaping", body)
	})
}

func TestEvent_RoundTripsIntoConsumerShape(t *testing.T) {
	body, err := json.Marshal(NewTodoCreatedEvent(Todo{ID: 3, Title: "walk the dog"}))
	require.NoError(t, err)

	var decoded struct {
		Type string `json:"type"`
		Data struct {
			ID        int64  `json:"id"`
			Title     string `json:"title"`
			Completed bool   `json:"completed"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "TODO_CREATED", decoded.Type)
	assert.Equal(t, int64(3), decoded.Data.ID)
	assert.Equal(t, "walk the dog", decoded.Data.Title)
	assert.False(t, decoded.Data.Completed)
}
