package http

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/todos/internal/connection"
	brokerMocks "github.com/allisson/todos/internal/connection/mocks"
	"github.com/allisson/todos/internal/testutil"
	"github.com/allisson/todos/internal/todo/publisher"
	"github.com/allisson/todos/internal/todo/repository"
	"github.com/allisson/todos/internal/todo/usecase"
)

// newTestRouter wires the create route over a sqlite store and an in-memory broker.
func newTestRouter(db *sql.DB, broker *brokerMocks.Broker) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := newDiscardLogger()
	supervisor := connection.NewSupervisor(db, "amqp://localhost", broker, connection.NewRetryPolicy(5, 0), logger)
	uc := usecase.NewTodoUseCase(
		repository.NewSQLiteTodoRepository(supervisor),
		publisher.NewAMQPEventPublisher(supervisor, false, logger),
		"todo_events",
		logger,
	)

	router := gin.New()
	router.POST("/v1/todos", NewTodoHandler(uc, logger).CreateHandler)
	return router
}

func postTodo(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/todos", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTodo_EndToEnd(t *testing.T) {
	t.Run("Success_BuyMilk", func(t *testing.T) {
		db := testutil.SetupSQLiteDB(t)
		broker := brokerMocks.NewBroker()
		router := newTestRouter(db, broker)

		w := postTodo(router, `{"title": "buy milk"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t,
			`{"message":"Todo created successfully.","id":1,"title":"buy milk","completed":false}`,
			w.Body.String(),
		)
		assert.Equal(t, []testutil.TodoRow{{ID: 1, Title: "buy milk", Completed: false}}, testutil.ListTodos(t, db))

		messages := broker.Messages()
		require.Len(t, messages, 1)
		assert.Equal(t, "todo_events", messages[0].RoutingKey)

		g := goldie.New(t,
			goldie.WithFixtureDir("testdata"),
			goldie.WithNameSuffix(".golden"),
		)
		g.Assert(t, "todo_created_event", messages[0].Publishing.Body)
	})

	t.Run("Error_MissingTitle", func(t *testing.T) {
		db := testutil.SetupSQLiteDB(t)
		broker := brokerMocks.NewBroker()
		router := newTestRouter(db, broker)

		w := postTodo(router, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Title is required","code":"validation_error"}`, w.Body.String())
		assert.Equal(t, 0, testutil.CountTodos(t, db))
		assert.Empty(t, broker.Messages())
		assert.Zero(t, broker.Dials())
	})

	t.Run("Error_BrokerUnreachableKeepsRow", func(t *testing.T) {
		db := testutil.SetupSQLiteDB(t)
		broker := brokerMocks.NewBroker()
		broker.SetUnreachable(true)
		router := newTestRouter(db, broker)

		w := postTodo(router, `{"title": "buy milk"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t,
			`{"error":"Todo was saved but the event could not be published","code":"publish_failed","id":1}`,
			w.Body.String(),
		)
		assert.Equal(t, 1, testutil.CountTodos(t, db))
		assert.Empty(t, broker.Messages())
	})
}
