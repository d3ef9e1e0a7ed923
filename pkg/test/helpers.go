package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskapp/internal/adapter/database/memory"
	server "taskapp/internal/adapter/http"
	"taskapp/internal/adapter/http/routes"
	"taskapp/internal/core/model/request"
	"taskapp/pkg/config"
)

const RoutePrefix = "/task"

// Clock is a settable time source for tests.
type Clock struct {
	Current time.Time
}

func NewClock() *Clock {
	return &Clock{Current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	return c.Current
}

func (c *Clock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}

// TestApp is the full task stack over the in-memory store.
type TestApp struct {
	Repo      *memory.TaskRepository
	Container *server.Container
	Router    *gin.Engine
	Clock     *Clock
}

func NewTestApp() *TestApp {
	clock := NewClock()
	repo := memory.NewTaskRepository(nil)

	container := server.NewContainer(repo, nil, config.NewNopLogger()).WithClock(clock.Now)

	router := routes.SetupRouterForTests(routes.HandlersConfig{
		TaskHandler: container.TaskHandler,
	}, RoutePrefix)

	return &TestApp{
		Repo:      repo,
		Container: container,
		Router:    router,
		Clock:     clock,
	}
}

// Do sends a request to the router; body may be empty.
func (a *TestApp) Do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader = strings.NewReader(body)

	req, _ := http.NewRequest(method, RoutePrefix+path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	return w
}

// Some marks an update field as sent with value.
func Some[T any](value T) request.Optional[T] {
	return request.Optional[T]{Set: true, Value: value}
}

// Null marks an update field as sent as JSON null.
func Null[T any]() request.Optional[T] {
	return request.Optional[T]{Set: true, Null: true}
}
