package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"taskapp/internal/adapter/database/memory"
	server "taskapp/internal/adapter/http"
	"taskapp/pkg/config"
	"taskapp/pkg/tracing"
)

func newServer(cfg *config.AppConfig, registry *prometheus.Registry) *server.Server {
	metrics := tracing.NewAppMetrics(registry)

	return server.NewServer(memory.NewTaskRepository(nil), nil, metrics, config.NewNopLogger(), cfg)
}

func TestServer_RateLimitsCreate(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.RateLimitConfigs = map[string]config.RateLimitConfig{
		"POST /create": {Requests: 1, Window: time.Minute},
	}

	registry := prometheus.NewRegistry()
	handler := newServer(cfg, registry).Handler()

	post := func(title string) int {
		req := httptest.NewRequest(http.MethodPost, "/task/create", strings.NewReader(`{"title":"`+title+`"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		return w.Code
	}

	Expect(post("Buy milk")).To(Equal(http.StatusCreated))
	Expect(post("Walk dog")).To(Equal(http.StatusTooManyRequests))

	count, err := testutil.GatherAndCount(registry, "http_requests_total")
	Expect(err).To(BeNil())
	Expect(count).To(BeNumerically(">=", 1))
}

func TestServer_ListWithoutRateLimit(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.RateLimitEnabled = false

	handler := newServer(cfg, prometheus.NewRegistry()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/task/tasks", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
	Expect(w.Header().Get("X-RateLimit-Limit")).To(BeEmpty())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.Port = "0"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	Expect(newServer(cfg, prometheus.NewRegistry()).Run(ctx, time.Second)).To(Succeed())
}
