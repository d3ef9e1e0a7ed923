package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskapp/pkg/config"
	appctx "taskapp/pkg/context"
	"taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestIDMiddleware(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	var seen string

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/task/tasks", func(c *gin.Context) {
		seen = appctx.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/task/tasks", nil)
	router.ServeHTTP(w, req)

	Expect(seen).To(HaveLen(36))
	Expect(w.Header().Get(RequestIDHeader)).To(Equal(seen))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/task/tasks", nil)
	req.Header.Set(RequestIDHeader, "6f1c2f59-8e4c-4c43-a8f5-0b7b3a1d2e10")
	router.ServeHTTP(w, req)

	Expect(seen).To(Equal("6f1c2f59-8e4c-4c43-a8f5-0b7b3a1d2e10"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/task/tasks", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	router.ServeHTTP(w, req)

	Expect(seen).ToNot(Equal("<script>"))
}

func TestSetupGinMiddleware_RecordsMetrics(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	metrics := tracing.NewAppMetrics(registry)

	cfg := config.GetDefaultConfig()

	router := gin.New()
	SetupGinMiddlewareWithConfig(router, "taskapp", metrics, config.NewNopLogger(), cfg)
	router.POST("/task/create", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/task/create", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Header().Get("X-RateLimit-Limit")).To(Equal("20"))
	}

	count, err := testutil.GatherAndCount(registry, "http_requests_total")
	Expect(err).To(BeNil())
	Expect(count).To(Equal(1))

	count, err = testutil.GatherAndCount(registry, "rate_limit_allowed_total")
	Expect(err).To(BeNil())
	Expect(count).To(Equal(1))
}

func TestSetupGinMiddleware_RateLimitDisabled(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	cfg := config.GetDefaultConfig()
	cfg.RateLimitEnabled = false

	router := gin.New()
	SetupGinMiddlewareWithConfig(router, "taskapp", nil, config.NewNopLogger(), cfg)
	router.GET("/task/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/task/tasks", nil)
	router.ServeHTTP(w, req)

	Expect(w.Code).To(Equal(http.StatusOK))
	Expect(w.Header().Get("X-RateLimit-Limit")).To(BeEmpty())
}
