package config

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	. "taskapp/pkg"
	. "taskapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type RateLimitEndpointConfig struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

// RateLimiter is a fixed-window limiter per route and client, kept in memory.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]RateLimitEndpointConfig
	prefix  string
	logger  *zap.Logger
	metrics *AppMetrics
	mutex   sync.Mutex
}

type RateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(logger *zap.Logger, metrics *AppMetrics, prefix string, limits map[string]RateLimitConfig) *RateLimiter {
	if limits == nil {
		limits = DefaultRateLimits()
	}

	rl := &RateLimiter{
		cache:   cache.New(5*time.Minute, 10*time.Minute),
		config:  make(map[string]RateLimitEndpointConfig, len(limits)+1),
		prefix:  strings.TrimSuffix(prefix, "/"),
		logger:  logger,
		metrics: metrics,
	}

	rl.SetConfig("default", RateLimitEndpointConfig{Requests: 60, Window: time.Minute})

	for route, limit := range limits {
		rl.SetConfig(route, RateLimitEndpointConfig{Requests: limit.Requests, Window: limit.Window})
	}

	return rl
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := rl.routeKey(c)
		config := rl.lookup(route)
		key := rl.generateKey(c, route, config.KeyFunc)

		allowed, remaining, resetTime := rl.checkRateLimit(key, config)

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), route)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("route", route),
				zap.Int("limit", config.Requests),
				zap.Duration("window", config.Window))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", config.Requests, config.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), route)
		}

		c.Next()
	}
}

// routeKey is "METHOD /route" with the mount prefix removed.
func (rl *RateLimiter) routeKey(c *gin.Context) string {
	path := c.FullPath()

	if path == "" {
		return "default"
	}

	if rl.prefix != "" {
		path = strings.TrimPrefix(path, rl.prefix)
	}

	return c.Request.Method + " " + path
}

func (rl *RateLimiter) lookup(route string) RateLimitEndpointConfig {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if config, ok := rl.config[route]; ok {
		return config
	}

	return rl.config["default"]
}

func (rl *RateLimiter) checkRateLimit(key string, config RateLimitEndpointConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if entry, found := rl.cache.Get(key); found {
		rateLimitEntry := entry.(RateLimitEntry)

		if now.Before(rateLimitEntry.ResetTime) {
			if rateLimitEntry.Count >= config.Requests {
				return false, 0, rateLimitEntry.ResetTime
			}

			rateLimitEntry.Count++
			rl.cache.Set(key, rateLimitEntry, time.Until(rateLimitEntry.ResetTime))

			return true, config.Requests - rateLimitEntry.Count, rateLimitEntry.ResetTime
		}
	}

	resetTime := now.Add(config.Window)
	rl.cache.Set(key, RateLimitEntry{Count: 1, ResetTime: resetTime}, config.Window)

	return true, config.Requests - 1, resetTime
}

func (rl *RateLimiter) generateKey(c *gin.Context, route string, keyFunc func(*gin.Context) string) string {
	return fmt.Sprintf("rate_limit:%s:%s", route, keyFunc(c))
}

func (rl *RateLimiter) SetConfig(route string, config RateLimitEndpointConfig) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if config.KeyFunc == nil {
		config.KeyFunc = GetClientIP
	}

	rl.config[route] = config
}
