package context

import (
	"context"
	"sync"
)

const (
	RequestIDKey = "request_id"
	ClientIPKey  = "client_ip"
)

// Current holds per-request values shared between middleware and the
// layers below the handler.
type Current struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewCurrent() *Current {
	return &Current{
		data: make(map[string]string),
	}
}

func (c *Current) Set(key string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

func (c *Current) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.data[key]
	return value, ok
}

func (c *Current) All() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]string, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

type contextKey string

const currentKey contextKey = "current"

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, currentKey, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey).(*Current)
	return current, ok
}

// RequestID returns the id assigned by the request middleware, or "".
func RequestID(ctx context.Context) string {
	current, ok := FromContext(ctx)

	if !ok {
		return ""
	}

	id, _ := current.Get(RequestIDKey)
	return id
}
