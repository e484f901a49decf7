package enclave

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// ClientLimiter rate-limits inbound opcode requests per client, using a
// token-bucket limiter allocated lazily per client key. It sits in
// front of the serialized Dispatcher; throttling is a host-side
// concern, not something the core itself is aware of.
type ClientLimiter struct {
	limiters   map[string]*rate.Limiter
	mu         sync.RWMutex
	rateLimit  rate.Limit
	burstLimit int
}

// NewClientLimiter creates a limiter admitting ratePerSecond requests
// per second per client, with the given burst allowance.
func NewClientLimiter(ratePerSecond float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limiters:   make(map[string]*rate.Limiter),
		rateLimit:  rate.Limit(ratePerSecond),
		burstLimit: burst,
	}
}

// Allow reports whether a request from client should proceed now.
func (c *ClientLimiter) Allow(client string) bool {
	return c.getLimiter(client).Allow()
}

// Wait blocks until a request from client is allowed or ctx is canceled.
func (c *ClientLimiter) Wait(ctx context.Context, client string) error {
	return c.getLimiter(client).Wait(ctx)
}

func (c *ClientLimiter) getLimiter(client string) *rate.Limiter {
	c.mu.RLock()
	limiter, exists := c.limiters[client]
	c.mu.RUnlock()
	if exists {
		return limiter
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if limiter, exists = c.limiters[client]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(c.rateLimit, c.burstLimit)
	c.limiters[client] = limiter
	return limiter
}
