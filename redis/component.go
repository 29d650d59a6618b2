package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/locus/component"
	"github.com/kbukum/locus/errors"
	"github.com/kbukum/locus/logger"
	"github.com/kbukum/locus/resolver"
)

// Component owns the Redis client lifecycle and exposes the cache Store
// once started.
type Component struct {
	mu     sync.RWMutex
	client *Client
	store  *Store
	cfg    Config
	log    *logger.Logger
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
	_ resolver.CacheStore   = (*Component)(nil)
)

// NewComponent creates a Redis component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("redis"),
	}
}

// Store returns the cache store, or nil if not started.
func (c *Component) Store() *Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

func (c *Component) Name() string { return "redis" }

// Get, Set and Delete forward to the started Store so the component can be
// handed to a resolver before Start runs.
func (c *Component) Get(ctx context.Context, key string) ([]byte, bool, error) {
	store := c.Store()
	if store == nil {
		return nil, false, errNotStarted("get")
	}
	return store.Get(ctx, key)
}

func (c *Component) Set(ctx context.Context, key string, value []byte) error {
	store := c.Store()
	if store == nil {
		return errNotStarted("set")
	}
	return store.Set(ctx, key, value)
}

func (c *Component) Delete(ctx context.Context, key string) error {
	store := c.Store()
	if store == nil {
		return errNotStarted("delete")
	}
	return store.Delete(ctx, key)
}

func errNotStarted(op string) error {
	return errors.CacheUnavailable(op, fmt.Errorf("redis component not started"))
}

// Start creates the client and verifies connectivity.
func (c *Component) Start(ctx context.Context) error {
	client, err := New(c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("redis start: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("redis start ping: %w", err)
	}

	c.mu.Lock()
	c.client = client
	c.store = NewStore(client, c.cfg.TTLDuration())
	c.mu.Unlock()
	c.log.Info("Redis component started", logger.Fields("addr", c.cfg.Addr))
	return nil
}

// Stop closes the connection pool. Calls made after Stop fail as if the
// component had never started.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client, c.store = nil, nil
	c.mu.Unlock()

	if client == nil {
		return nil
	}
	c.log.Info("Redis component stopping")
	return client.Close()
}

func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	client := c.client
	c.mu.RUnlock()
	if client == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "redis not initialized",
		}
	}
	if err := client.Ping(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	ttl := c.cfg.TTL
	if ttl == "" {
		ttl = "none"
	}
	return component.Description{
		Name:    "Redis",
		Type:    "cache",
		Details: fmt.Sprintf("%s db=%d pool=%d ttl=%s", c.cfg.Addr, c.cfg.DB, c.cfg.PoolSize, ttl),
	}
}
