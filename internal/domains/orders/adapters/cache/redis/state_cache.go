package redis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	"github.com/Apurer/store-admin-api/internal/domains/orders/ports"
)

const (
	statesKey  = "orders:states:v1"
	defaultTTL = 10 * time.Minute
)

var _ ports.StateRepository = (*StateCache)(nil)

// StateCache serves the order state lookup table from Redis and falls through to next on a miss.
// Redis failures are logged and never fail the read.
type StateCache struct {
	next   ports.StateRepository
	client goredis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*StateCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *StateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *StateCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewStateCache(next ports.StateRepository, client goredis.Cmdable, opts ...Option) *StateCache {
	c := &StateCache{
		next:   next,
		client: client,
		ttl:    defaultTTL,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *StateCache) List(ctx context.Context) ([]domain.OrderState, error) {
	if states, ok := c.cached(ctx); ok {
		return states, nil
	}
	states, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, states)
	return states, nil
}

func (c *StateCache) Get(ctx context.Context, id string) (*domain.OrderState, error) {
	if states, ok := c.cached(ctx); ok {
		for _, st := range states {
			if st.ID == id {
				st := st
				return &st, nil
			}
		}
	}
	return c.next.Get(ctx, id)
}

// Invalidate drops the cached table.
func (c *StateCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statesKey).Err()
}

func (c *StateCache) cached(ctx context.Context) ([]domain.OrderState, bool) {
	raw, err := c.client.Get(ctx, statesKey).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.WarnContext(ctx, "order state cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	var states []domain.OrderState
	if err := json.Unmarshal(raw, &states); err != nil {
		c.logger.WarnContext(ctx, "order state cache entry is corrupt", slog.String("error", err.Error()))
		return nil, false
	}
	return states, true
}

func (c *StateCache) store(ctx context.Context, states []domain.OrderState) {
	data, err := json.Marshal(states)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, statesKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "order state cache write failed", slog.String("error", err.Error()))
	}
}
