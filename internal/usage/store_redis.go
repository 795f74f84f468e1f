package usage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"plangate/internal/plan"
	id "plangate/pkg/domain"
	"plangate/pkg/requestcontext"
)

const keyPrefix = "plangate:usage:"

// RedisMeter keeps usage counters in Redis so every node sees the same
// consumption. Counters expire once their bucket can no longer be read.
type RedisMeter struct {
	client *redis.Client
}

func NewRedisMeter(client *redis.Client) *RedisMeter {
	return &RedisMeter{client: client}
}

func (m *RedisMeter) Consumed(ctx context.Context, userID id.UserID, scope plan.Scope, period plan.Period) (int, error) {
	key := keyPrefix + counterKey(userID, scope, period, requestcontext.Now(ctx))

	count, err := m.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read usage counter: %w", err)
	}
	return count, nil
}

func (m *RedisMeter) Record(ctx context.Context, userID id.UserID, scope plan.Scope, period plan.Period, n int) error {
	key := keyPrefix + counterKey(userID, scope, period, requestcontext.Now(ctx))

	pipe := m.client.TxPipeline()
	pipe.IncrBy(ctx, key, int64(n))
	if ttl := retention(period); ttl > 0 {
		pipe.ExpireNX(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}
