package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisUsage keeps running per-model request and token totals.
type RedisUsage struct {
	client *redis.Client
	prefix string
}

func NewRedisUsage(client *redis.Client, prefix string) *RedisUsage {
	return &RedisUsage{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisUsage) requestsKey(model string) string {
	return fmt.Sprintf("%s:usage:requests:%s", r.prefix, model)
}

func (r *RedisUsage) tokensKey(model string) string {
	return fmt.Sprintf("%s:usage:tokens:%s", r.prefix, model)
}

func (r *RedisUsage) Record(ctx context.Context, model string, tokens int) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, r.requestsKey(model))
	pipe.IncrBy(ctx, r.tokensKey(model), int64(tokens))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record usage for %s: %w", model, err)
	}
	return nil
}

// Usage returns the totals recorded for model; unknown models report zero.
func (r *RedisUsage) Usage(ctx context.Context, model string) (requests, tokens int64, err error) {
	requests, err = r.counter(ctx, r.requestsKey(model))
	if err != nil {
		return 0, 0, err
	}
	tokens, err = r.counter(ctx, r.tokensKey(model))
	if err != nil {
		return 0, 0, err
	}
	return requests, tokens, nil
}

func (r *RedisUsage) counter(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

func (r *RedisUsage) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
