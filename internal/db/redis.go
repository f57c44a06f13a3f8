package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore wraps a redis client and context for operations.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// ConfigUpdateChannel carries invalidation messages published by the admin
// system whenever mediation configuration changes.
const ConfigUpdateChannel = "mediation-config-updates"

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(addr string) (*RedisStore, error) {
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Ctx:    context.Background(),
	}

	// Add OpenTelemetry instrumentation to Redis client
	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(rs.Ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

// Close releases the underlying client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}

// IncrementDemandResult increments the daily fill counter for one demand
// partner outcome (bid, nobid, error). A 48h TTL is applied on first set so
// offline analysis has yesterday's numbers available.
func (r *RedisStore) IncrementDemandResult(demand, outcome string) error {
	key := fmt.Sprintf("demand:%s:%s:%s", demand, outcome, time.Now().Format("2006-01-02"))
	val, err := r.Client.Incr(r.Ctx, key).Result()
	if err != nil {
		return err
	}
	if val == 1 {
		r.Client.Expire(r.Ctx, key, 48*time.Hour)
	}
	return nil
}

// GetDemandResultCount returns today's counter for (demand, outcome).
func (r *RedisStore) GetDemandResultCount(demand, outcome string) int64 {
	key := fmt.Sprintf("demand:%s:%s:%s", demand, outcome, time.Now().Format("2006-01-02"))
	val, err := r.Client.Get(r.Ctx, key).Int64()
	if err != nil {
		return 0
	}
	return val
}

// SubscribeConfigUpdates subscribes to the invalidation channel and invokes
// reload for every message until ctx is cancelled. Errors are logged, not
// returned: losing the subscription degrades freshness, not correctness,
// because the interval reload still runs.
func (r *RedisStore) SubscribeConfigUpdates(ctx context.Context, logger *zap.Logger, reload func() error) {
	sub := r.Client.Subscribe(ctx, ConfigUpdateChannel)
	ch := sub.Channel()

	go func() {
		defer func() {
			_ = sub.Close()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				logger.Info("config update notification", zap.String("payload", msg.Payload))
				if err := reload(); err != nil {
					logger.Error("reload after notification", zap.Error(err))
				}
			}
		}
	}()
}
