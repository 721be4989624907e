package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type RedisFlowStoreConfig struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// RedisFlowStore keeps every flow in one hash so the whole flow shares a TTL.
type RedisFlowStore struct {
	config RedisFlowStoreConfig
	client redis.UniversalClient
}

func NewRedisFlowStore(config RedisFlowStoreConfig) *RedisFlowStore {
	return &RedisFlowStore{
		config: config,
	}
}

// NewRedisFlowStoreWithClient uses an existing client, Init only checks the connection.
func NewRedisFlowStoreWithClient(client redis.UniversalClient, config RedisFlowStoreConfig) *RedisFlowStore {
	return &RedisFlowStore{
		config: config,
		client: client,
	}
}

func (store *RedisFlowStore) Init() error {
	if store.client == nil {
		store.client = redis.NewClient(&redis.Options{
			Addr:     store.config.Address,
			Password: store.config.Password,
			DB:       store.config.DB,
		})
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 500 * time.Millisecond
	exp.RandomizationFactor = 0.1
	exp.Multiplier = 1.5
	exp.Reset()

	operation := func() (string, error) {
		return store.client.Ping(context.Background()).Result()
	}

	_, err := backoff.Retry(context.Background(), operation, backoff.WithBackOff(exp), backoff.WithMaxTries(5))

	if err != nil {
		_ = store.client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Debug().Str("address", store.config.Address).Msg("Connected to redis flow store")
	return nil
}

func (store *RedisFlowStore) key(flowID string) string {
	return store.config.KeyPrefix + flowID
}

func (store *RedisFlowStore) Get(ctx context.Context, flowID string, key string) (string, error) {
	value, err := store.client.HGet(ctx, store.key(flowID), key).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrFlowKeyNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to read flow: %w", err)
	}

	return value, nil
}

func (store *RedisFlowStore) Set(ctx context.Context, flowID string, key string, value string) error {
	_, err := store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, store.key(flowID), key, value)
		pipe.Expire(ctx, store.key(flowID), store.config.TTL)
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to write flow: %w", err)
	}

	return nil
}

func (store *RedisFlowStore) Delete(ctx context.Context, flowID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := store.client.HDel(ctx, store.key(flowID), keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete flow keys: %w", err)
	}

	return nil
}

// Take runs HMGET and HDEL in one MULTI block so a value is handed out once.
func (store *RedisFlowStore) Take(ctx context.Context, flowID string, keys ...string) (map[string]string, error) {
	taken := make(map[string]string, len(keys))

	if len(keys) == 0 {
		return taken, nil
	}

	var values *redis.SliceCmd

	_, err := store.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.HMGet(ctx, store.key(flowID), keys...)
		pipe.HDel(ctx, store.key(flowID), keys...)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to take flow keys: %w", err)
	}

	for i, value := range values.Val() {
		if str, ok := value.(string); ok {
			taken[keys[i]] = str
		}
	}

	return taken, nil
}

func (store *RedisFlowStore) Clear(ctx context.Context, flowID string) error {
	if err := store.client.Del(ctx, store.key(flowID)).Err(); err != nil {
		return fmt.Errorf("failed to clear flow: %w", err)
	}

	return nil
}

func (store *RedisFlowStore) Close() error {
	if store.client == nil {
		return nil
	}
	return store.client.Close()
}
