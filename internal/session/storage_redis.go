package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL bounds how long an idle namespace survives; zero keeps it forever.
	TTL time.Duration
}

type RedisStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return newRedisStorage(client, cfg), nil
}

func newRedisStorage(client *redis.Client, cfg RedisConfig) *RedisStorage {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "portal:client:"
	}
	return &RedisStorage{
		client: client,
		prefix: prefix,
		ttl:    cfg.TTL,
	}
}

func (s *RedisStorage) key(clientID string) string {
	return s.prefix + clientID
}

func (s *RedisStorage) Load(ctx context.Context, clientID string) (map[string]string, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, ErrClientRequired
	}
	values, err := s.client.HGetAll(ctx, s.key(clientID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall client storage: %w", err)
	}
	return values, nil
}

func (s *RedisStorage) Put(ctx context.Context, clientID string, values map[string]string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	if len(values) == 0 {
		return nil
	}
	key := s.key(clientID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("hset client storage: %w", err)
	}
	return nil
}

func (s *RedisStorage) Clear(ctx context.Context, clientID string) error {
	if strings.TrimSpace(clientID) == "" {
		return ErrClientRequired
	}
	if err := s.client.Del(ctx, s.key(clientID)).Err(); err != nil {
		return fmt.Errorf("del client storage: %w", err)
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.client.Close()
}
