package signal

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var _ Bus = (*RedisChannel)(nil)

// RedisChannel stores the flags as two string keys, for peers that run on a
// different host than the controller.
type RedisChannel struct {
	client      redis.UniversalClient
	presenceKey string
	actuatorKey string
}

func NewRedisChannel(client redis.UniversalClient, prefix string) *RedisChannel {
	if prefix == "" {
		prefix = "accessgate"
	}
	return &RedisChannel{
		client:      client,
		presenceKey: prefix + ":presence",
		actuatorKey: prefix + ":actuator",
	}
}

// NewRedisClient parses url and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func (r *RedisChannel) Detected(ctx context.Context) (bool, error) {
	v, err := r.client.Get(ctx, r.presenceKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read presence status: %w", err)
	}
	return isDetected(v), nil
}

func (r *RedisChannel) Report(ctx context.Context, detected bool) error {
	return r.client.Set(ctx, r.presenceKey, presenceValue(detected), 0).Err()
}

func (r *RedisChannel) Command(ctx context.Context, cmd Command) error {
	if err := validate(cmd); err != nil {
		return err
	}
	return r.client.Set(ctx, r.actuatorKey, string(cmd), 0).Err()
}

func (r *RedisChannel) LastCommand(ctx context.Context) (Command, error) {
	v, err := r.client.Get(ctx, r.actuatorKey).Result()
	if errors.Is(err, redis.Nil) {
		return CommandNone, nil
	}
	if err != nil {
		return CommandNone, fmt.Errorf("read actuator status: %w", err)
	}
	return ParseCommand(v), nil
}
