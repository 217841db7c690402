package store

import (
	"context"
	"errors"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisSlots stores each slot as a plain Redis string key without expiry.
type RedisSlots struct {
	client redis.UniversalClient
}

func NewRedisSlots(client redis.UniversalClient) *RedisSlots {
	return &RedisSlots{client: client}
}

// OpenRedisSlots connects to addr and verifies the connection with PING.
func OpenRedisSlots(ctx context.Context, addr, password string, db int) (*RedisSlots, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return NewRedisSlots(client), nil
}

func (s *RedisSlots) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *RedisSlots) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *RedisSlots) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *RedisSlots) Keys(ctx context.Context, prefix string) ([]string, error) {
	out := []string{}
	iter := s.client.Scan(ctx, 0, redisMatchPattern(prefix), 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *RedisSlots) Close() error {
	return s.client.Close()
}

// redisMatchPattern escapes glob metacharacters in prefix and appends "*".
func redisMatchPattern(prefix string) string {
	buf := make([]byte, 0, len(prefix)+2)
	for i := 0; i < len(prefix); i++ {
		switch c := prefix[i]; c {
		case '*', '?', '[', ']', '\\':
			buf = append(buf, '\\', c)
		default:
			buf = append(buf, c)
		}
	}
	return string(append(buf, '*'))
}
