package session

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps sessions in a redis hash per session ID with a TTL, so an
// abandoned login expires on its own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

func (s *RedisStore) Set(ctx context.Context, sid, token, email string) error {
	key := sessionKey(sid)
	if err := s.client.HSet(ctx, key, map[string]interface{}{
		KeyToken: token,
		KeyEmail: email,
	}).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *RedisStore) Token(ctx context.Context, sid string) (string, error) {
	return s.field(ctx, sid, KeyToken)
}

func (s *RedisStore) Email(ctx context.Context, sid string) (string, error) {
	return s.field(ctx, sid, KeyEmail)
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionKey(sid)).Err()
}

func (s *RedisStore) field(ctx context.Context, sid, field string) (string, error) {
	val, err := s.client.HGet(ctx, sessionKey(sid), field).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
