package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/it-era/intake/internal/model"
)

const keyPrefix = "session:"

// redisStore persists sessions as JSON values with a TTL. Reading a session
// refreshes its TTL so active conversations do not expire mid-flow.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (s *redisStore) Get(ctx context.Context, id string) (*model.Session, error) {
	val, err := s.client.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess model.Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	_ = s.client.Expire(ctx, keyPrefix+id, s.ttl).Err()

	return &sess, nil
}

func (s *redisStore) Put(ctx context.Context, id string, sess *model.Session) error {
	val, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+id, val, s.ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, keyPrefix+id).Err()
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
