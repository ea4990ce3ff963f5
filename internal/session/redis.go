package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPersister keeps the session in Redis so a console restart does not
// force the operator back through login.
type RedisPersister struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisPersister(addr, password, key string, ttl time.Duration) *RedisPersister {
	c := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	return &RedisPersister{client: c, key: key, ttl: ttl}
}

func (r *RedisPersister) Save(ctx context.Context, a Admin) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key, b, r.ttl).Err()
}

func (r *RedisPersister) Load(ctx context.Context) (Admin, bool, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Admin{}, false, nil
	}
	if err != nil {
		return Admin{}, false, err
	}
	var a Admin
	if err := json.Unmarshal(b, &a); err != nil {
		return Admin{}, false, err
	}
	return a, true, nil
}

func (r *RedisPersister) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *RedisPersister) Close() error { return r.client.Close() }
