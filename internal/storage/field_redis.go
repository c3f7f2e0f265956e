package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/eventlive/eventlive-backend/internal/models"
)

const (
	statusKeyPrefix   = "cmd:"
	faqListKey        = "faq:list"
	locationKeyPrefix = "loc:"
)

// RedisFieldStore keeps field data in redis. Status keys expire after
// StatusTTL; FAQs and locations are kept in lists so reads preserve
// insertion order.
type RedisFieldStore struct {
	client *redis.Client
}

func NewRedisFieldStore(client *redis.Client) *RedisFieldStore {
	return &RedisFieldStore{client: client}
}

// NewRedisFieldStoreFromURL parses a redis:// URL and pings the server.
func NewRedisFieldStoreFromURL(ctx context.Context, url string) (*RedisFieldStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisFieldStore(client), nil
}

func (r *RedisFieldStore) Close() error {
	return r.client.Close()
}

func (r *RedisFieldStore) SetStatus(ctx context.Context, key, value string) error {
	if err := r.client.SetEx(ctx, statusKeyPrefix+key, value, StatusTTL).Err(); err != nil {
		return fmt.Errorf("set status %q: %w", key, err)
	}
	return nil
}

func (r *RedisFieldStore) GetStatus(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, statusKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get status %q: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisFieldStore) AddFAQ(ctx context.Context, rec models.FaqRecord) error {
	return r.push(ctx, faqListKey, rec)
}

func (r *RedisFieldStore) ListFAQs(ctx context.Context) ([]models.FaqRecord, error) {
	return readList[models.FaqRecord](ctx, r.client, faqListKey)
}

func (r *RedisFieldStore) AddLocation(ctx context.Context, category string, point models.LocationPoint) error {
	return r.push(ctx, locationKeyPrefix+category, point)
}

func (r *RedisFieldStore) Locations(ctx context.Context, category string) ([]models.LocationPoint, error) {
	return readList[models.LocationPoint](ctx, r.client, locationKeyPrefix+category)
}

func (r *RedisFieldStore) push(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s entry: %w", key, err)
	}
	if err := r.client.RPush(ctx, key, raw).Err(); err != nil {
		return fmt.Errorf("push %s: %w", key, err)
	}
	return nil
}

func readList[T any](ctx context.Context, client *redis.Client, key string) ([]T, error) {
	raws, err := client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("decode %s entry: %w", key, err)
		}
		out = append(out, v)
	}
	return out, nil
}
