package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis stores each document as JSON under prefix+id and indexes ids in a
// sorted set scored by creation time.
type Redis struct {
	client *redis.Client
	prefix string
}

// RedisOption configures a Redis store.
type RedisOption func(*Redis)

// WithPrefix sets the key prefix (default "seqdraw:diagram:").
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) { r.prefix = prefix }
}

// NewRedis wraps an existing client. Close closes the client.
func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{client: client, prefix: "seqdraw:diagram:"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRedisFromURL connects using a redis:// URL.
func NewRedisFromURL(ctx context.Context, url string, opts ...RedisOption) (*Redis, error) {
	o, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(o)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedis(client, opts...), nil
}

func (r *Redis) key(id string) string { return r.prefix + id }

func (r *Redis) indexKey() string { return r.prefix + "index" }

func (r *Redis) Put(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(doc.ID), data, 0)
	pipe.ZAdd(ctx, r.indexKey(), redis.Z{Score: float64(doc.CreatedAt.UnixMilli()), Member: doc.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save to redis: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, id string) (Document, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Document{}, notFound(id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get from redis: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, r.key(id))
	pipe.ZRem(ctx, r.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete from redis: %w", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

func (r *Redis) List(ctx context.Context, limit int) ([]Document, error) {
	ids, err := r.client.ZRevRange(ctx, r.indexKey(), 0, int64(listLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list from redis: %w", err)
	}
	if len(ids) == 0 {
		return []Document{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.key(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list from redis: %w", err)
	}

	out := make([]Document, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			// Index entry outlived its document.
			continue
		}
		var doc Document
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *Redis) Close() error { return r.client.Close() }

var _ Store = (*Redis)(nil)
