package project

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout.
const (
	redisKeyPrefix = "shapegrid:project:"
	redisIndexKey  = "shapegrid:projects"
)

// RedisOptions configure NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps each project as a JSON string plus an id set used for
// listing. It suits servers running several instances.
type RedisStore struct {
	client *redis.Client
	owned  bool
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	return &RedisStore{client: client, owned: true}, nil
}

// NewRedisStoreFromClient wraps an existing client. Close leaves the client
// open.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (s *RedisStore) Get(ctx context.Context, id string) (p *Project, err error) {
	defer func(start time.Time) { observe(ctx, "redis", "get", start, err) }(time.Now())

	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeProject(id, data)
}

func (s *RedisStore) Save(ctx context.Context, p *Project) (err error) {
	defer func(start time.Time) { observe(ctx, "redis", "save", start, err) }(time.Now())
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey(p.ID), data, 0)
		pipe.SAdd(ctx, redisIndexKey, p.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe(ctx, "redis", "delete", start, err) }(time.Now())

	var del *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, redisKey(id))
		pipe.SRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	if del.Val() == 0 {
		return notFound(id)
	}
	return nil
}

// List drops index entries whose document has expired or been removed
// outside the store.
func (s *RedisStore) List(ctx context.Context) (out []*Project, err error) {
	defer func(start time.Time) { observe(ctx, "redis", "list", start, err) }(time.Now())

	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list: %w", err)
	}

	var stale []any
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		p, err := decodeProject(ids[i], []byte(str))
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	if len(stale) > 0 {
		s.client.SRem(ctx, redisIndexKey, stale...)
	}
	sortProjects(out)
	return out, nil
}

// Close closes the underlying client if the store created it.
func (s *RedisStore) Close() error {
	if s.owned {
		return s.client.Close()
	}
	return nil
}

func decodeProject(id string, data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", id, err)
	}
	return &p, nil
}

var _ Store = (*RedisStore)(nil)
