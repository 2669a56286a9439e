// Package redisstore implements the persistent store against Redis.
// Each collection is one hash keyed by record id, with a companion
// counter key providing auto-incrementing ids. Counters are never
// decremented, so ids are unique and never reused even after deletes.
//
// The engine exists for deployments where several relay instances share
// one data set; the embedded SQLite engine remains the default.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/juiceai/juice-server/internal/store"
)

// Open connects to Redis and verifies the connection. Returns
// store.ErrUnavailable when the server cannot be reached.
func Open(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return client, nil
}

// collection provides the shared hash-plus-counter operations each
// typed repository is built on.
type collection struct {
	client *redis.Client
	name   string
}

func (c collection) key() string    { return "juice:" + c.name }
func (c collection) seqKey() string { return "juice:" + c.name + ":seq" }

func field(id int64) string { return strconv.FormatInt(id, 10) }

func (c collection) nextID(ctx context.Context) (int64, error) {
	id, err := c.client.Incr(ctx, c.seqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", c.name, err)
	}
	return id, nil
}

// reserveIDs allocates n consecutive ids in one round trip and returns
// the first of them.
func (c collection) reserveIDs(ctx context.Context, n int64) (int64, error) {
	last, err := c.client.IncrBy(ctx, c.seqKey(), n).Result()
	if err != nil {
		return 0, fmt.Errorf("reserve %s ids: %w", c.name, err)
	}
	return last - n + 1, nil
}

func (c collection) set(ctx context.Context, id int64, record any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.name, err)
	}
	if err := c.client.HSet(ctx, c.key(), field(id), b).Err(); err != nil {
		return fmt.Errorf("write %s: %w", c.name, err)
	}
	return nil
}

func (c collection) get(ctx context.Context, id int64, dst any) error {
	b, err := c.client.HGet(ctx, c.key(), field(id)).Bytes()
	if err == redis.Nil {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", c.name, err)
	}
	return json.Unmarshal(b, dst)
}

// getAllRaw returns every record in the collection as raw JSON.
func (c collection) getAllRaw(ctx context.Context) ([]string, error) {
	vals, err := c.client.HVals(ctx, c.key()).Result()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", c.name, err)
	}
	return vals, nil
}

// delete removes a record. Deleting an absent id is a no-op.
func (c collection) delete(ctx context.Context, id int64) error {
	if err := c.client.HDel(ctx, c.key(), field(id)).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", c.name, err)
	}
	return nil
}
