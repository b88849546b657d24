// Package cache provides the dashboard stats caches and the Redis-backed
// closure lock.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bizdesk/internal/core/id"
	"bizdesk/internal/domain/dashboard"
)

const dashboardPrefix = "dashboard:"

// NewRedisClient connects to the server described by url and pings it.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// DashboardCache keeps one hash per owner, one field per calendar day.
// Deleting the hash drops every day at once. A sibling counter key holds the
// owner's generation; Set checks it under WATCH.
type DashboardCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

var _ dashboard.Cache = (*DashboardCache)(nil)

// generationTTL outlives any single stats computation by far.
const generationTTL = 24 * time.Hour

var errStaleGeneration = errors.New("stale generation")

// NewDashboardCache creates a Redis cache whose entries expire after ttl.
func NewDashboardCache(client redis.UniversalClient, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

func dashboardKey(ownerID id.ID) string {
	return dashboardPrefix + ownerID.String()
}

func generationKey(ownerID id.ID) string {
	return dashboardKey(ownerID) + ":gen"
}

func readGeneration(cmd *redis.StringCmd) (int64, error) {
	gen, err := cmd.Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns nil stats when nothing is cached for the day.
func (c *DashboardCache) Get(ctx context.Context, ownerID id.ID, day string) (*dashboard.Stats, int64, error) {
	var (
		hget *redis.StringCmd
		gget *redis.StringCmd
	)
	// per-command errors are checked below; redis.Nil is a miss
	_, _ = c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		hget = pipe.HGet(ctx, dashboardKey(ownerID), day)
		gget = pipe.Get(ctx, generationKey(ownerID))
		return nil
	})

	gen, err := readGeneration(gget)
	if err != nil {
		return nil, 0, fmt.Errorf("redis get generation: %w", err)
	}
	raw, err := hget.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis hget: %w", err)
	}
	var st dashboard.Stats
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, 0, fmt.Errorf("decode cached stats: %w", err)
	}
	return &st, gen, nil
}

// Set stores st for the day and resets the hash expiry, unless the owner's
// generation moved past gen.
func (c *DashboardCache) Set(ctx context.Context, ownerID id.ID, day string, gen int64, st dashboard.Stats) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	key, gk := dashboardKey(ownerID), generationKey(ownerID)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := readGeneration(tx.Get(ctx, gk))
		if err != nil {
			return err
		}
		if cur != gen {
			return errStaleGeneration
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, day, raw)
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		return nil
	case err != nil:
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Delete drops all cached days of the owner and advances its generation.
func (c *DashboardCache) Delete(ctx context.Context, ownerID id.ID) error {
	gk := generationKey(ownerID)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, dashboardKey(ownerID))
		pipe.Incr(ctx, gk)
		pipe.Expire(ctx, gk, generationTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
