package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"economy/internal/model"
)

const (
	topPrefix     = "economy:top:"
	generationKey = topPrefix + "gen"
)

// Leaderboard caches leaderboard pages in Redis.
//
// Pages live under a generation number. Invalidate bumps the generation, so
// every page written before it becomes unreachable at once and expires on
// its own TTL. Set stores a page under the generation seen by Get; a write in
// between has bumped the counter, so such a page lands where nobody reads.
type Leaderboard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLeaderboard(rdb *redis.Client, ttl time.Duration) *Leaderboard {
	return &Leaderboard{rdb: rdb, ttl: ttl}
}

func (c *Leaderboard) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *Leaderboard) key(gen int64, limit, offset int) string {
	return topPrefix + strconv.FormatInt(gen, 10) + ":" + strconv.Itoa(limit) + ":" + strconv.Itoa(offset)
}

// Get returns the cached page and the generation it looked under. On a miss
// the caller passes that generation back to Set.
func (c *Leaderboard) Get(ctx context.Context, limit, offset int) ([]model.TopEntry, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	val, err := c.rdb.Get(ctx, c.key(gen, limit, offset)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}
	var entries []model.TopEntry
	if err := json.Unmarshal(val, &entries); err != nil {
		return nil, gen, false, err
	}
	return entries, gen, true, nil
}

func (c *Leaderboard) Set(ctx context.Context, gen int64, limit, offset int, entries []model.TopEntry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(gen, limit, offset), b, c.ttl).Err()
}

func (c *Leaderboard) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, generationKey).Err()
}
