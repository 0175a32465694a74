package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Layered caches JSON values in memory and, when a Redis client is given,
// in Redis as a second tier shared between processes.
type Layered struct {
	mem    *Cache
	rdb    *redis.Client
	prefix string
	log    *zap.SugaredLogger
}

func NewLayered(mem *Cache, rdb *redis.Client, prefix string, log *zap.SugaredLogger) *Layered {
	if mem == nil {
		mem = NewCache()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Layered{mem: mem, rdb: rdb, prefix: prefix, log: log}
}

// Get decodes the cached value of key into dst.
func (l *Layered) Get(ctx context.Context, key string, dst any) bool {
	if v, ok := l.mem.Get(l.prefix + key); ok {
		return json.Unmarshal(v.([]byte), dst) == nil
	}
	if l.rdb == nil {
		return false
	}
	b, err := l.rdb.Get(ctx, l.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			l.log.Warnw("redis get failed", "key", key, "error", err)
		}
		return false
	}
	if json.Unmarshal(b, dst) != nil {
		return false
	}
	l.mem.Set(l.prefix+key, b, 0, nil)
	return true
}

// Set stores v under key for ttl (0 never expires) and tags it.
func (l *Layered) Set(ctx context.Context, key string, v any, ttl time.Duration, tags ...string) {
	b, err := json.Marshal(v)
	if err != nil {
		l.log.Warnw("cache encode failed", "key", key, "error", err)
		return
	}
	full := l.prefix + key
	l.mem.Set(full, b, int64(ttl/time.Second), l.tagKeys(tags))
	if l.rdb == nil {
		return
	}
	pipe := l.rdb.TxPipeline()
	pipe.Set(ctx, full, b, ttl)
	for _, t := range l.tagKeys(tags) {
		pipe.SAdd(ctx, t, full)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Warnw("redis set failed", "key", key, "error", err)
	}
}

// InvalidateTag drops every entry tagged with tag from both tiers.
func (l *Layered) InvalidateTag(ctx context.Context, tag string) {
	tagKey := l.prefix + "tag:" + tag
	l.mem.DeleteByTag(tagKey)
	if l.rdb == nil {
		return
	}
	keys, err := l.rdb.SMembers(ctx, tagKey).Result()
	if err != nil {
		l.log.Warnw("redis tag lookup failed", "tag", tag, "error", err)
		return
	}
	if err := l.rdb.Del(ctx, append(keys, tagKey)...).Err(); err != nil {
		l.log.Warnw("redis invalidate failed", "tag", tag, "error", err)
	}
}

func (l *Layered) tagKeys(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = l.prefix + "tag:" + t
	}
	return out
}
