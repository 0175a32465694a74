package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a thread-safe in-process key-value store with TTLs and tags.
type Cache struct {
	m sync.Map
	// tagIndex maps tag string to a set of keys (*sync.Map of key -> struct{})
	tagIndex sync.Map
}

var (
	once     sync.Once
	instance *Cache
)

func GetInstance() *Cache {
	once.Do(func() {
		instance = NewCache()
	})
	return instance
}

func NewCache() *Cache {
	return &Cache{}
}

type cacheItem struct {
	Value     any
	ExpiresAt int64 // Unix nanoseconds; 0 means no expiration
}

// Set stores a value with an optional TTL in seconds (0 never expires) and optional tags.
func (c *Cache) Set(key, value any, ttl int64, tags []string) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(time.Duration(ttl) * time.Second).UnixNano()
	}
	c.m.Store(key, cacheItem{Value: value, ExpiresAt: expiresAt})
	if len(tags) > 0 {
		c.TagKey(key, tags)
	}
}

// Get returns (value, true) if found and not expired.
func (c *Cache) Get(key any) (any, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		return nil, false
	}
	item := v.(cacheItem)
	if item.ExpiresAt > 0 && time.Now().UnixNano() > item.ExpiresAt {
		c.Delete(key)
		return nil, false
	}
	return item.Value, true
}

func (c *Cache) GetOrDefault(key, defaultValue any) any {
	if v, ok := c.Get(key); ok {
		return v
	}
	return defaultValue
}

// Delete removes a key and its tag memberships.
func (c *Cache) Delete(key any) {
	c.m.Delete(key)
	c.tagIndex.Range(func(_, val any) bool {
		val.(*sync.Map).Delete(key)
		return true
	})
}

func (c *Cache) DeleteMany(keys ...any) {
	for _, key := range keys {
		c.Delete(key)
	}
}

func makeCompositeKey(keys ...any) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "|")
}

// SetN stores a value under a composite key.
func (c *Cache) SetN(keys []any, value any, ttl int64, tags []string) {
	c.Set(makeCompositeKey(keys...), value, ttl, tags)
}

func (c *Cache) GetN(keys ...any) (any, bool) {
	return c.Get(makeCompositeKey(keys...))
}

func (c *Cache) DeleteN(keys ...any) {
	c.Delete(makeCompositeKey(keys...))
}

func (c *Cache) TagKey(key any, tags []string) {
	for _, tag := range tags {
		val, _ := c.tagIndex.LoadOrStore(tag, &sync.Map{})
		val.(*sync.Map).Store(key, struct{}{})
	}
}

func (c *Cache) GetKeysByTag(tag string) []any {
	var keys []any
	if val, ok := c.tagIndex.Load(tag); ok {
		val.(*sync.Map).Range(func(key, _ any) bool {
			keys = append(keys, key)
			return true
		})
	}
	return keys
}

// DeleteByTag deletes all entries assigned to tag.
func (c *Cache) DeleteByTag(tag string) {
	for _, key := range c.GetKeysByTag(tag) {
		c.Delete(key)
	}
	c.tagIndex.Delete(tag)
}

// Len counts live entries.
func (c *Cache) Len() int {
	n := 0
	c.m.Range(func(_, v any) bool {
		item := v.(cacheItem)
		if item.ExpiresAt == 0 || time.Now().UnixNano() <= item.ExpiresAt {
			n++
		}
		return true
	})
	return n
}
