package lib

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := os.Getenv("REDIS_HOST")
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

// CacheJSON stores a marshalable value under key with a TTL. Errors are
// logged; a cold cache is never a request failure.
func CacheJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	rd := GetRedisClient()
	if rd == nil {
		return
	}
	body, err := json.Marshal(value)
	if err != nil {
		log.Printf("[redis] Error serializing value for key %s: %s\n", key, err.Error())
		return
	}
	if err := rd.SetEx(ctx, key, string(body), ttl).Err(); err != nil {
		log.Printf("[redis] Error caching value for key %s: %s\n", key, err.Error())
	}
}

// GetCachedJSON loads a cached value into out. Returns false on miss or when
// redis is unavailable.
func GetCachedJSON(ctx context.Context, key string, out any) bool {
	rd := GetRedisClient()
	if rd == nil {
		return false
	}
	val, err := rd.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	} else if err != nil {
		log.Printf("[redis] Error reading key %s: %s\n", key, err.Error())
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		log.Printf("[redis] Error deserializing key %s: %s\n", key, err.Error())
		return false
	}
	return true
}
