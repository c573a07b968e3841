package config

import (
    "context"
    "crypto/tls"
    "log"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient builds the Redis client behind the rate limiters and the
// response cache.  Supported variables:
//   REDIS_URL – redis:// or rediss:// URL, wins over everything else
//   REDIS_HOST and REDIS_PORT, or REDIS_ADDR – server address (default localhost:6379)
//   REDIS_PASSWORD, REDIS_DB, REDIS_TLS
// It returns nil when Redis is disabled (REDIS_ENABLED=false) or unreachable;
// callers then run without caching and rate limiting.
func NewRedisClient() *redis.Client {
    if !envBool("REDIS_ENABLED", true) {
        return nil
    }
    opts, err := redisOptions()
    if err != nil {
        log.Printf("redis: %v; continuing without redis", err)
        return nil
    }
    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("redis: ping %s failed: %v; continuing without redis", opts.Addr, err)
        _ = client.Close()
        return nil
    }
    return client
}

func redisOptions() (*redis.Options, error) {
    if u := envStr("REDIS_URL", ""); u != "" {
        return redis.ParseURL(u)
    }
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
        addr = host + ":" + port
    }
    opts := &redis.Options{
        Addr:     addr,
        Password: envStr("REDIS_PASSWORD", ""),
        DB:       envInt("REDIS_DB", 0),
    }
    if envBool("REDIS_TLS", false) {
        opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    return opts, nil
}
