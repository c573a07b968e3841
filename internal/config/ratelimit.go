package config

import "time"

// RateLimitConfig drives one Redis token bucket.  KeyStrategy selects what a
// bucket is keyed on: "ip", "admin", "route", "ip_admin_route" or the
// default "ip_route".
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int           // burst size
    RefillTokens   int           // tokens added every RefillInterval
    RefillInterval time.Duration
    TTL            time.Duration // idle buckets expire after this
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the general API limiter (RATE_LIMIT_*).
func LoadRateLimitConfig() RateLimitConfig {
    return loadRateLimit("RATE_LIMIT", RateLimitConfig{
        Capacity:       60,
        RefillTokens:   1,
        RefillInterval: time.Second,
        TTL:            10 * time.Minute,
        KeyStrategy:    "ip_route",
        Prefix:         "glamping:rl",
    })
}

// LoadBookingRateLimitConfig reads the stricter limiter on guest booking
// creation (BOOKING_RATE_LIMIT_*): 5 requests, one more every 2 minutes.
func LoadBookingRateLimitConfig() RateLimitConfig {
    return loadRateLimit("BOOKING_RATE_LIMIT", RateLimitConfig{
        Capacity:       5,
        RefillTokens:   1,
        RefillInterval: 2 * time.Minute,
        TTL:            30 * time.Minute,
        KeyStrategy:    "ip",
        Prefix:         "glamping:rl:booking",
    })
}

// loadRateLimit overlays <prefix>_* variables on d and clamps the result so
// a bucket always holds a token and outlives a few refills.
func loadRateLimit(prefix string, d RateLimitConfig) RateLimitConfig {
    c := RateLimitConfig{
        Enabled:        envBool(prefix+"_ENABLED", true),
        Capacity:       max(envInt(prefix+"_CAPACITY", d.Capacity), 1),
        RefillTokens:   max(envInt(prefix+"_REFILL_TOKENS", d.RefillTokens), 1),
        RefillInterval: envDur(prefix+"_REFILL_INTERVAL", d.RefillInterval),
        TTL:            envDur(prefix+"_TTL", d.TTL),
        KeyStrategy:    envStr(prefix+"_KEY_STRATEGY", d.KeyStrategy),
        Prefix:         envStr(prefix+"_PREFIX", d.Prefix),
        Debug:          envBool(prefix+"_DEBUG", false),
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    c.TTL = max(c.TTL, 5*c.RefillInterval)
    return c
}
