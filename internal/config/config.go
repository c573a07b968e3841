package config // package config loads application configuration from environment variables

import (
    "log"     // fatal exit on missing or malformed settings
    "os"
    "strconv"
    "strings"
    "time"
)

// Storage drivers accepted in STORAGE_DRIVER.
const (
    StorageMySQL  = "mysql"
    StorageMemory = "memory"
)

// Config is the process-level configuration: HTTP, storage and admin auth.
// Business settings live in BookingConfig and the integrations in their own
// loaders.
type Config struct {
    Env           string // APP_ENV
    Port          string // APP_PORT
    StorageDriver string // STORAGE_DRIVER: mysql (default) or memory

    // MySQL; only read when StorageDriver is mysql.
    DBUser            string
    DBPass            string // may be empty
    DBHost            string
    DBPort            string
    DBName            string
    DBMaxOpenConns    int
    DBConnMaxLifetime time.Duration

    // Admin auth.
    JWTSecret      string
    AccessTTLMin   int
    RefreshTTLDays int
    BcryptCost     int

    ShutdownTimeout time.Duration
}

// Load reads the environment.  A missing required variable or an unknown
// storage driver stops the process.
func Load() Config {
    c := Config{
        Env:             must("APP_ENV"),
        Port:            must("APP_PORT"),
        StorageDriver:   strings.ToLower(envStr("STORAGE_DRIVER", StorageMySQL)),
        JWTSecret:       must("JWT_SECRET"),
        AccessTTLMin:    mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays:  mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:      mustInt("BCRYPT_COST"),
        ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
    }
    switch c.StorageDriver {
    case StorageMySQL:
        c.DBUser = must("DB_USER")
        c.DBPass = os.Getenv("DB_PASS")
        c.DBHost = must("DB_HOST")
        c.DBPort = must("DB_PORT")
        c.DBName = must("DB_NAME")
        c.DBMaxOpenConns = envInt("DB_MAX_OPEN_CONNS", 25)
        c.DBConnMaxLifetime = envDur("DB_CONN_MAX_LIFETIME", 30*time.Minute)
    case StorageMemory:
    default:
        log.Fatalf("invalid STORAGE_DRIVER: %q (want %s or %s)", c.StorageDriver, StorageMySQL, StorageMemory)
    }
    return c
}

// must returns a required variable or exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
