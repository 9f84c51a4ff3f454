package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"kickerledger/internal/rating"
)

// Store backends
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
)

// Config holds the runtime settings of every kicker binary
type Config struct {
	Backend       string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPrefix   string
	HTTPPort      string
	KFactor       float64

	// ProvenanceCache keeps a Redis index of each player's latest match
	// instead of scanning all matches per lookup
	ProvenanceCache bool

	LogFile string
}

// Load reads .env (if present) and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Backend:       strings.ToLower(getEnv("STORE_BACKEND", BackendMongo)),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "kicker"),
		RedisAddr:     strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		RedisPrefix:   getEnv("REDIS_PREFIX", "kicker"),
		HTTPPort:      getEnv("PORT", "8080"),
		KFactor:       rating.DefaultK,
		LogFile:       getEnv("KICKER_LOG_FILE", "kicker.log"),
	}

	switch cfg.Backend {
	case BackendMemory, BackendMongo, BackendRedis:
	default:
		return nil, fmt.Errorf("config: unknown STORE_BACKEND %q", cfg.Backend)
	}

	if v := os.Getenv("KICKER_K_FACTOR"); v != "" {
		k, err := strconv.ParseFloat(v, 64)
		if err != nil || k <= 0 {
			return nil, fmt.Errorf("config: KICKER_K_FACTOR must be a positive number, got %q", v)
		}
		cfg.KFactor = k
	}

	if v := os.Getenv("KICKER_PROVENANCE_CACHE"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("config: KICKER_PROVENANCE_CACHE: %w", err)
		}
		cfg.ProvenanceCache = on
	}

	return cfg, nil
}

// NeedsRedis reports whether any component talks to Redis
func (c *Config) NeedsRedis() bool {
	return c.Backend == BackendRedis || c.ProvenanceCache
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
