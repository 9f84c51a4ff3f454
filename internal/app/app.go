package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kickerledger/internal/cache"
	"kickerledger/internal/config"
	"kickerledger/internal/repository"
	"kickerledger/internal/service"
)

// App holds the wired services shared by every binary
type App struct {
	Registry *service.UserRegistry
	Ledger   *service.MatchLedger
	Query    *service.QueryService

	closers []func(context.Context) error
}

// New connects the configured backends and wires the services on top
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	var rdb *redis.Client
	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to ping Redis: %w", err)
		}
		log.Println("Connected to Redis")
	}

	var store repository.Store
	switch cfg.Backend {
	case config.BackendMemory:
		store = repository.NewMemoryStore()
		log.Println("Using in-memory store; nothing survives a restart")
	case config.BackendRedis:
		store = repository.NewRedisStore(rdb, cfg.RedisPrefix)
	case config.BackendMongo:
		db, err := a.connectMongo(ctx, cfg)
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		store = repository.NewMongoStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	var provenance service.ProvenanceIndex = service.NewScanProvenance(store.Matches)
	if cfg.ProvenanceCache {
		provenance = service.NewIndexedProvenance(store.Matches, cache.NewProvenanceCache(rdb, cfg.RedisPrefix))
		log.Println("Provenance index cached in Redis")
	}

	a.Registry = service.NewUserRegistry(store.Users)
	a.Ledger = service.NewMatchLedger(a.Registry, store.Matches, store.Batch, provenance, cfg.KFactor)
	a.Query = service.NewQueryService(store.Users, store.Matches)
	return a, nil
}

func (a *App) connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.closers = append(a.closers, client.Disconnect)

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Connected to MongoDB")

	return client.Database(cfg.MongoDatabase), nil
}

// Close releases every backend connection, newest first
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("close: %v", err)
		}
	}
	a.closers = nil
}
