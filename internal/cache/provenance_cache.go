package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ProvenanceCache maps a player name to the ID of that player's latest match
type ProvenanceCache interface {
	GetLatest(ctx context.Context, name string) (string, error)
	SetLatest(ctx context.Context, name, matchID string) error
}

type provenanceCache struct {
	client *redis.Client
	prefix string
}

// NewProvenanceCache creates a new provenance cache
func NewProvenanceCache(client *redis.Client, prefix string) ProvenanceCache {
	return &provenanceCache{
		client: client,
		prefix: prefix,
	}
}

func (c *provenanceCache) key(name string) string {
	return fmt.Sprintf("%s:latest:%s", c.prefix, name)
}

// GetLatest returns "" when nothing is indexed for name
func (c *provenanceCache) GetLatest(ctx context.Context, name string) (string, error) {
	id, err := c.client.Get(ctx, c.key(name)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *provenanceCache) SetLatest(ctx context.Context, name, matchID string) error {
	return c.client.Set(ctx, c.key(name), matchID, 0).Err()
}
