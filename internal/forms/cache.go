package forms

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

const (
	publicCachePrefix = "form:public:"
	publicCacheTTL    = 5 * time.Minute
)

// PublicCache caches public form documents in Redis for the shared-link
// endpoint. A cache failure is never fatal; callers fall through to the
// database.
type PublicCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPublicCache creates a cache over the given Redis client. A nil client
// disables caching.
func NewPublicCache(client *redis.Client, logger *zap.Logger) *PublicCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicCache{client: client, logger: logger}
}

// Get returns the cached document for id, or nil on miss.
func (c *PublicCache) Get(ctx context.Context, id string) *models.FormDocument {
	if c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, publicCachePrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("public form cache get", zap.Error(err))
		}
		return nil
	}
	var doc models.FormDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return &doc
}

// Set stores the document under its id.
func (c *PublicCache) Set(ctx context.Context, doc *models.FormDocument) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, publicCachePrefix+doc.ID.String(), raw, publicCacheTTL).Err(); err != nil {
		c.logger.Warn("public form cache set", zap.Error(err))
	}
}

// Invalidate drops the cached entry for id (after save or delete).
func (c *PublicCache) Invalidate(ctx context.Context, id string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, publicCachePrefix+id).Err(); err != nil {
		c.logger.Warn("public form cache invalidate", zap.Error(err))
	}
}
