package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jupiterclapton/plume/internal/core/domain"
	"github.com/jupiterclapton/plume/internal/core/ports"
)

const homeKeyPattern = "pagecache:home:*"

// RedisPageCache met en cache les pages du feed d'accueil, sérialisées en
// JSON, une clé par numéro de page. Le TTL borne la fraîcheur ; l'arrivée
// d'un event post.* purge tout de suite.
type RedisPageCache struct {
	client *redis.Client
}

func NewRedisPageCache(client *redis.Client) *RedisPageCache {
	return &RedisPageCache{client: client}
}

var _ ports.PageCache = (*RedisPageCache)(nil)

func (c *RedisPageCache) GetHomePage(ctx context.Context, page int) (*domain.PostPage, bool) {
	data, err := c.client.Get(ctx, homeKey(page)).Bytes()
	if err != nil {
		// redis.Nil = cache miss, tout autre cas = on sert depuis la DB.
		return nil, false
	}

	var p domain.PostPage
	if err := json.Unmarshal(data, &p); err != nil {
		slog.Warn("⚠️ Corrupted cache entry, dropping", "page", page, "error", err)
		_ = c.client.Del(ctx, homeKey(page)).Err()
		return nil, false
	}
	return &p, true
}

func (c *RedisPageCache) SetHomePage(ctx context.Context, p *domain.PostPage, ttl time.Duration) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	// Best effort : un échec d'écriture cache ne doit jamais dégrader la lecture.
	if err := c.client.Set(ctx, homeKey(p.Number), data, ttl).Err(); err != nil {
		slog.Warn("⚠️ Failed to cache home page", "page", p.Number, "error", err)
	}
}

func (c *RedisPageCache) InvalidateHome(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, homeKeyPattern, 0).Iterator()
	keys := []string{}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func homeKey(page int) string {
	return fmt.Sprintf("pagecache:home:%d", page)
}
