package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReadSetCache cachea listados por entidad y scope organización/sucursal.
// Las mutaciones lo invalidan vía el executor; los TTL cortos cubren el
// resto.
type ReadSetCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Open valida conectividad con un PING antes de devolver el cliente.
func Open(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:            addr,
		DialTimeout:     3 * time.Second,
		ReadTimeout:     2 * time.Second,
		WriteTimeout:    2 * time.Second,
		PoolSize:        20,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

func New(rdb *redis.Client, ttl time.Duration) *ReadSetCache {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &ReadSetCache{rdb: rdb, ttl: ttl}
}

func key(entity, orgID, branchID string) string {
	if branchID == "" {
		branchID = "*"
	}
	return fmt.Sprintf("reads:%s:%s:%s", entity, orgID, branchID)
}

// GetList devuelve el listado cacheado serializado, si existe.
func (c *ReadSetCache) GetList(ctx context.Context, entity, orgID, branchID string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key(entity, orgID, branchID)).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *ReadSetCache) SetList(ctx context.Context, entity, orgID, branchID string, data []byte) error {
	return c.rdb.Set(ctx, key(entity, orgID, branchID), data, c.ttl).Err()
}

// Invalidate borra el listado de la sucursal y el agregado de la
// organización, que también quedó viejo.
func (c *ReadSetCache) Invalidate(ctx context.Context, entity, orgID, branchID string) error {
	keys := []string{key(entity, orgID, branchID)}
	if branchID != "" {
		keys = append(keys, key(entity, orgID, ""))
	}
	return c.rdb.Del(ctx, keys...).Err()
}
