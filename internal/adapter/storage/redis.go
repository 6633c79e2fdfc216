package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/ecommerce-core/internal/core/domain"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

// reserveStockScript decrements the mirrored counter only when enough stock
// remains, in one atomic round trip. A missing key reports insufficient
// rather than reserving blind.
var reserveStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current >= quantity then
	redis.call('DECRBY', key, quantity)
	return 1
end

return 0
`)

// RedisCache mirrors product stock counters and records idempotency keys.
// It is a presentation-side guard, not the source of truth: MySQL holds the
// authoritative stock.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func stockKey(productID domain.ProductID) string {
	return fmt.Sprintf("%s%d", stockKeyPrefix, productID.Int64())
}

func (r *RedisCache) SetStock(ctx context.Context, productID domain.ProductID, quantity int) error {
	return r.client.Set(ctx, stockKey(productID), quantity, 0).Err()
}

func (r *RedisCache) ReserveStock(ctx context.Context, productID domain.ProductID, quantity int) (bool, error) {
	result, err := reserveStockScript.Run(ctx, r.client, []string{stockKey(productID)}, quantity).Int()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

func (r *RedisCache) ReleaseStock(ctx context.Context, productID domain.ProductID, quantity int) error {
	return r.client.IncrBy(ctx, stockKey(productID), int64(quantity)).Err()
}

func (r *RedisCache) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
