package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmunteanu/shop-orders/internal/models"
)

const keyProduct = "product:%d"

var TTLProduct = 5 * time.Minute

// ProductCache is a read-through cache for product point reads. A nil
// receiver or nil client disables it, so the server and tests run without
// Redis.
type ProductCache struct {
	rdb *redis.Client
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{rdb: rdb}
}

func (p *ProductCache) Get(ctx context.Context, id uint) (*models.Product, bool) {
	if p == nil || p.rdb == nil {
		return nil, false
	}
	raw, err := p.rdb.Get(ctx, fmt.Sprintf(keyProduct, id)).Result()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal([]byte(raw), &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (p *ProductCache) Set(ctx context.Context, product *models.Product) {
	if p == nil || p.rdb == nil {
		return
	}
	if data, err := json.Marshal(product); err == nil {
		p.rdb.Set(ctx, fmt.Sprintf(keyProduct, product.ID), data, TTLProduct)
	}
}

func (p *ProductCache) Invalidate(ctx context.Context, id uint) {
	if p == nil || p.rdb == nil {
		return
	}
	p.rdb.Del(ctx, fmt.Sprintf(keyProduct, id))
}
