package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"printhub/internal/models"
)

// CacheService wraps Redis with JSON serialization and key conventions.
// Shops are the hot entity here: every pricing pass reads the shop's price
// table, so shop lookups are served from cache where possible.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{client: client, ttl: defaultTTL}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) Close() error {
	return s.client.Close()
}

func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Shop caching

func (s *CacheService) CacheShop(ctx context.Context, shop *models.Shop) error {
	if shop == nil {
		return fmt.Errorf("cannot cache nil shop")
	}
	return s.Set(ctx, s.GenerateKey("shop", "id", shop.ID), shop)
}

func (s *CacheService) GetShop(ctx context.Context, id uuid.UUID) (*models.Shop, bool) {
	var shop models.Shop
	found, err := s.Get(ctx, s.GenerateKey("shop", "id", id), &shop)
	if err != nil || !found {
		return nil, false
	}
	return &shop, true
}

func (s *CacheService) InvalidateShop(ctx context.Context, id uuid.UUID) error {
	return s.Delete(ctx, s.GenerateKey("shop", "id", id))
}

// Order caching

func (s *CacheService) CacheOrder(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("cannot cache nil order")
	}
	return s.SetWithTTL(ctx, s.GenerateKey("order", "id", order.ID), order, 10*time.Minute)
}

func (s *CacheService) GetOrder(ctx context.Context, id uint) (*models.Order, bool) {
	var order models.Order
	found, err := s.Get(ctx, s.GenerateKey("order", "id", id), &order)
	if err != nil || !found {
		return nil, false
	}
	return &order, true
}

func (s *CacheService) InvalidateOrder(ctx context.Context, id uint) error {
	return s.Delete(ctx, s.GenerateKey("order", "id", id))
}
