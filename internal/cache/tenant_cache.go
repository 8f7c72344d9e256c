package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crm-service/internal/models"
)

// TenantCache caches tenant directory lookups in Redis so the guard
// middleware does not hit the database on every request
type TenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTenantCache creates a tenant cache instance
func NewTenantCache(host string, port int, password string, db int, ttlSeconds int) (*TenantCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Return cache with nil client - will gracefully degrade to no caching
		return &TenantCache{
			client: nil,
			ttl:    time.Duration(ttlSeconds) * time.Second,
		}, nil
	}

	return &TenantCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func (c *TenantCache) cacheKey(tenantID string) string {
	return fmt.Sprintf("tenant:%s", tenantID)
}

// Get retrieves a cached tenant record. A nil result with nil error is a
// cache miss (or cache unavailable).
func (c *TenantCache) Get(ctx context.Context, tenantID string) (*models.Tenant, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.cacheKey(tenantID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tenant models.Tenant
	if err := json.Unmarshal(data, &tenant); err != nil {
		return nil, err
	}

	return &tenant, nil
}

// Set caches a tenant record
func (c *TenantCache) Set(ctx context.Context, tenant *models.Tenant) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.cacheKey(tenant.ID), data, c.ttl).Err()
}

// Invalidate removes a cached tenant record. Called when the onboarding
// system publishes a tenant update.
func (c *TenantCache) Invalidate(ctx context.Context, tenantID string) error {
	if c.client == nil {
		return nil
	}

	return c.client.Del(ctx, c.cacheKey(tenantID)).Err()
}

// Close closes the Redis connection
func (c *TenantCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsAvailable returns true if the cache is available
func (c *TenantCache) IsAvailable() bool {
	return c.client != nil
}
