package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/coursebook/internal/domain/textbook"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// ListingCache 热门教材榜单缓存（Cache-Aside）
// 读：先查缓存，未命中再查库并回填
// 写：评价变更、教材新增后Invalidate
type ListingCache interface {
	// GetPopular 命中返回(listings, true, nil)
	GetPopular(ctx context.Context, limit int) ([]*textbook.Listing, bool, error)
	SetPopular(ctx context.Context, limit int, listings []*textbook.Listing) error
	// Invalidate 清空所有榜单缓存
	Invalidate(ctx context.Context) error
}

const popularKeyPrefix = "listing:popular:"

// popularKey Key设计：listing:popular:{limit}
func popularKey(limit int) string {
	return fmt.Sprintf("%s%d", popularKeyPrefix, limit)
}

type redisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache client为nil（Redis未启用）时使用进程内实现
func NewListingCache(client *redis.Client, ttl time.Duration) ListingCache {
	if client == nil {
		return NewLocalListingCache(ttl)
	}
	return &redisListingCache{client: client, ttl: ttl}
}

func (c *redisListingCache) GetPopular(ctx context.Context, limit int) ([]*textbook.Listing, bool, error) {
	data, err := c.client.Get(ctx, popularKey(limit)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, apperrors.ErrCacheError.WithCause(err)
	}

	var listings []*textbook.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		// 格式变化后的旧数据按未命中处理
		return nil, false, nil
	}
	return listings, true, nil
}

func (c *redisListingCache) SetPopular(ctx context.Context, limit int, listings []*textbook.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	if err := c.client.Set(ctx, popularKey(limit), data, c.ttl).Err(); err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	return nil
}

// Invalidate 用SCAN代替KEYS，避免阻塞Redis
func (c *redisListingCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, popularKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	return nil
}

type cachedListings struct {
	listings  []*textbook.Listing
	expiresAt time.Time
}

// LocalListingCache 进程内榜单缓存
type LocalListingCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[int]cachedListings
	now     func() time.Time
}

// NewLocalListingCache 创建进程内榜单缓存
func NewLocalListingCache(ttl time.Duration) *LocalListingCache {
	return &LocalListingCache{
		ttl:     ttl,
		entries: make(map[int]cachedListings),
		now:     time.Now,
	}
}

func (c *LocalListingCache) GetPopular(_ context.Context, limit int) ([]*textbook.Listing, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[limit]
	if !ok || !entry.expiresAt.After(c.now()) {
		return nil, false, nil
	}
	return entry.listings, true, nil
}

func (c *LocalListingCache) SetPopular(_ context.Context, limit int, listings []*textbook.Listing) error {
	if c.ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[limit] = cachedListings{listings: listings, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *LocalListingCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]cachedListings)
	return nil
}
