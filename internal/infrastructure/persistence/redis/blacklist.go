package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// TokenBlacklist 已登出Token的黑名单
// JWT是无状态的，服务端只能通过黑名单让Token提前失效
type TokenBlacklist interface {
	// Revoke 加入黑名单，ttl取Token剩余有效期，过期后自动删除
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	// IsRevoked 判断Token是否已被吊销
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// blacklistKey Key设计：blacklist:{token}
func blacklistKey(token string) string {
	return "blacklist:" + token
}

type redisBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist client为nil（Redis未启用）时使用进程内实现
func NewTokenBlacklist(client *redis.Client) TokenBlacklist {
	if client == nil {
		return NewLocalBlacklist()
	}
	return &redisBlacklist{client: client}
}

func (b *redisBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	return nil
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := b.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.ErrCacheError.WithCause(err)
	}
	return exists > 0, nil
}

// LocalBlacklist 进程内黑名单，单实例部署或测试使用
type LocalBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewLocalBlacklist 创建进程内黑名单
func NewLocalBlacklist() *LocalBlacklist {
	return &LocalBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (b *LocalBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	// 顺带清理过期项
	for k, exp := range b.entries {
		if !exp.After(now) {
			delete(b.entries, k)
		}
	}
	b.entries[token] = now.Add(ttl)
	return nil
}

func (b *LocalBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[token]
	if !ok {
		return false, nil
	}
	if !exp.After(b.now()) {
		delete(b.entries, token)
		return false, nil
	}
	return true, nil
}
