package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
)

// NewClient 创建Redis客户端
// 设计说明：
// 1. redis.enabled=false时返回(nil, nil)，调用方改用本地实现
// 2. 配置连接池参数（PoolSize、MinIdleConns）和超时参数
// 3. 启动时Ping，连接失败直接报错
func NewClient(cfg *config.Config, log *logger.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis未启用，使用进程内缓存与黑名单")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	timeout := cfg.Redis.DialTimeout + cfg.Redis.ReadTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	log.Info("Redis连接成功", "addr", cfg.Redis.Addr())
	return client, nil
}
