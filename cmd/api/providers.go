package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/database"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/jwt"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

// App 组装完成的应用
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Cache   redis.ListingCache
	Engine  *gin.Engine
}

// provideDB 数据库连接，cleanup关闭连接池
func provideDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("关闭数据库连接失败", "error", err)
			}
		}
	}
	return db, cleanup, nil
}

// provideRedisClient redis.enabled=false时client为nil
func provideRedisClient(cfg *config.Config, log *logger.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if client != nil {
			_ = client.Close()
		}
	}
	return client, cleanup, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideListingCache 热门榜缓存，TTL取catalog.popular_cache_ttl
func provideListingCache(cfg *config.Config, client *goredis.Client) redis.ListingCache {
	return redis.NewListingCache(client, cfg.Catalog.PopularCacheTTL)
}
