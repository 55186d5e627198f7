// Package storage 对象存储与远程图片下载
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

// Store 对象存储
// Put 同key覆盖写入；URL 返回公开访问地址
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewStore 按storage.driver创建存储，并包上熔断器
func NewStore(ctx context.Context, cfg *config.Config, log *logger.Logger, m *metrics.Metrics) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Storage.Driver {
	case config.StorageS3:
		store, err = NewS3Store(ctx, cfg.Storage)
	case config.StorageLocal, "":
		store, err = NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	default:
		return nil, fmt.Errorf("不支持的存储驱动: %s", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info("对象存储已初始化", "driver", cfg.Storage.Driver)
	return NewGuardedStore(store, newBreaker("blob-store", nil, log, m), m), nil
}

// joinURL base与key之间只保留一个斜杠
func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
