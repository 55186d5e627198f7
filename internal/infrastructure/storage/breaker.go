package storage

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/pkg/circuitbreaker"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

// ErrStorageUnavailable 熔断打开时快速失败
var ErrStorageUnavailable = apperrors.New(apperrors.ErrCodeStoreUnavailable, "Image storage is temporarily unavailable")

// newBreaker 创建熔断器：连续失败5次熔断30秒，状态变化记日志和指标
func newBreaker(name string, isSuccessful func(error) bool, log *logger.Logger, m *metrics.Metrics) *circuitbreaker.CircuitBreaker {
	cb := circuitbreaker.NewCircuitBreaker(name, circuitbreaker.Config{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		IsSuccessful: isSuccessful,
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化", "name", name, "from", from.String(), "to", to.String())
		if m != nil {
			m.BreakerState(name, int(to))
		}
	})
	return cb
}

// execute 经过熔断器执行fn并记录结果
func execute(cb *circuitbreaker.CircuitBreaker, m *metrics.Metrics, fn func() error) error {
	err := cb.Execute(fn)
	if m != nil {
		switch {
		case errors.Is(err, circuitbreaker.ErrOpenState):
			m.BreakerRequest(cb.Name(), "rejected")
		case err != nil:
			m.BreakerRequest(cb.Name(), "failure")
		default:
			m.BreakerRequest(cb.Name(), "success")
		}
	}
	if errors.Is(err, circuitbreaker.ErrOpenState) {
		return ErrStorageUnavailable.WithCause(err)
	}
	return err
}

// GuardedStore 带熔断的Store
type GuardedStore struct {
	Store
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// NewGuardedStore 包装store
func NewGuardedStore(store Store, cb *circuitbreaker.CircuitBreaker, m *metrics.Metrics) *GuardedStore {
	return &GuardedStore{Store: store, cb: cb, metrics: m}
}

func (s *GuardedStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	return execute(s.cb, s.metrics, func() error {
		return s.Store.Put(ctx, key, contentType, data)
	})
}

func (s *GuardedStore) Delete(ctx context.Context, key string) error {
	return execute(s.cb, s.metrics, func() error {
		return s.Store.Delete(ctx, key)
	})
}

// GuardedFetcher 带熔断的图片下载器
type GuardedFetcher struct {
	fetcher textbook.ImageFetcher
	cb      *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// NewGuardedFetcher 包装fetcher
func NewGuardedFetcher(fetcher textbook.ImageFetcher, cb *circuitbreaker.CircuitBreaker, m *metrics.Metrics) *GuardedFetcher {
	return &GuardedFetcher{fetcher: fetcher, cb: cb, metrics: m}
}

func (f *GuardedFetcher) Fetch(ctx context.Context, url string) (*textbook.Image, error) {
	var img *textbook.Image
	err := execute(f.cb, f.metrics, func() error {
		var err error
		img, err = f.fetcher.Fetch(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// isFetchSuccessful 只有网络层失败计入熔断；对方返回404、图片过大属于调用方问题
func isFetchSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var te *transportError
	return !errors.As(err, &te)
}
