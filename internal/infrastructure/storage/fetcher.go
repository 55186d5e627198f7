package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

// defaultContentType 远程服务器没有返回Content-Type时按jpeg处理
const defaultContentType = "image/jpeg"

// HTTPFetcher 下载远程图片
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher 创建下载器；maxBytes<=0表示不限制大小
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// NewImageFetcher 按配置创建下载器并包上熔断器
func NewImageFetcher(cfg *config.Config, log *logger.Logger, m *metrics.Metrics) textbook.ImageFetcher {
	fetcher := NewHTTPFetcher(cfg.Storage.FetchTimeout, cfg.Storage.MaxImageBytes)
	return NewGuardedFetcher(fetcher, newBreaker("image-fetch", isFetchSuccessful, log, m), m)
}

// Fetch 只接受http/https地址
// 非2xx状态码、超过大小上限都返回ErrImageFetchFailed
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*textbook.Image, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, textbook.ErrImageFetchFailed.WithMessage("Invalid image URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, textbook.ErrImageFetchFailed.WithCause(err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, textbook.ErrImageFetchFailed.WithCause(&transportError{err: err})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, textbook.ErrImageFetchFailed.WithMessage(fmt.Sprintf("Failed to fetch image: %d", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, textbook.ErrImageFetchFailed.WithCause(&transportError{err: err})
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, textbook.ErrImageTooLarge
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}
	return &textbook.Image{ContentType: contentType, Data: data}, nil
}

// transportError 网络层失败（连接、超时），计入熔断统计
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }
