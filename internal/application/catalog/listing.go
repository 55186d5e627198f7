package catalog

import (
	"context"
	"strings"

	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/isbn"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

// PopularTextbooksUseCase 全站热门教材
// 排序：平均分降序（无评价排最后）→ 评价数降序 → 关联ID升序
// 结果按limit缓存（cache-aside），写评价/加教材时失效
type PopularTextbooksUseCase struct {
	listings     textbook.ListingRepository
	cache        redis.ListingCache
	urls         URLResolver
	defaultLimit int
	maxLimit     int
	metrics      *metrics.Metrics
	log          *logger.Logger
}

// NewPopularTextbooksUseCase 创建热门教材用例
func NewPopularTextbooksUseCase(
	cfg *config.Config,
	listings textbook.ListingRepository,
	cache redis.ListingCache,
	urls URLResolver,
	m *metrics.Metrics,
	log *logger.Logger,
) *PopularTextbooksUseCase {
	return &PopularTextbooksUseCase{
		listings:     listings,
		cache:        cache,
		urls:         urls,
		defaultLimit: cfg.Catalog.PopularLimit,
		maxLimit:     cfg.Catalog.SearchLimit,
		metrics:      m,
		log:          log,
	}
}

// Execute 执行查询
// limit<=0时取默认值，超过上限时截断
func (uc *PopularTextbooksUseCase) Execute(ctx context.Context, req PopularTextbooksRequest) (resp *ListingsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.PopularTextbooks")
	defer func() { tracing.End(span, err) }()

	limit := req.Limit
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > uc.maxLimit {
		limit = uc.maxLimit
	}

	// 1. 先读缓存，Redis故障时降级为直接查库
	cached, ok, err := uc.cache.GetPopular(ctx, limit)
	switch {
	case err != nil:
		uc.metrics.CacheResult("popular", "error")
		uc.log.Warn("读取热门榜单缓存失败", "error", err)
	case ok:
		uc.metrics.CacheResult("popular", "hit")
		return &ListingsResponse{Textbooks: listingInfos(cached, uc.urls)}, nil
	default:
		uc.metrics.CacheResult("popular", "miss")
	}

	// 2. 查库排序
	all, err := uc.listings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ranked := textbook.RankByRating(all, limit)

	// 3. 回填缓存
	if err := uc.cache.SetPopular(ctx, limit, ranked); err != nil {
		uc.log.Warn("写入热门榜单缓存失败", "error", err)
	}

	return &ListingsResponse{Textbooks: listingInfos(ranked, uc.urls)}, nil
}

// SearchUseCase 按关键字/ISBN搜索课程-教材
// 匹配（忽略大小写的子串）：教材名、作者、课程名、课程代码、ISBN
type SearchUseCase struct {
	listings textbook.ListingRepository
	urls     URLResolver
	limit    int
}

// NewSearchUseCase 创建搜索用例
func NewSearchUseCase(cfg *config.Config, listings textbook.ListingRepository, urls URLResolver) *SearchUseCase {
	return &SearchUseCase{listings: listings, urls: urls, limit: cfg.Catalog.SearchLimit}
}

// Execute 执行搜索
func (uc *SearchUseCase) Execute(ctx context.Context, req SearchRequest) (resp *ListingsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "catalog.Search")
	defer func() { tracing.End(span, err) }()

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return &ListingsResponse{Textbooks: []ListingInfo{}}, nil
	}

	// ISBN只用查询串里的数字和X部分匹配，没有数字时跳过
	matches, err := uc.listings.Search(ctx, textbook.SearchFilter{
		Text: query,
		ISBN: isbn.Fragment(query),
	})
	if err != nil {
		return nil, err
	}

	ranked := textbook.RankByRating(matches, uc.limit)
	return &ListingsResponse{Textbooks: listingInfos(ranked, uc.urls)}, nil
}

// GetTextbooksUseCase 按ID批量查询教材
type GetTextbooksUseCase struct {
	textbookService textbook.Service
	urls            URLResolver
}

// NewGetTextbooksUseCase 创建批量查询用例
func NewGetTextbooksUseCase(textbookService textbook.Service, urls URLResolver) *GetTextbooksUseCase {
	return &GetTextbooksUseCase{textbookService: textbookService, urls: urls}
}

// Execute 执行查询；不存在的ID直接忽略，空列表返回[]
func (uc *GetTextbooksUseCase) Execute(ctx context.Context, req GetTextbooksRequest) (*GetTextbooksResponse, error) {
	textbooks, err := uc.textbookService.GetByIDs(ctx, req.IDs)
	if err != nil {
		return nil, err
	}

	out := make([]TextbookInfo, 0, len(textbooks))
	for _, tb := range textbooks {
		out = append(out, textbookInfo(tb, uc.urls))
	}
	return &GetTextbooksResponse{Textbooks: out}, nil
}

// =========================================
// 应用层DTO
// =========================================

// PopularTextbooksRequest 热门教材请求
type PopularTextbooksRequest struct {
	Limit int
}

// SearchRequest 搜索请求
type SearchRequest struct {
	Query string
}

// ListingsResponse 课程-教材列表响应
type ListingsResponse struct {
	Textbooks []ListingInfo `json:"textbooks"`
}

// GetTextbooksRequest 批量查询请求
type GetTextbooksRequest struct {
	IDs []uint
}

// GetTextbooksResponse 批量查询响应
type GetTextbooksResponse struct {
	Textbooks []TextbookInfo `json:"textbooks"`
}
