package review

import (
	"context"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

// SubmitReviewUseCase 发表评价
// 设计说明：
// 1. 课程-教材关联必须存在
// 2. 评分校验、一人一评都在领域服务里
// 3. 写成功后清空热门榜单缓存、发布review.created
type SubmitReviewUseCase struct {
	reviewService   review.Service
	textbookService textbook.Service
	notifier        *notifier
}

// NewSubmitReviewUseCase 创建发表评价用例
func NewSubmitReviewUseCase(
	reviewService review.Service,
	textbookService textbook.Service,
	cache redis.ListingCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		reviewService:   reviewService,
		textbookService: textbookService,
		notifier:        newNotifier(cache, publisher, m, log),
	}
}

// Execute 执行发表
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, req SubmitReviewRequest) (resp *SubmitReviewResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "review.Submit")
	defer func() { tracing.End(span, err) }()

	if req.UserID == 0 {
		return nil, review.ErrNotAuthenticated
	}

	// 1. 校验关联存在
	if _, err := uc.textbookService.GetLink(ctx, req.CourseTextbookID); err != nil {
		return nil, err
	}

	// 2. 写入
	r, err := uc.reviewService.Create(ctx, req.UserID, req.CourseTextbookID, req.Rating, req.Text, req.IsAnonymous)
	if err != nil {
		return nil, err
	}

	// 3. 通知
	uc.notifier.reviewChanged(ctx, events.ReviewCreated, "created", r)

	return &SubmitReviewResponse{ID: r.ID}, nil
}

// notifier 评价写操作之后的副作用：指标、缓存失效、事件
// 都是尽力而为，失败只记日志
type notifier struct {
	cache     redis.ListingCache
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
}

func newNotifier(cache redis.ListingCache, publisher events.Publisher, m *metrics.Metrics, log *logger.Logger) *notifier {
	return &notifier{cache: cache, publisher: publisher, metrics: m, log: log}
}

func (n *notifier) reviewChanged(ctx context.Context, eventType, action string, r *review.Review) {
	n.metrics.ReviewsTotal.WithLabelValues(action).Inc()

	if err := n.cache.Invalidate(ctx); err != nil {
		n.log.Warn("清空热门榜单缓存失败", "review_id", r.ID, "error", err)
	}

	n.publisher.Publish(ctx, events.Event{
		Type:             eventType,
		CourseTextbookID: r.CourseTextbookID,
		ReviewID:         r.ID,
		UserID:           r.UserID,
		Rating:           r.Rating,
		OccurredAt:       time.Now(),
	})
}

// =========================================
// 应用层DTO
// =========================================

// SubmitReviewRequest 发表评价请求
// Rating按JSON数字接收，是否为1-5的整数由领域层判断
type SubmitReviewRequest struct {
	UserID           uint
	CourseTextbookID uint
	Rating           float64
	Text             *string
	IsAnonymous      bool
}

// SubmitReviewResponse 发表评价响应
type SubmitReviewResponse struct {
	ID uint `json:"id"`
}
