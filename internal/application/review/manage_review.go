package review

import (
	"context"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

// UpdateReviewUseCase 修改评价（仅作者本人，只改传入的字段）
type UpdateReviewUseCase struct {
	reviewService review.Service
	notifier      *notifier
}

// NewUpdateReviewUseCase 创建修改评价用例
func NewUpdateReviewUseCase(
	reviewService review.Service,
	cache redis.ListingCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *UpdateReviewUseCase {
	return &UpdateReviewUseCase{
		reviewService: reviewService,
		notifier:      newNotifier(cache, publisher, m, log),
	}
}

// Execute 执行修改
func (uc *UpdateReviewUseCase) Execute(ctx context.Context, req UpdateReviewRequest) (resp *OKResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "review.Update")
	defer func() { tracing.End(span, err) }()

	r, err := uc.reviewService.Update(ctx, req.UserID, req.ReviewID, req.Rating, req.Text, req.IsAnonymous)
	if err != nil {
		return nil, err
	}

	uc.notifier.reviewChanged(ctx, events.ReviewUpdated, "updated", r)
	return &OKResponse{OK: true}, nil
}

// DeleteReviewUseCase 删除评价（仅作者本人），投票在同一事务中删除
type DeleteReviewUseCase struct {
	reviewService review.Service
	notifier      *notifier
}

// NewDeleteReviewUseCase 创建删除评价用例
func NewDeleteReviewUseCase(
	reviewService review.Service,
	cache redis.ListingCache,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		reviewService: reviewService,
		notifier:      newNotifier(cache, publisher, m, log),
	}
}

// Execute 执行删除
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, req DeleteReviewRequest) (resp *OKResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "review.Delete")
	defer func() { tracing.End(span, err) }()

	if err := uc.reviewService.Delete(ctx, req.UserID, req.ReviewID); err != nil {
		return nil, err
	}

	uc.notifier.reviewChanged(ctx, events.ReviewDeleted, "deleted", &review.Review{ID: req.ReviewID, UserID: req.UserID})
	return &OKResponse{OK: true}, nil
}

// =========================================
// 应用层DTO
// =========================================

// UpdateReviewRequest 修改评价请求，nil字段不修改
type UpdateReviewRequest struct {
	UserID      uint
	ReviewID    uint
	Rating      *float64
	Text        *string
	IsAnonymous *bool
}

// DeleteReviewRequest 删除评价请求
type DeleteReviewRequest struct {
	UserID   uint
	ReviewID uint
}

// OKResponse 修改/删除成功
type OKResponse struct {
	OK bool `json:"ok"`
}
