package review

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/infrastructure/events"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

// CastVoteUseCase 对评价投有用/无用票
// 同方向再投一次为取消，反方向为切换；返回值是切换后的状态
type CastVoteUseCase struct {
	reviewService review.Service
	publisher     events.Publisher
	metrics       *metrics.Metrics
	log           *logger.Logger
}

// NewCastVoteUseCase 创建投票用例
func NewCastVoteUseCase(reviewService review.Service, publisher events.Publisher, m *metrics.Metrics, log *logger.Logger) *CastVoteUseCase {
	return &CastVoteUseCase{reviewService: reviewService, publisher: publisher, metrics: m, log: log}
}

// Execute 执行投票
func (uc *CastVoteUseCase) Execute(ctx context.Context, req CastVoteRequest) (resp *CastVoteResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "review.CastVote")
	defer func() { tracing.End(span, err) }()

	result, err := uc.reviewService.CastVote(ctx, req.UserID, req.ReviewID, req.IsUpvote)
	if err != nil {
		if errors.Is(err, review.ErrDuplicateVote) {
			// 同一用户并发投票，后到的一方被唯一索引拒绝
			uc.metrics.VotesTotal.WithLabelValues("conflict").Inc()
			uc.log.Warn("并发投票冲突", "review_id", req.ReviewID, "user_id", req.UserID)
		}
		return nil, err
	}

	uc.metrics.VotesTotal.WithLabelValues(result.Action.String()).Inc()
	uc.publisher.Publish(ctx, events.Event{
		Type:       events.VoteCast,
		ReviewID:   req.ReviewID,
		UserID:     req.UserID,
		Upvotes:    result.Upvotes,
		Downvotes:  result.Downvotes,
		OccurredAt: time.Now(),
	})

	return &CastVoteResponse{
		Upvotes:   result.Upvotes,
		Downvotes: result.Downvotes,
		UserVote:  result.UserVote,
	}, nil
}

// =========================================
// 应用层DTO
// =========================================

// CastVoteRequest 投票请求
type CastVoteRequest struct {
	UserID   uint
	ReviewID uint
	IsUpvote bool
}

// CastVoteResponse 投票后的统计
// UserVote: null未投票 / true有用 / false无用
type CastVoteResponse struct {
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
	UserVote  *bool `json:"user_vote"`
}
