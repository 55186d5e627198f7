package review

import (
	"context"
	"time"
)

// Service 评价领域服务
// 设计说明：
// 1. 所有写操作先做参数校验，再访问数据库
// 2. 唯一性（一人一评、一人一票）交给数据库唯一索引，仓储层负责把冲突转换成领域错误
// 3. 不做任何自动重试
type Service interface {
	// Create 发表评价
	Create(ctx context.Context, userID, courseTextbookID uint, rating float64, text *string, isAnonymous bool) (*Review, error)

	// Update 部分更新评价，仅作者本人
	Update(ctx context.Context, userID, reviewID uint, rating *float64, text *string, isAnonymous *bool) (*Review, error)

	// Delete 删除评价及其投票，仅作者本人
	Delete(ctx context.Context, userID, reviewID uint) error

	// CastVote 投票/切换/取消
	CastVote(ctx context.Context, userID, reviewID uint, isUpvote bool) (*VoteResult, error)

	// ListRanked 关联下的评价（已排序）及评分汇总
	ListRanked(ctx context.Context, courseTextbookID, viewerID uint) ([]*RankedReview, RatingSummary, error)
}

type service struct {
	reviews Repository
	votes   VoteRepository
	tx      Transactor
	now     func() time.Time
}

// NewService 创建评价领域服务
func NewService(reviews Repository, votes VoteRepository, tx Transactor) Service {
	return &service{reviews: reviews, votes: votes, tx: tx, now: time.Now}
}

func (s *service) Create(ctx context.Context, userID, courseTextbookID uint, rating float64, text *string, isAnonymous bool) (*Review, error) {
	// 1. 身份与参数校验
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	r, err := ParseRating(rating)
	if err != nil {
		return nil, err
	}

	// 2. 写入，重复评价由唯一索引拦截
	review := NewReview(userID, courseTextbookID, r, text, isAnonymous)
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) Update(ctx context.Context, userID, reviewID uint, rating *float64, text *string, isAnonymous *bool) (*Review, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	// 1. 校验评分（在读库之前）
	patch := Patch{Text: text, IsAnonymous: isAnonymous}
	if rating != nil {
		r, err := ParseRating(*rating)
		if err != nil {
			return nil, err
		}
		patch.Rating = &r
	}

	// 2. 归属校验
	review, err := s.owned(ctx, userID, reviewID)
	if err != nil {
		return nil, err
	}

	// 3. 应用并保存
	review.Apply(patch, s.now())
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *service) Delete(ctx context.Context, userID, reviewID uint) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	if _, err := s.owned(ctx, userID, reviewID); err != nil {
		return err
	}

	// 投票随评价一起删除，避免留下孤儿记录
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.votes.DeleteByReview(ctx, reviewID); err != nil {
			return err
		}
		return s.reviews.Delete(ctx, reviewID)
	})
}

// CastVote 读取 → 按状态分支 → 单次写入 → 重新统计
// 两个请求同时读到NoVote时，后插入的一方由唯一索引拒绝并返回ErrDuplicateVote
func (s *service) CastVote(ctx context.Context, userID, reviewID uint, isUpvote bool) (*VoteResult, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if _, err := s.reviews.FindByID(ctx, reviewID); err != nil {
		return nil, err
	}

	existing, err := s.votes.Find(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	action, next := Transition(existing, isUpvote)
	switch action {
	case VoteInsert:
		err = s.votes.Create(ctx, &Vote{
			ReviewID:  reviewID,
			UserID:    userID,
			IsUpvote:  isUpvote,
			CreatedAt: s.now(),
		})
	case VoteDelete:
		err = s.votes.Delete(ctx, existing.ID)
	case VoteFlip:
		err = s.votes.UpdateDirection(ctx, existing.ID, isUpvote)
	}
	if err != nil {
		return nil, err
	}

	tally, err := s.votes.Count(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	return &VoteResult{Tally: tally, UserVote: next.UserVote(), Action: action}, nil
}

func (s *service) ListRanked(ctx context.Context, courseTextbookID, viewerID uint) ([]*RankedReview, RatingSummary, error) {
	reviews, err := s.reviews.ListByCourseTextbook(ctx, courseTextbookID)
	if err != nil {
		return nil, RatingSummary{}, err
	}

	ids := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.ID)
	}

	var votes []*Vote
	if len(ids) > 0 {
		if votes, err = s.votes.ListByReviews(ctx, ids); err != nil {
			return nil, RatingSummary{}, err
		}
	}

	return Rank(reviews, votes, viewerID), Summarize(reviews), nil
}

// owned 查询评价并校验归属
func (s *service) owned(ctx context.Context, userID, reviewID uint) (*Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}
	return review, nil
}
