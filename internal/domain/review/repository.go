package review

import (
	"context"
)

// Repository 评价仓储接口
type Repository interface {
	// Create 创建评价
	// (user_id, course_textbook_id) 唯一索引冲突时返回ErrDuplicateReview
	Create(ctx context.Context, review *Review) error

	// FindByID 不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// Update 保存rating、text、is_anonymous、updated_at
	Update(ctx context.Context, review *Review) error

	// Delete 物理删除（删除后允许重新评价）
	Delete(ctx context.Context, id uint) error

	// ListByCourseTextbook 按关联ID查询评价，填充Author
	ListByCourseTextbook(ctx context.Context, courseTextbookID uint) ([]*Review, error)
}

// VoteRepository 投票仓储接口
type VoteRepository interface {
	// Find 查询用户在评价上的投票，未投票返回(nil, nil)
	Find(ctx context.Context, reviewID, userID uint) (*Vote, error)

	// Create (review_id, user_id) 唯一索引冲突时返回ErrDuplicateVote
	Create(ctx context.Context, vote *Vote) error

	// Delete 按ID删除
	Delete(ctx context.Context, id uint) error

	// UpdateDirection 只更新is_upvote，不删除重建
	UpdateDirection(ctx context.Context, id uint, isUpvote bool) error

	// DeleteByReview 删除评价下的全部投票
	DeleteByReview(ctx context.Context, reviewID uint) error

	// Count 统计单条评价的有用/无用票数
	Count(ctx context.Context, reviewID uint) (Tally, error)

	// ListByReviews 批量查询投票
	ListByReviews(ctx context.Context, reviewIDs []uint) ([]*Vote, error)
}

// Transactor 事务执行器
// fn内使用传入的ctx访问仓储，即加入同一事务
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
