package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/review"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository 创建投票仓储
func NewVoteRepository(db *gorm.DB) review.VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Find(ctx context.Context, reviewID, userID uint) (*review.Vote, error) {
	var model ReviewVoteModel
	err := getDB(ctx, r.db).Where("review_id = ? AND user_id = ?", reviewID, userID).First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.WrapStore(err, "查询投票失败")
	}
	return toVoteEntity(&model), nil
}

func (r *voteRepository) Create(ctx context.Context, v *review.Vote) error {
	model := &ReviewVoteModel{
		ReviewID:  v.ReviewID,
		UserID:    v.UserID,
		IsUpvote:  v.IsUpvote,
		CreatedAt: v.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrDuplicateVote
		}
		return apperrors.WrapStore(err, "保存投票失败")
	}
	v.ID = model.ID
	v.CreatedAt = model.CreatedAt
	return nil
}

func (r *voteRepository) Delete(ctx context.Context, id uint) error {
	if err := getDB(ctx, r.db).Delete(&ReviewVoteModel{}, id).Error; err != nil {
		return apperrors.WrapStore(err, "删除投票失败")
	}
	return nil
}

func (r *voteRepository) UpdateDirection(ctx context.Context, id uint, isUpvote bool) error {
	err := getDB(ctx, r.db).Model(&ReviewVoteModel{}).Where("id = ?", id).Update("is_upvote", isUpvote).Error
	if err != nil {
		return apperrors.WrapStore(err, "更新投票失败")
	}
	return nil
}

func (r *voteRepository) DeleteByReview(ctx context.Context, reviewID uint) error {
	if err := getDB(ctx, r.db).Where("review_id = ?", reviewID).Delete(&ReviewVoteModel{}).Error; err != nil {
		return apperrors.WrapStore(err, "删除投票失败")
	}
	return nil
}

type tallyRow struct {
	Upvotes   int64
	Downvotes int64
}

// Count 一次查询统计两个方向的票数
func (r *voteRepository) Count(ctx context.Context, reviewID uint) (review.Tally, error) {
	var row tallyRow
	err := getDB(ctx, r.db).Model(&ReviewVoteModel{}).
		Select("COUNT(CASE WHEN is_upvote = ? THEN 1 END) AS upvotes, COUNT(CASE WHEN is_upvote = ? THEN 1 END) AS downvotes", true, false).
		Where("review_id = ?", reviewID).
		Scan(&row).Error
	if err != nil {
		return review.Tally{}, apperrors.WrapStore(err, "统计投票失败")
	}
	return review.Tally{Upvotes: row.Upvotes, Downvotes: row.Downvotes}, nil
}

func (r *voteRepository) ListByReviews(ctx context.Context, reviewIDs []uint) ([]*review.Vote, error) {
	if len(reviewIDs) == 0 {
		return []*review.Vote{}, nil
	}
	var models []ReviewVoteModel
	if err := getDB(ctx, r.db).Where("review_id IN ?", reviewIDs).Find(&models).Error; err != nil {
		return nil, apperrors.WrapStore(err, "查询投票失败")
	}
	votes := make([]*review.Vote, 0, len(models))
	for i := range models {
		votes = append(votes, toVoteEntity(&models[i]))
	}
	return votes, nil
}

func toVoteEntity(m *ReviewVoteModel) *review.Vote {
	return &review.Vote{
		ID:        m.ID,
		ReviewID:  m.ReviewID,
		UserID:    m.UserID,
		IsUpvote:  m.IsUpvote,
		CreatedAt: m.CreatedAt,
	}
}
