package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/review"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评价仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := toReviewModel(rv)
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrDuplicateReview
		}
		return apperrors.WrapStore(err, "创建评价失败")
	}
	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.WrapStore(err, "查询评价失败")
	}
	return toReviewEntity(&model), nil
}

// Update 只写可修改的列
// Select显式列出字段，Text为nil、IsAnonymous为false时也会写入
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := getDB(ctx, r.db).Model(&ReviewModel{ID: rv.ID}).
		Select("rating", "text", "is_anonymous", "updated_at").
		Updates(&ReviewModel{
			Rating:      rv.Rating,
			Text:        rv.Text,
			IsAnonymous: rv.IsAnonymous,
			UpdatedAt:   rv.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.WrapStore(result.Error, "更新评价失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.WrapStore(result.Error, "删除评价失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// ListByCourseTextbook 查询评价并批量补齐作者资料
// 两次查询代替JOIN，避免N+1
func (r *reviewRepository) ListByCourseTextbook(ctx context.Context, courseTextbookID uint) ([]*review.Review, error) {
	db := getDB(ctx, r.db)

	var models []ReviewModel
	if err := db.Where("course_textbook_id = ?", courseTextbookID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapStore(err, "查询评价列表失败")
	}
	if len(models) == 0 {
		return []*review.Review{}, nil
	}

	userIDs := make([]uint, 0, len(models))
	seen := make(map[uint]struct{}, len(models))
	for _, m := range models {
		if _, ok := seen[m.UserID]; !ok {
			seen[m.UserID] = struct{}{}
			userIDs = append(userIDs, m.UserID)
		}
	}

	var users []UserModel
	if err := db.Select("id", "display_name", "avatar_url").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, apperrors.WrapStore(err, "查询评价作者失败")
	}
	authors := make(map[uint]*review.Author, len(users))
	for _, u := range users {
		authors[u.ID] = &review.Author{DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
	}

	reviews := make([]*review.Review, 0, len(models))
	for i := range models {
		rv := toReviewEntity(&models[i])
		rv.Author = authors[rv.UserID]
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

func toReviewModel(rv *review.Review) *ReviewModel {
	return &ReviewModel{
		ID:               rv.ID,
		UserID:           rv.UserID,
		CourseTextbookID: rv.CourseTextbookID,
		Rating:           rv.Rating,
		Text:             rv.Text,
		IsAnonymous:      rv.IsAnonymous,
		CreatedAt:        rv.CreatedAt,
		UpdatedAt:        rv.UpdatedAt,
	}
}

func toReviewEntity(m *ReviewModel) *review.Review {
	return &review.Review{
		ID:               m.ID,
		UserID:           m.UserID,
		CourseTextbookID: m.CourseTextbookID,
		Rating:           m.Rating,
		Text:             m.Text,
		IsAnonymous:      m.IsAnonymous,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
