package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/textbook"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

type textbookRepository struct {
	db *gorm.DB
}

// NewTextbookRepository 创建教材仓储
func NewTextbookRepository(db *gorm.DB) textbook.Repository {
	return &textbookRepository{db: db}
}

func (r *textbookRepository) Create(ctx context.Context, t *textbook.Textbook) error {
	model := &TextbookModel{
		Title:     t.Title,
		Author:    t.Author,
		Edition:   t.Edition,
		ISBN:      t.ISBN,
		ImagePath: t.ImagePath,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// 只有isbn上有唯一索引
		if isDuplicateError(err) {
			return textbook.ErrISBNTaken
		}
		return apperrors.WrapStore(err, "创建教材失败")
	}
	t.ID = model.ID
	t.CreatedAt = model.CreatedAt
	t.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *textbookRepository) FindByID(ctx context.Context, id uint) (*textbook.Textbook, error) {
	var model TextbookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, textbook.ErrTextbookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询教材失败")
	}
	return toTextbookEntity(&model), nil
}

func (r *textbookRepository) FindByIDs(ctx context.Context, ids []uint) ([]*textbook.Textbook, error) {
	if len(ids) == 0 {
		return []*textbook.Textbook{}, nil
	}
	var models []TextbookModel
	if err := getDB(ctx, r.db).Where("id IN ?", ids).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.WrapStore(err, "批量查询教材失败")
	}
	textbooks := make([]*textbook.Textbook, 0, len(models))
	for i := range models {
		textbooks = append(textbooks, toTextbookEntity(&models[i]))
	}
	return textbooks, nil
}

func (r *textbookRepository) FindByISBN(ctx context.Context, isbn string) (*textbook.Textbook, error) {
	var model TextbookModel
	if err := getDB(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, textbook.ErrTextbookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询教材失败")
	}
	return toTextbookEntity(&model), nil
}

func (r *textbookRepository) FindByIdentity(ctx context.Context, title, author string, edition *string) (*textbook.Textbook, error) {
	db := getDB(ctx, r.db).Where("title = ? AND author = ?", title, author)
	if edition == nil {
		db = db.Where("edition IS NULL")
	} else {
		db = db.Where("edition = ?", *edition)
	}

	var model TextbookModel
	if err := db.Order("id ASC").First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, textbook.ErrTextbookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询教材失败")
	}
	return toTextbookEntity(&model), nil
}

func (r *textbookRepository) UpdateImagePath(ctx context.Context, id uint, imagePath string) error {
	result := getDB(ctx, r.db).Model(&TextbookModel{}).Where("id = ?", id).Update("image_path", imagePath)
	if result.Error != nil {
		return apperrors.WrapStore(result.Error, "更新教材封面失败")
	}
	if result.RowsAffected == 0 {
		return textbook.ErrTextbookNotFound
	}
	return nil
}

func (r *textbookRepository) FindLink(ctx context.Context, courseID, textbookID uint) (*textbook.CourseTextbook, error) {
	var model CourseTextbookModel
	err := getDB(ctx, r.db).
		Where("course_id = ? AND textbook_id = ?", courseID, textbookID).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, apperrors.WrapStore(err, "查询课程教材关联失败")
	}
	return toLinkEntity(&model), nil
}

func (r *textbookRepository) CreateLink(ctx context.Context, link *textbook.CourseTextbook) error {
	model := &CourseTextbookModel{
		CourseID:   link.CourseID,
		TextbookID: link.TextbookID,
		CreatedAt:  link.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return textbook.ErrLinkExists
		}
		return apperrors.WrapStore(err, "创建课程教材关联失败")
	}
	link.ID = model.ID
	link.CreatedAt = model.CreatedAt
	return nil
}

func (r *textbookRepository) FindLinkByID(ctx context.Context, id uint) (*textbook.CourseTextbook, error) {
	var model CourseTextbookModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, textbook.ErrCourseTextbookNotFound
		}
		return nil, apperrors.WrapStore(err, "查询课程教材关联失败")
	}
	return toLinkEntity(&model), nil
}

func toTextbookEntity(m *TextbookModel) *textbook.Textbook {
	return &textbook.Textbook{
		ID:        m.ID,
		Title:     m.Title,
		Author:    m.Author,
		Edition:   m.Edition,
		ISBN:      m.ISBN,
		ImagePath: m.ImagePath,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toLinkEntity(m *CourseTextbookModel) *textbook.CourseTextbook {
	return &textbook.CourseTextbook{
		ID:         m.ID,
		CourseID:   m.CourseID,
		TextbookID: m.TextbookID,
		CreatedAt:  m.CreatedAt,
	}
}
