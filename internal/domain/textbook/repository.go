package textbook

import (
	"context"
)

// Repository 教材及课程关联仓储接口
type Repository interface {
	// Create 创建教材，ISBN冲突返回ErrISBNTaken
	Create(ctx context.Context, textbook *Textbook) error

	// FindByID 不存在返回ErrTextbookNotFound
	FindByID(ctx context.Context, id uint) (*Textbook, error)

	// FindByIDs 批量查询，忽略不存在的ID
	FindByIDs(ctx context.Context, ids []uint) ([]*Textbook, error)

	// FindByISBN isbn为规范化后的值，不存在返回ErrTextbookNotFound
	FindByISBN(ctx context.Context, isbn string) (*Textbook, error)

	// FindByIdentity 按 (title, author, edition) 精确匹配，edition为nil时匹配NULL
	FindByIdentity(ctx context.Context, title, author string, edition *string) (*Textbook, error)

	// UpdateImagePath 记录封面key
	UpdateImagePath(ctx context.Context, id uint, imagePath string) error

	// FindLink 查询关联，不存在返回(nil, nil)
	FindLink(ctx context.Context, courseID, textbookID uint) (*CourseTextbook, error)

	// CreateLink 创建关联，(course_id, textbook_id) 冲突返回ErrLinkExists
	CreateLink(ctx context.Context, link *CourseTextbook) error

	// FindLinkByID 不存在返回ErrCourseTextbookNotFound
	FindLinkByID(ctx context.Context, id uint) (*CourseTextbook, error)
}

// ListingRepository 列表视图查询（只读）
// 返回的Listing已经带上评分汇总，排序交给RankByRating
type ListingRepository interface {
	// ListAll 全站所有课程-教材关联
	ListAll(ctx context.Context) ([]*Listing, error)

	// ListByCourse 指定课程下的关联
	ListByCourse(ctx context.Context, courseID uint) ([]*Listing, error)

	// Search 子串搜索
	Search(ctx context.Context, filter SearchFilter) ([]*Listing, error)

	// FindByID 单个关联的视图，不存在返回ErrCourseTextbookNotFound
	FindByID(ctx context.Context, courseTextbookID uint) (*Listing, error)
}
