package course

import (
	"context"
)

// Repository 课程仓储接口
type Repository interface {
	// Create 创建课程
	// slug唯一索引冲突时返回ErrSlugTaken
	Create(ctx context.Context, course *Course) error

	// FindByID 不存在返回ErrCourseNotFound
	FindByID(ctx context.Context, id uint) (*Course, error)

	// FindBySlug 不存在返回ErrCourseNotFound
	FindBySlug(ctx context.Context, slug string) (*Course, error)

	// SlugExists 判断slug是否已被占用
	SlugExists(ctx context.Context, slug string) (bool, error)

	// List 按课程代码升序返回课程及其关联教材数
	// query非空时对code、title、slug做不区分大小写的子串匹配
	List(ctx context.Context, query string) ([]*Summary, error)
}
