package course

import (
	"context"
	"errors"
	"strings"
)

// Service 课程领域服务
type Service interface {
	// CreateCourse 创建课程并分配唯一slug
	// 业务规则：
	// - code、title必填
	// - 候选slug最多尝试MaxSlugAttempts次，全部冲突返回ErrSlugExhausted
	CreateCourse(ctx context.Context, code, title string) (*Course, error)

	// Resolve 按ID或slug定位课程（ID优先）
	Resolve(ctx context.Context, id uint, slug string) (*Course, error)

	// GetBySlug 课程详情页使用
	GetBySlug(ctx context.Context, slug string) (*Course, error)

	// ListCourses 课程列表/搜索
	ListCourses(ctx context.Context, query string) ([]*Summary, error)
}

type service struct {
	repo     Repository
	attempts int
}

// NewService 创建课程领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo, attempts: MaxSlugAttempts}
}

// CreateCourse 创建课程
// 先查询候选slug是否存在，再插入；
// 查询与插入之间被并发占用时，唯一索引返回ErrSlugTaken，继续尝试下一个候选
func (s *service) CreateCourse(ctx context.Context, code, title string) (*Course, error) {
	// 1. 参数校验
	c, err := NewCourse(code, title)
	if err != nil {
		return nil, err
	}

	// 2. 逐个尝试候选slug
	for _, candidate := range SlugCandidates(c.Code, c.Title, s.attempts) {
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		c.Slug = candidate
		err = s.repo.Create(ctx, c)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, ErrSlugTaken) {
			return nil, err
		}
	}

	return nil, ErrSlugExhausted
}

func (s *service) Resolve(ctx context.Context, id uint, slug string) (*Course, error) {
	if id > 0 {
		return s.repo.FindByID(ctx, id)
	}
	if slug = strings.TrimSpace(slug); slug != "" {
		return s.repo.FindBySlug(ctx, slug)
	}
	return nil, ErrMissingIdentifier
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Course, error) {
	return s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) ListCourses(ctx context.Context, query string) ([]*Summary, error) {
	return s.repo.List(ctx, strings.TrimSpace(query))
}
