package database

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/course"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository 创建课程仓储
func NewCourseRepository(db *gorm.DB) course.Repository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(ctx context.Context, c *course.Course) error {
	model := &CourseModel{
		Code:      c.Code,
		Title:     c.Title,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return course.ErrSlugTaken
		}
		return apperrors.WrapStore(err, "创建课程失败")
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	return nil
}

func (r *courseRepository) FindByID(ctx context.Context, id uint) (*course.Course, error) {
	var model CourseModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, course.ErrCourseNotFound
		}
		return nil, apperrors.WrapStore(err, "查询课程失败")
	}
	return toCourseEntity(&model), nil
}

func (r *courseRepository) FindBySlug(ctx context.Context, slug string) (*course.Course, error) {
	var model CourseModel
	if err := getDB(ctx, r.db).Where("slug = ?", slug).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, course.ErrCourseNotFound
		}
		return nil, apperrors.WrapStore(err, "查询课程失败")
	}
	return toCourseEntity(&model), nil
}

func (r *courseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := getDB(ctx, r.db).Model(&CourseModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, apperrors.WrapStore(err, "查询课程失败")
	}
	return count > 0, nil
}

// courseRow 课程列表查询结果
type courseRow struct {
	ID            uint
	Code          string
	Title         string
	Slug          string
	TextbookCount int64
}

// List 课程列表
// LEFT JOIN关联表统计教材数，没有教材的课程数量为0
func (r *courseRepository) List(ctx context.Context, query string) ([]*course.Summary, error) {
	db := getDB(ctx, r.db).
		Table("courses AS c").
		Select("c.id, c.code, c.title, c.slug, COUNT(ct.id) AS textbook_count").
		Joins("LEFT JOIN course_textbooks AS ct ON ct.course_id = c.id")

	if q := strings.ToLower(strings.TrimSpace(query)); q != "" {
		pattern := likePattern(q)
		db = db.Where("LOWER(c.code) LIKE ?"+likeEscape+" OR LOWER(c.title) LIKE ?"+likeEscape+" OR LOWER(c.slug) LIKE ?"+likeEscape, pattern, pattern, pattern)
	}

	var rows []courseRow
	err := db.Group("c.id, c.code, c.title, c.slug").
		Order("c.code ASC, c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.WrapStore(err, "查询课程列表失败")
	}

	summaries := make([]*course.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, &course.Summary{
			Course: course.Course{
				ID:    row.ID,
				Code:  row.Code,
				Title: row.Title,
				Slug:  row.Slug,
			},
			TextbookCount: row.TextbookCount,
		})
	}
	return summaries, nil
}

func toCourseEntity(m *CourseModel) *course.Course {
	return &course.Course{
		ID:        m.ID,
		Code:      m.Code,
		Title:     m.Title,
		Slug:      m.Slug,
		CreatedAt: m.CreatedAt,
	}
}

// likeEscape 追加在每个LIKE之后
// 用!而不是反斜杠：MySQL字符串字面量会吞掉反斜杠
const likeEscape = " ESCAPE '!'"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern 子串匹配，查询串中的%和_按字面匹配
// 搭配likeEscape使用
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}
