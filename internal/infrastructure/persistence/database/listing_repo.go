package database

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// listingRepository 列表视图查询
// 一条SQL完成：关联表 JOIN 课程、教材，LEFT JOIN 按关联分组的评价聚合
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建列表视图仓储
func NewListingRepository(db *gorm.DB) textbook.ListingRepository {
	return &listingRepository{db: db}
}

// listingRow 列表查询结果
type listingRow struct {
	CourseTextbookID uint
	CourseID         uint
	CourseCode       string
	CourseTitle      string
	CourseSlug       string
	TextbookID       uint
	Title            string
	Author           string
	Edition          *string
	ISBN             *string `gorm:"column:isbn"`
	ImagePath        *string
	ReviewCount      int64
	RatingSum        int64
}

func (r *listingRepository) base(ctx context.Context) *gorm.DB {
	db := getDB(ctx, r.db)
	ratings := db.Session(&gorm.Session{NewDB: true}).
		Table("reviews").
		Select("course_textbook_id, COUNT(*) AS review_count, SUM(rating) AS rating_sum").
		Group("course_textbook_id")

	return db.Table("course_textbooks AS ct").
		Select(`ct.id AS course_textbook_id,
			c.id AS course_id, c.code AS course_code, c.title AS course_title, c.slug AS course_slug,
			t.id AS textbook_id, t.title, t.author, t.edition, t.isbn, t.image_path,
			COALESCE(rs.review_count, 0) AS review_count,
			COALESCE(rs.rating_sum, 0) AS rating_sum`).
		Joins("JOIN courses AS c ON c.id = ct.course_id").
		Joins("JOIN textbooks AS t ON t.id = ct.textbook_id").
		Joins("LEFT JOIN (?) AS rs ON rs.course_textbook_id = ct.id", ratings)
}

func (r *listingRepository) ListAll(ctx context.Context) ([]*textbook.Listing, error) {
	return r.scan(r.base(ctx).Order("ct.id ASC"))
}

func (r *listingRepository) ListByCourse(ctx context.Context, courseID uint) ([]*textbook.Listing, error) {
	return r.scan(r.base(ctx).Where("ct.course_id = ?", courseID).Order("ct.id ASC"))
}

// Search 书名、作者、课程名、课程代码做不区分大小写的子串匹配
// 查询串中含数字时额外匹配ISBN片段
func (r *listingRepository) Search(ctx context.Context, filter textbook.SearchFilter) ([]*textbook.Listing, error) {
	text := strings.ToLower(strings.TrimSpace(filter.Text))
	if text == "" && filter.ISBN == "" {
		return []*textbook.Listing{}, nil
	}

	var (
		conds []string
		args  []interface{}
	)
	if text != "" {
		pattern := likePattern(text)
		conds = append(conds,
			"LOWER(t.title) LIKE ?"+likeEscape,
			"LOWER(t.author) LIKE ?"+likeEscape,
			"LOWER(c.title) LIKE ?"+likeEscape,
			"LOWER(c.code) LIKE ?"+likeEscape)
		args = append(args, pattern, pattern, pattern, pattern)
	}
	if filter.ISBN != "" {
		conds = append(conds, "t.isbn LIKE ?"+likeEscape)
		args = append(args, likePattern(filter.ISBN))
	}

	db := r.base(ctx).Where("("+strings.Join(conds, " OR ")+")", args...).Order("ct.id ASC")
	return r.scan(db)
}

func (r *listingRepository) FindByID(ctx context.Context, courseTextbookID uint) (*textbook.Listing, error) {
	listings, err := r.scan(r.base(ctx).Where("ct.id = ?", courseTextbookID))
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, textbook.ErrCourseTextbookNotFound
	}
	return listings[0], nil
}

func (r *listingRepository) scan(db *gorm.DB) ([]*textbook.Listing, error) {
	var rows []listingRow
	if err := db.Scan(&rows).Error; err != nil {
		return nil, apperrors.WrapStore(err, "查询教材列表失败")
	}

	listings := make([]*textbook.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, &textbook.Listing{
			CourseTextbookID: row.CourseTextbookID,
			Course: textbook.CourseRef{
				ID:    row.CourseID,
				Code:  row.CourseCode,
				Title: row.CourseTitle,
				Slug:  row.CourseSlug,
			},
			Textbook: textbook.Textbook{
				ID:        row.TextbookID,
				Title:     row.Title,
				Author:    row.Author,
				Edition:   row.Edition,
				ISBN:      row.ISBN,
				ImagePath: row.ImagePath,
			},
			Rating: review.RatingSummary{
				Count: row.ReviewCount,
				Sum:   row.RatingSum,
			},
		})
	}
	return listings, nil
}
