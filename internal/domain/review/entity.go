package review

import (
	"math"
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review 教材评价实体
// 业务规则：
// 1. 评价挂在课程-教材关联(CourseTextbook)上，而不是教材本身
// 2. 同一用户对同一关联最多一条评价（数据库唯一索引保证）
// 3. 只有作者本人可以修改、删除
type Review struct {
	ID               uint
	UserID           uint
	CourseTextbookID uint
	Rating           int
	Text             *string // 可为空
	IsAnonymous      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Author 仅在列表查询时填充
	Author *Author
}

// Author 评价作者的公开资料
type Author struct {
	DisplayName string
	AvatarURL   string
}

// Patch 评价的部分更新，nil字段表示不修改
type Patch struct {
	Rating      *int
	Text        *string
	IsAnonymous *bool
}

// ParseRating 校验评分
// 请求中的评分按JSON数字解析，非整数或不在[1,5]内都返回ErrInvalidRating
func ParseRating(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, ErrInvalidRating
	}
	if v < MinRating || v > MaxRating {
		return 0, ErrInvalidRating
	}
	return int(v), nil
}

// NewReview 创建评价(工厂方法)
// rating需调用方先经过ParseRating
func NewReview(userID, courseTextbookID uint, rating int, text *string, isAnonymous bool) *Review {
	now := time.Now()
	return &Review{
		UserID:           userID,
		CourseTextbookID: courseTextbookID,
		Rating:           rating,
		Text:             normalizeText(text),
		IsAnonymous:      isAnonymous,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// IsOwnedBy 检查评价是否属于指定用户
func (r *Review) IsOwnedBy(userID uint) bool {
	return userID != 0 && r.UserID == userID
}

// Apply 应用部分更新，每次都会刷新UpdatedAt
func (r *Review) Apply(p Patch, now time.Time) {
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.Text != nil {
		r.Text = normalizeText(p.Text)
	}
	if p.IsAnonymous != nil {
		r.IsAnonymous = *p.IsAnonymous
	}
	r.UpdatedAt = now
}

// normalizeText 去掉首尾空白，空串按NULL存储
func normalizeText(text *string) *string {
	if text == nil {
		return nil
	}
	t := strings.TrimSpace(*text)
	if t == "" {
		return nil
	}
	return &t
}
