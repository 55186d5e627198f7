package catalog

import (
	"github.com/xiebiao/coursebook/internal/domain/course"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
)

// =========================================
// 应用层DTO（列表项，多个用例共用）
// =========================================

// CourseInfo 课程信息
type CourseInfo struct {
	ID    uint   `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// TextbookInfo 教材信息，ImageURL由对象存储的key换算
type TextbookInfo struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Edition  *string `json:"edition"`
	ISBN     *string `json:"isbn"`
	ImageURL *string `json:"image_url"`
}

// RatingInfo 评分汇总
// AverageRating为nil表示没有评价，RatingLabel此时为"no rating"
type RatingInfo struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int64    `json:"review_count"`
	RatingLabel   string   `json:"rating_label"`
}

// ListingInfo 课程-教材关联（首页、搜索、课程页的列表项）
type ListingInfo struct {
	CourseTextbookID uint         `json:"course_textbook_id"`
	Course           CourseInfo   `json:"course"`
	Textbook         TextbookInfo `json:"textbook"`
	RatingInfo
}

// URLResolver 对象存储key → 公开地址
type URLResolver interface {
	URL(key string) string
}

func courseInfo(c *course.Course) CourseInfo {
	return CourseInfo{ID: c.ID, Code: c.Code, Title: c.Title, Slug: c.Slug}
}

func textbookInfo(tb *textbook.Textbook, urls URLResolver) TextbookInfo {
	info := TextbookInfo{
		ID:      tb.ID,
		Title:   tb.Title,
		Author:  tb.Author,
		Edition: tb.Edition,
		ISBN:    tb.ISBN,
	}
	if tb.ImagePath != nil && *tb.ImagePath != "" {
		u := urls.URL(*tb.ImagePath)
		info.ImageURL = &u
	}
	return info
}

func listingInfos(listings []*textbook.Listing, urls URLResolver) []ListingInfo {
	out := make([]ListingInfo, 0, len(listings))
	for _, l := range listings {
		out = append(out, ListingInfo{
			CourseTextbookID: l.CourseTextbookID,
			Course: CourseInfo{
				ID:    l.Course.ID,
				Code:  l.Course.Code,
				Title: l.Course.Title,
				Slug:  l.Course.Slug,
			},
			Textbook: textbookInfo(&l.Textbook, urls),
			RatingInfo: RatingInfo{
				AverageRating: l.Rating.AveragePtr(),
				ReviewCount:   l.Rating.Count,
				RatingLabel:   l.Rating.Label(),
			},
		})
	}
	return out
}
