package textbook

import (
	"sort"

	"github.com/xiebiao/coursebook/internal/domain/review"
)

// Listing 课程-教材关联的展示视图（首页榜单、搜索、课程详情）
type Listing struct {
	CourseTextbookID uint
	Course           CourseRef
	Textbook         Textbook
	Rating           review.RatingSummary
}

// CourseRef 列表中需要的课程字段
type CourseRef struct {
	ID    uint
	Code  string
	Title string
	Slug  string
}

// SearchFilter 搜索条件
// Text 匹配教材书名、作者、课程名、课程代码（不区分大小写）
// ISBN 为查询串中提取出的数字/X片段，为空时不参与匹配
type SearchFilter struct {
	Text string
	ISBN string
}

// RankByRating 按平均分降序、评价数降序排序，截取前limit个
// 没有评价的排在最后；最终按关联ID升序保证结果稳定
// limit<=0 表示不截取
func RankByRating(listings []*Listing, limit int) []*Listing {
	out := make([]*Listing, len(listings))
	copy(out, listings)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		avgA, okA := a.Rating.Average()
		avgB, okB := b.Rating.Average()
		if okA != okB {
			return okA
		}
		if avgA != avgB {
			return avgA > avgB
		}
		if a.Rating.Count != b.Rating.Count {
			return a.Rating.Count > b.Rating.Count
		}
		return a.CourseTextbookID < b.CourseTextbookID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
