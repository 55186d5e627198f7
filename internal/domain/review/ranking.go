package review

import (
	"fmt"
	"sort"
)

// RatingSummary 课程-教材关联上的评分汇总
// 没有评价时平均分无定义，展示为"no rating"，不能当成0
type RatingSummary struct {
	Count int64
	Sum   int64
}

// NoRatingLabel 零评价时的展示文字
const NoRatingLabel = "no rating"

// Average 平均分；ok=false表示没有评价
func (s RatingSummary) Average() (avg float64, ok bool) {
	if s.Count == 0 {
		return 0, false
	}
	return float64(s.Sum) / float64(s.Count), true
}

// AveragePtr 供JSON输出使用，零评价时为nil（序列化为null）
func (s RatingSummary) AveragePtr() *float64 {
	avg, ok := s.Average()
	if !ok {
		return nil
	}
	return &avg
}

// Label 保留一位小数，零评价返回NoRatingLabel
func (s RatingSummary) Label() string {
	avg, ok := s.Average()
	if !ok {
		return NoRatingLabel
	}
	return fmt.Sprintf("%.1f", avg)
}

// Summarize 由评价列表计算汇总
func Summarize(reviews []*Review) RatingSummary {
	var s RatingSummary
	for _, r := range reviews {
		s.Count++
		s.Sum += int64(r.Rating)
	}
	return s
}

// RankedReview 带投票统计的评价（列表展示用）
type RankedReview struct {
	*Review
	Tally
	Score    int64
	UserVote *bool
	IsOwner  bool
}

// Rank 统计投票并排序
// 只统计reviews中出现的评价的投票，其余（如已删除评价遗留的投票）直接忽略
// 排序：score降序 → created_at降序 → id降序
func Rank(reviews []*Review, votes []*Vote, viewerID uint) []*RankedReview {
	byID := make(map[uint]*RankedReview, len(reviews))
	ranked := make([]*RankedReview, 0, len(reviews))
	for _, r := range reviews {
		rr := &RankedReview{Review: r, IsOwner: r.IsOwnedBy(viewerID)}
		byID[r.ID] = rr
		ranked = append(ranked, rr)
	}

	for _, v := range votes {
		rr, ok := byID[v.ReviewID]
		if !ok {
			continue
		}
		if v.IsUpvote {
			rr.Upvotes++
		} else {
			rr.Downvotes++
		}
		if viewerID != 0 && v.UserID == viewerID {
			rr.UserVote = StateOf(v).UserVote()
		}
	}

	for _, rr := range ranked {
		rr.Score = rr.Tally.Score()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return ranked
}
