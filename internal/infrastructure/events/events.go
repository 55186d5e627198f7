// Package events 评价、投票、教材变更的领域事件
//
// 事件只用于通知（缓存失效、统计），发布失败只记日志，不影响主流程。
package events

import (
	"context"
	"time"
)

// routing key
const (
	ReviewCreated = "review.created"
	ReviewUpdated = "review.updated"
	ReviewDeleted = "review.deleted"
	VoteCast      = "vote.cast"
	TextbookAdded = "textbook.added"
)

// Event 领域事件
type Event struct {
	Type             string    `json:"type"`
	CourseTextbookID uint      `json:"course_textbook_id,omitempty"`
	ReviewID         uint      `json:"review_id,omitempty"`
	UserID           uint      `json:"user_id,omitempty"`
	Rating           int       `json:"rating,omitempty"`
	Upvotes          int64     `json:"upvotes,omitempty"`
	Downvotes        int64     `json:"downvotes,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// AffectsRatings 是否影响评分汇总（需要让热门榜单缓存失效）
func (e Event) AffectsRatings() bool {
	switch e.Type {
	case ReviewCreated, ReviewUpdated, ReviewDeleted, TextbookAdded:
		return true
	}
	return false
}

// Publisher 事件发布
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// NoopPublisher mq未启用时使用
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
