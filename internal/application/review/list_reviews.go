package review

import (
	"context"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/review"
	"github.com/xiebiao/coursebook/internal/domain/textbook"
)

// ListReviewsUseCase 课程-教材下的评价列表
// 排序：score降序 → created_at降序 → id降序
// 匿名评价不返回作者资料（作者本人查看也一样）
type ListReviewsUseCase struct {
	reviewService   review.Service
	textbookService textbook.Service
}

// NewListReviewsUseCase 创建评价列表用例
func NewListReviewsUseCase(reviewService review.Service, textbookService textbook.Service) *ListReviewsUseCase {
	return &ListReviewsUseCase{reviewService: reviewService, textbookService: textbookService}
}

// Execute 执行查询，ViewerID为0表示未登录
func (uc *ListReviewsUseCase) Execute(ctx context.Context, req ListReviewsRequest) (*ListReviewsResponse, error) {
	// 1. 关联必须存在
	if _, err := uc.textbookService.GetLink(ctx, req.CourseTextbookID); err != nil {
		return nil, err
	}

	// 2. 评价 + 投票统计 + 排序
	ranked, summary, err := uc.reviewService.ListRanked(ctx, req.CourseTextbookID, req.ViewerID)
	if err != nil {
		return nil, err
	}

	resp := &ListReviewsResponse{
		CourseTextbookID: req.CourseTextbookID,
		AverageRating:    summary.AveragePtr(),
		ReviewCount:      summary.Count,
		RatingLabel:      summary.Label(),
		Reviews:          make([]ReviewInfo, 0, len(ranked)),
	}
	if req.ViewerID != 0 {
		id := req.ViewerID
		resp.CurrentUserID = &id
	}

	for _, rr := range ranked {
		info := ReviewInfo{
			ID:          rr.ID,
			Rating:      rr.Rating,
			Text:        rr.Text,
			IsAnonymous: rr.IsAnonymous,
			CreatedAt:   rr.CreatedAt,
			UpdatedAt:   rr.UpdatedAt,
			Upvotes:     rr.Upvotes,
			Downvotes:   rr.Downvotes,
			Score:       rr.Score,
			UserVote:    rr.UserVote,
			IsOwner:     rr.IsOwner,
		}
		if !rr.IsAnonymous && rr.Author != nil {
			info.Author = &AuthorInfo{
				DisplayName: rr.Author.DisplayName,
				AvatarURL:   rr.Author.AvatarURL,
			}
		}
		resp.Reviews = append(resp.Reviews, info)
	}
	return resp, nil
}

// =========================================
// 应用层DTO
// =========================================

// ListReviewsRequest 评价列表请求
type ListReviewsRequest struct {
	CourseTextbookID uint
	ViewerID         uint
}

// ListReviewsResponse 评价列表响应
type ListReviewsResponse struct {
	CourseTextbookID uint         `json:"course_textbook_id"`
	AverageRating    *float64     `json:"average_rating"`
	ReviewCount      int64        `json:"review_count"`
	RatingLabel      string       `json:"rating_label"`
	CurrentUserID    *uint        `json:"current_user_id"`
	Reviews          []ReviewInfo `json:"reviews"`
}

// ReviewInfo 评价列表项
type ReviewInfo struct {
	ID          uint        `json:"id"`
	Rating      int         `json:"rating"`
	Text        *string     `json:"text"`
	IsAnonymous bool        `json:"is_anonymous"`
	Author      *AuthorInfo `json:"author"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Upvotes     int64       `json:"upvotes"`
	Downvotes   int64       `json:"downvotes"`
	Score       int64       `json:"score"`
	UserVote    *bool       `json:"user_vote"`
	IsOwner     bool        `json:"is_owner"`
}

// AuthorInfo 作者公开资料
type AuthorInfo struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}
