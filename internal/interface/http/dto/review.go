package dto

// SubmitReviewRequest HTTP发表评价请求
// rating按数字接收，不是数字、非整数或不在1-5时都返回评分错误（而不是参数绑定错误）
type SubmitReviewRequest struct {
	CourseTextbookID uint     `json:"course_textbook_id" binding:"required" example:"1"`
	Rating           *float64 `json:"rating" example:"4"`
	Text             *string  `json:"text" binding:"omitempty,max=5000" example:"Clear explanations, lots of exercises"`
	IsAnonymous      bool     `json:"is_anonymous" example:"false"`
}

// UpdateReviewRequest HTTP修改评价请求，未传的字段不修改
type UpdateReviewRequest struct {
	Rating      *float64 `json:"rating" example:"5"`
	Text        *string  `json:"text" binding:"omitempty,max=5000"`
	IsAnonymous *bool    `json:"is_anonymous"`
}

// VoteRequest HTTP投票请求
type VoteRequest struct {
	IsUpvote *bool `json:"is_upvote" binding:"required" example:"true"`
}
