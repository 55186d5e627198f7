package review

import (
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// 评价领域错误定义
var (
	// ErrReviewNotFound 评价不存在
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "Review not found")

	// ErrInvalidRating 评分不是1-5的整数
	ErrInvalidRating = apperrors.New(apperrors.ErrCodeInvalidRating, "Rating must be an integer between 1 and 5")

	// ErrDuplicateReview 同一用户对同一课程教材重复评价
	ErrDuplicateReview = apperrors.New(apperrors.ErrCodeDuplicateReview, "You already reviewed this textbook")

	// ErrDuplicateVote 并发投票时唯一索引冲突
	ErrDuplicateVote = apperrors.New(apperrors.ErrCodeDuplicateVote, "Your vote was already recorded, please refresh and try again")

	// ErrForbidden 非作者操作评价
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "Forbidden")

	// ErrNotAuthenticated 未登录
	ErrNotAuthenticated = apperrors.New(apperrors.ErrCodeUnauthorized, "Not authenticated")
)
