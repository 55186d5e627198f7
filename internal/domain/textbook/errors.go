package textbook

import (
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// 教材领域错误定义
var (
	// ErrTextbookNotFound 教材不存在
	ErrTextbookNotFound = apperrors.New(apperrors.ErrCodeTextbookNotFound, "Textbook not found")

	// ErrCourseTextbookNotFound 课程-教材关联不存在
	ErrCourseTextbookNotFound = apperrors.New(apperrors.ErrCodeNotFound, "Course textbook not found")

	// ErrMissingFields 书名、作者必填
	ErrMissingFields = apperrors.New(apperrors.ErrCodeInvalidParams, "Title and author are required")

	// ErrInvalidImageFormat 图片扩展名不在白名单内
	ErrInvalidImageFormat = apperrors.New(apperrors.ErrCodeInvalidImageFormat, "Invalid image format (allowed: jpg, jpeg, png, webp, gif)")

	// ErrImageTooLarge 图片超过大小上限
	ErrImageTooLarge = apperrors.New(apperrors.ErrCodeInvalidParams, "Image is too large")

	// ErrImageFetchFailed 远程图片下载失败
	// 返回时教材记录已经写入，只是没有封面和关联
	ErrImageFetchFailed = apperrors.New(apperrors.ErrCodeInvalidParams, "Failed to fetch image from URL")

	// ErrISBNTaken ISBN唯一索引冲突（仓储层返回）
	ErrISBNTaken = apperrors.New(apperrors.ErrCodeDuplicateEntry, "Textbook with this ISBN already exists")

	// ErrLinkExists 关联唯一索引冲突（仓储层返回）
	ErrLinkExists = apperrors.New(apperrors.ErrCodeDuplicateEntry, "Textbook already linked to course")
)
