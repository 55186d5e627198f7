package course

import (
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// 课程领域错误定义
var (
	// ErrCourseNotFound 课程不存在
	ErrCourseNotFound = apperrors.New(apperrors.ErrCodeCourseNotFound, "Course not found")

	// ErrMissingFields 缺少课程代码或名称
	ErrMissingFields = apperrors.New(apperrors.ErrCodeInvalidParams, "Code and title are required")

	// ErrMissingIdentifier 既没有courseId也没有courseSlug
	ErrMissingIdentifier = apperrors.New(apperrors.ErrCodeInvalidParams, "courseId or courseSlug is required")

	// ErrSlugTaken slug唯一索引冲突（仓储层返回，Service会换下一个候选）
	ErrSlugTaken = apperrors.New(apperrors.ErrCodeDuplicateEntry, "Course slug already exists")

	// ErrSlugExhausted 所有候选slug均已被占用
	ErrSlugExhausted = apperrors.New(apperrors.ErrCodeSlugExhausted, "Could not generate a unique slug for this course")
)
