package user

import (
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound       = apperrors.New(apperrors.ErrCodeUserNotFound, "User not found")
	ErrEmailDuplicate     = apperrors.New(apperrors.ErrCodeEmailDuplicate, "Email already registered")
	ErrInvalidEmail       = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid email address")
	ErrInvalidDisplayName = apperrors.New(apperrors.ErrCodeInvalidParams, "Display name must be 2-50 characters")
	ErrWeakPassword       = apperrors.New(apperrors.ErrCodeWeakPassword, "Password must be 8-20 characters and contain letters and digits")
)
