package errors

import (
	"errors"
	"fmt"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，HTTP状态码由HTTPStatus(Code)统一换算
// 2. Message是用户可读的提示信息
// 3. Err是内部错误，仅记录到日志，不返回给客户端
type AppError struct {
	Code    int    `json:"code"`    // 业务错误码
	Message string `json:"message"` // 用户可读的错误提示
	Err     error  `json:"-"`       // 内部错误（不序列化）
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，错误码即错误种类
// 预定义错误经WithCause/WithMessage派生后仍然能用errors.Is识别
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause 基于预定义错误附加内部原因，返回新实例
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{Code: e.Code, Message: e.Message, Err: err}
}

// WithMessage 保留错误码，替换提示信息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{Code: e.Code, Message: message, Err: e.Err}
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// WrapStore 包装存储层错误（数据库不可用、连接中断等）
func WrapStore(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeStoreUnavailable,
		Message: message,
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码前三位与HTTP状态码一致，状态码换算见status.go

const (
	// 参数错误（40000-40099）
	ErrCodeInvalidParams      = 40000 // 参数错误(通用)
	ErrCodeInvalidRating      = 40001 // 评分不在1-5之间
	ErrCodeInvalidISBN        = 40002 // ISBN长度非法
	ErrCodeInvalidImageFormat = 40003 // 图片扩展名不支持
	ErrCodeWeakPassword       = 40004 // 密码强度不足
	ErrCodeBindError          = 40005 // 参数绑定失败

	// 认证授权错误（40100-40399）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误
	ErrCodeForbidden       = 40300 // 无权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeCourseNotFound   = 40401 // 课程不存在
	ErrCodeTextbookNotFound = 40402 // 教材不存在
	ErrCodeReviewNotFound   = 40403 // 评价不存在
	ErrCodeUserNotFound     = 40404 // 用户不存在

	// 唯一性冲突（40900-40999）
	ErrCodeDuplicateEntry  = 40900 // 重复记录(通用)
	ErrCodeDuplicateReview = 40901 // 同一用户重复评价
	ErrCodeDuplicateVote   = 40902 // 并发重复投票
	ErrCodeEmailDuplicate  = 40903 // 邮箱已存在
	ErrCodeSlugExhausted   = 40904 // slug重试次数耗尽

	ErrCodeTooManyRequests = 42900 // 请求过于频繁

	// 系统级错误（5xxxx）
	ErrCodeInternal           = 50000 // 内部错误
	ErrCodeStorageWriteFailed = 50200 // 对象存储写入失败
	ErrCodeStoreUnavailable   = 50300 // 数据库不可用
	ErrCodeCacheError         = 50301 // Redis错误
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal           = New(ErrCodeInternal, "internal server error")
	ErrStoreUnavailable   = New(ErrCodeStoreUnavailable, "data store unavailable")
	ErrStorageWriteFailed = New(ErrCodeStorageWriteFailed, "failed to store file")
	ErrCacheError         = New(ErrCodeCacheError, "cache unavailable")

	ErrUnauthorized    = New(ErrCodeUnauthorized, "not authenticated")
	ErrInvalidToken    = New(ErrCodeInvalidToken, "invalid token")
	ErrTokenExpired    = New(ErrCodeTokenExpired, "token expired")
	ErrInvalidPassword = New(ErrCodeInvalidPassword, "invalid email or password")
	ErrForbidden       = New(ErrCodeForbidden, "forbidden")

	ErrNotFound = New(ErrCodeNotFound, "not found")

	ErrDuplicateEntry  = New(ErrCodeDuplicateEntry, "duplicate entry")
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "too many requests")

	ErrInvalidParams = New(ErrCodeInvalidParams, "invalid input")
	ErrBindError     = New(ErrCodeBindError, "malformed request body")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}

// HasCode 判断错误链中是否存在指定错误码
func HasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
