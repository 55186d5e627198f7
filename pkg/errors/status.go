package errors

import "net/http"

// statusTable 错误码 → HTTP状态码，全局唯一的换算表
// handler和middleware都只通过HTTPStatus取状态码，不各自判断
var statusTable = map[int]int{
	ErrCodeInvalidParams:      http.StatusBadRequest,
	ErrCodeInvalidRating:      http.StatusBadRequest,
	ErrCodeInvalidISBN:        http.StatusBadRequest,
	ErrCodeInvalidImageFormat: http.StatusBadRequest,
	ErrCodeWeakPassword:       http.StatusBadRequest,
	ErrCodeBindError:          http.StatusBadRequest,

	ErrCodeUnauthorized:    http.StatusUnauthorized,
	ErrCodeInvalidToken:    http.StatusUnauthorized,
	ErrCodeTokenExpired:    http.StatusUnauthorized,
	ErrCodeInvalidPassword: http.StatusUnauthorized,
	ErrCodeForbidden:       http.StatusForbidden,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeCourseNotFound:   http.StatusNotFound,
	ErrCodeTextbookNotFound: http.StatusNotFound,
	ErrCodeReviewNotFound:   http.StatusNotFound,
	ErrCodeUserNotFound:     http.StatusNotFound,

	ErrCodeDuplicateEntry:  http.StatusConflict,
	ErrCodeDuplicateReview: http.StatusConflict,
	ErrCodeDuplicateVote:   http.StatusConflict,
	ErrCodeEmailDuplicate:  http.StatusConflict,
	ErrCodeSlugExhausted:   http.StatusConflict,

	ErrCodeTooManyRequests: http.StatusTooManyRequests,

	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeStorageWriteFailed: http.StatusBadGateway,
	ErrCodeStoreUnavailable:   http.StatusServiceUnavailable,
	ErrCodeCacheError:         http.StatusServiceUnavailable,
}

// HTTPStatus 返回错误码对应的HTTP状态码
// 未登记的错误码按前三位换算，仍无法识别时返回500
func HTTPStatus(code int) int {
	if status, ok := statusTable[code]; ok {
		return status
	}
	if status := code / 100; status >= 400 && status < 600 {
		return status
	}
	return http.StatusInternalServerError
}
