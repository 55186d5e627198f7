// Package isbn 规范化并校验ISBN
package isbn

import (
	"strings"

	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// ErrInvalid ISBN长度不是10或13
var ErrInvalid = apperrors.New(apperrors.ErrCodeInvalidISBN,
	"ISBN must be 10 or 13 characters (digits and X only)")

// Strip 只保留数字和X（大写），不做长度校验
// 搜索场景用它从查询串中提取ISBN片段
func Strip(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'x' || r == 'X':
			b.WriteByte('X')
		}
	}
	return b.String()
}

// Fragment 搜索用的ISBN片段
// 不含数字时返回空串，"Linux"这类文本不会变成"X"去匹配所有X结尾的ISBN-10
func Fragment(text string) string {
	s := Strip(text)
	if strings.Trim(s, "X") == "" {
		return ""
	}
	return s
}

// Normalize 规范化ISBN
// "978-0-13-468599-1" → "9780134685991"
// 长度不是10或13时返回ErrInvalid
func Normalize(text string) (string, error) {
	s := Strip(text)
	if len(s) != 10 && len(s) != 13 {
		return "", ErrInvalid
	}
	return s, nil
}
