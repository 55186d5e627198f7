// Package slug 把课程标题、课程代码等自由文本转换为URL安全的标识
package slug

import (
	"regexp"
	"strings"
)

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-+`)
)

// Make 生成slug
// 规则：
// 1. 转小写并去掉首尾空白
// 2. 删除 [a-z0-9\s-] 以外的字符
// 3. 连续空白替换为单个连字符
// 4. 连续连字符合并为一个
//
// 输出只包含 [a-z0-9-] 且没有重复连字符，所以 Make(Make(s)) == Make(s)
func Make(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = disallowed.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return hyphens.ReplaceAllString(s, "-")
}
