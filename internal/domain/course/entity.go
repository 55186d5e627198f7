package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/xiebiao/coursebook/pkg/slug"
)

// MaxSlugAttempts slug冲突时最多尝试的候选数量（含不带后缀的第一个）
const MaxSlugAttempts = 5

// Course 课程实体
// 说明：课程由管理员创建，创建后不提供修改接口（教材关联依赖slug稳定）
type Course struct {
	ID        uint
	Code      string // 课程代码，如COP3502
	Title     string // 课程名称
	Slug      string // URL标识，全局唯一
	CreatedAt time.Time
}

// Summary 课程列表项（附带关联教材数量）
type Summary struct {
	Course
	TextbookCount int64
}

// NewCourse 创建课程(工厂方法)
// slug由Service在检查冲突后填入
func NewCourse(code, title string) (*Course, error) {
	code = strings.TrimSpace(code)
	title = strings.TrimSpace(title)
	if code == "" || title == "" {
		return nil, ErrMissingFields
	}
	return &Course{
		Code:      code,
		Title:     title,
		CreatedAt: time.Now(),
	}, nil
}

// SlugCandidates 生成slug候选列表
// base = slug.Make(title)，为空时用"course"
// 第1个候选为 {code}-{base}，之后依次追加 -2、-3 ...
//
//	SlugCandidates("COP3502", "Computer Science I", 3)
//	→ [cop3502-computer-science-i cop3502-computer-science-i-2 cop3502-computer-science-i-3]
func SlugCandidates(code, title string, attempts int) []string {
	base := slug.Make(title)
	if base == "" {
		base = "course"
	}
	root := base
	if c := slug.Make(code); c != "" {
		root = c + "-" + base
	}

	candidates := make([]string, 0, attempts)
	for i := 1; i <= attempts; i++ {
		if i == 1 {
			candidates = append(candidates, root)
			continue
		}
		candidates = append(candidates, fmt.Sprintf("%s-%d", root, i))
	}
	return candidates
}
