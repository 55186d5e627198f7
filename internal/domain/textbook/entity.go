package textbook

import (
	"strings"
	"time"

	"github.com/xiebiao/coursebook/pkg/isbn"
)

// Textbook 教材实体
// 去重规则：
// 1. 有ISBN时按ISBN判重（ISBN唯一，且存储规范化后的值）
// 2. 否则按 (title, author, edition) 判重
type Textbook struct {
	ID        uint
	Title     string
	Author    string
	Edition   *string // 版次，可为空
	ISBN      *string // 规范化后的ISBN，可为空
	ImagePath *string // 封面在对象存储中的key，可为空
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CourseTextbook 课程与教材的关联
// 评价挂在关联上：同一本书在不同课程下分别评价
type CourseTextbook struct {
	ID         uint
	CourseID   uint
	TextbookID uint
	CreatedAt  time.Time
}

// Draft 新增/关联教材时的描述信息（未经校验）
type Draft struct {
	Title   string
	Author  string
	Edition string
	ISBN    string

	Image    *Image // 上传的文件
	ImageURL string // 远程图片地址（Image为空时才使用）
}

// Normalize 校验并规范化草稿
// 1. title、author必填
// 2. ISBN非空时必须是10或13位
// 3. 上传文件的扩展名必须在白名单内
// 多次调用结果相同
func (d Draft) Normalize() (Draft, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Author = strings.TrimSpace(d.Author)
	d.Edition = strings.TrimSpace(d.Edition)
	d.ImageURL = strings.TrimSpace(d.ImageURL)

	if d.Title == "" || d.Author == "" {
		return d, ErrMissingFields
	}

	if raw := strings.TrimSpace(d.ISBN); raw != "" {
		normalized, err := isbn.Normalize(raw)
		if err != nil {
			return d, err
		}
		d.ISBN = normalized
	} else {
		d.ISBN = ""
	}

	if d.Image != nil {
		if _, err := d.Image.Ext(); err != nil {
			return d, err
		}
	}
	return d, nil
}

// HasImage 是否提供了封面
func (d Draft) HasImage() bool {
	return d.Image != nil || d.ImageURL != ""
}

// NewTextbook 由已规范化的草稿创建教材
func NewTextbook(d Draft) *Textbook {
	now := time.Now()
	return &Textbook{
		Title:     d.Title,
		Author:    d.Author,
		Edition:   optional(d.Edition),
		ISBN:      optional(d.ISBN),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
