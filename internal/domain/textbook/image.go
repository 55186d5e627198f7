package textbook

import (
	"context"
	"fmt"
	"path"
	"strings"
)

// allowedExtensions 封面/头像允许的扩展名
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"webp": true,
	"gif":  true,
}

// Image 待存储的图片
type Image struct {
	Filename    string // 上传文件名；远程图片为空
	ContentType string
	Data        []byte
}

// Ext 推断扩展名并校验（忽略大小写）
// 优先使用文件名后缀，没有文件名时取Content-Type的子类型（image/jpeg → jpeg）
func (img *Image) Ext() (string, error) {
	var ext string
	if img.Filename != "" {
		ext = strings.TrimPrefix(path.Ext(img.Filename), ".")
	} else {
		ext = ExtFromContentType(img.ContentType)
	}
	return ValidateExt(ext)
}

// ExtFromContentType image/png; charset=... → png
func ExtFromContentType(contentType string) string {
	ct := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	if i := strings.LastIndex(ct, "/"); i >= 0 {
		return ct[i+1:]
	}
	return ""
}

// ValidateExt 扩展名白名单校验，返回小写扩展名
func ValidateExt(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !allowedExtensions[ext] {
		return "", ErrInvalidImageFormat
	}
	return ext, nil
}

// ImageKey 教材封面的对象key：{textbookID}.{ext}
func ImageKey(textbookID uint, ext string) string {
	return fmt.Sprintf("%d.%s", textbookID, ext)
}

// ImageStore 对象存储
// Put 同key覆盖写入
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// ImageFetcher 下载远程图片
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*Image, error)
}
