package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 本地磁盘存储，开发环境使用
// 文件由gin的Static路由对外提供，URL为 {publicBaseURL}/{key}
type LocalStore struct {
	dir       string
	publicURL string
}

// NewLocalStore 创建本地存储，目录不存在时自动创建
func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("storage.local_dir不能为空")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建存储目录失败: %w", err)
	}
	return &LocalStore{dir: dir, publicURL: publicBaseURL}, nil
}

// Dir 存储根目录
func (s *LocalStore) Dir() string {
	return s.dir
}

// path key中不允许出现跳出根目录的路径
func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(key, "..") || clean == "/" {
		return "", fmt.Errorf("非法的对象key: %q", key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(clean)), nil
}

// Put 先写临时文件再重命名，读者不会看到写了一半的文件
func (s *LocalStore) Put(_ context.Context, key, _ string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	return os.Rename(tmp.Name(), p)
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return joinURL(s.publicURL, key)
}
