package user

import (
	"context"
)

// Repository 用户仓储接口
// 说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/database
type Repository interface {
	// Create 创建用户
	// 邮箱已存在时返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// UpdateAvatar 更新头像地址
	UpdateAvatar(ctx context.Context, id uint, avatarURL string) error
}
