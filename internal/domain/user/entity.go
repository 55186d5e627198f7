package user

import (
	"fmt"
	"time"
)

// User 用户实体（聚合根）
// 说明：
// 1. 评价、投票只记录UserID，展示时取DisplayName与AvatarURL
// 2. 密码为bcrypt哈希值，领域实体不依赖GORM tag
type User struct {
	ID          uint
	Email       string
	Password    string // bcrypt哈希值
	DisplayName string
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, displayName string) *User {
	now := time.Now()
	return &User{
		Email:       email,
		Password:    hashedPassword,
		DisplayName: displayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// SetAvatar 更新头像地址
func (u *User) SetAvatar(url string) {
	u.AvatarURL = url
	u.UpdatedAt = time.Now()
}

// AvatarKey 头像在对象存储中的key
func AvatarKey(userID uint, ext string) string {
	return fmt.Sprintf("avatars/%d.%s", userID, ext)
}
