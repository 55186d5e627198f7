package user

import (
	"context"

	"github.com/xiebiao/coursebook/internal/domain/user"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
)

// RegisterUseCase 用户注册用例
// 邮箱格式、密码强度、展示名长度的校验在领域服务里
type RegisterUseCase struct {
	userService user.Service
	log         *logger.Logger
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, log *logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		log:         log,
	}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	// 1. 调用领域服务执行注册
	u, err := uc.userService.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}

	uc.log.Info("用户已注册", "user_id", u.ID)

	// 2. 领域实体 → 应用层DTO（不返回密码）
	return &RegisterResponse{User: toUserInfo(u)}, nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email       string
	Password    string
	DisplayName string
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	User UserInfo `json:"user"`
}

// UserInfo 用户信息
type UserInfo struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func toUserInfo(u *user.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}
