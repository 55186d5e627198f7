package user

import (
	"context"

	"github.com/xiebiao/coursebook/internal/domain/user"
)

// GetProfileUseCase 当前用户资料
type GetProfileUseCase struct {
	userService user.Service
}

// NewGetProfileUseCase 创建查询资料用例
func NewGetProfileUseCase(userService user.Service) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService}
}

// Execute 执行查询
func (uc *GetProfileUseCase) Execute(ctx context.Context, req GetProfileRequest) (*UserInfo, error) {
	u, err := uc.userService.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(u)
	return &info, nil
}

// GetProfileRequest 查询资料请求
type GetProfileRequest struct {
	UserID uint
}
