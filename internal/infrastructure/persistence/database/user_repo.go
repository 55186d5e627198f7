package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/coursebook/internal/domain/user"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
)

// userRepository 用户仓储的GORM实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:       u.Email,
		Password:    u.Password,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return apperrors.WrapStore(err, "创建用户失败")
	}

	u.ID = model.ID
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.WrapStore(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := getDB(ctx, r.db).Where("email = ?", email).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.WrapStore(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func (r *userRepository) UpdateAvatar(ctx context.Context, id uint, avatarURL string) error {
	result := getDB(ctx, r.db).Model(&UserModel{}).Where("id = ?", id).Update("avatar_url", avatarURL)
	if result.Error != nil {
		return apperrors.WrapStore(result.Error, "更新头像失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:          m.ID,
		Email:       m.Email,
		Password:    m.Password,
		DisplayName: m.DisplayName,
		AvatarURL:   m.AvatarURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
