package user

import (
	"context"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/textbook"
	"github.com/xiebiao/coursebook/internal/domain/user"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/metrics"
	"github.com/xiebiao/coursebook/pkg/saga"
	"github.com/xiebiao/coursebook/pkg/tracing"
)

const (
	avatarSaga        = "avatar_upload"
	avatarSagaTimeout = 30 * time.Second
)

// UploadAvatarUseCase 上传头像
// 对象存储和数据库无法放进同一个事务，用Saga编排：
// 1. 上传到avatars/{userId}.{ext}（覆盖写）
// 2. 更新用户的avatar_url
// 第2步失败时删除第1步上传的对象。
// 新旧头像扩展名相同时key也相同，上传已经覆盖了旧文件，此时不做补偿。
type UploadAvatarUseCase struct {
	userService user.Service
	store       storage.Store
	metrics     *metrics.Metrics
	log         *logger.Logger
}

// NewUploadAvatarUseCase 创建上传头像用例
func NewUploadAvatarUseCase(userService user.Service, store storage.Store, m *metrics.Metrics, log *logger.Logger) *UploadAvatarUseCase {
	return &UploadAvatarUseCase{userService: userService, store: store, metrics: m, log: log}
}

// Execute 执行上传
func (uc *UploadAvatarUseCase) Execute(ctx context.Context, req UploadAvatarRequest) (resp *UploadAvatarResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "user.UploadAvatar")
	defer func() { tracing.End(span, err) }()

	// 1. 校验（任何写入之前）
	if req.Image == nil || len(req.Image.Data) == 0 {
		return nil, apperrors.ErrInvalidParams.WithMessage("Avatar file is required")
	}
	ext, err := req.Image.Ext()
	if err != nil {
		return nil, err
	}

	u, err := uc.userService.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	key := user.AvatarKey(u.ID, ext)
	url := uc.store.URL(key)

	// 2. Saga编排
	var compensate func(ctx context.Context) error
	if u.AvatarURL != url {
		compensate = func(ctx context.Context) error {
			return uc.store.Delete(ctx, key)
		}
	}

	s := saga.NewSaga(avatarSagaTimeout).OnCompensateError(func(step string, err error) {
		uc.metrics.SagaCompensationErrors.WithLabelValues(avatarSaga, step).Inc()
		uc.log.Error("头像上传补偿失败", "user_id", u.ID, "step", step, "key", key, "error", err)
	})
	s.AddStep("upload_object", func(ctx context.Context) error {
		if err := uc.store.Put(ctx, key, req.Image.ContentType, req.Image.Data); err != nil {
			if apperrors.IsAppError(err) {
				return err
			}
			return apperrors.ErrStorageWriteFailed.WithCause(err)
		}
		return nil
	}, compensate)
	s.AddStep("update_user", func(ctx context.Context) error {
		return uc.userService.UpdateAvatar(ctx, u.ID, url)
	}, nil)

	err = s.Execute(ctx)
	uc.metrics.SagaResult(avatarSaga, err)
	if err != nil {
		uc.log.Warn("头像上传失败", "user_id", u.ID, "error", err)
		return nil, err
	}

	return &UploadAvatarResponse{AvatarURL: url}, nil
}

// =========================================
// 应用层DTO
// =========================================

// UploadAvatarRequest 上传头像请求
// 扩展名白名单与教材封面相同
type UploadAvatarRequest struct {
	UserID uint
	Image  *textbook.Image
}

// UploadAvatarResponse 上传头像响应
type UploadAvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}
