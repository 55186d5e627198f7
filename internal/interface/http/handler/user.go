package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/coursebook/internal/application/user"
	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/interface/http/dto"
	"github.com/xiebiao/coursebook/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	refreshUseCase  *appuser.RefreshTokenUseCase
	profileUseCase  *appuser.GetProfileUseCase
	avatarUseCase   *appuser.UploadAvatarUseCase

	maxImageBytes int64
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	cfg *config.Config,
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshUseCase *appuser.RefreshTokenUseCase,
	profileUseCase *appuser.GetProfileUseCase,
	avatarUseCase *appuser.UploadAvatarUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		refreshUseCase:  refreshUseCase,
		profileUseCase:  profileUseCase,
		avatarUseCase:   avatarUseCase,
		maxImageBytes:   cfg.Storage.MaxImageBytes,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      201 {object} response.Response{data=appuser.RegisterResponse} "注册成功"
// @Failure      400 {object} response.Response "参数错误/密码强度不足"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 返回成功响应
	response.Created(c, "Registered successfully", result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      401 {object} response.Response "邮箱或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// 邮箱不存在与密码错误返回同一个错误
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  当前Access Token与可选的Refresh Token加入黑名单
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     Bearer
// @Param        request body dto.LogoutRequest false "Refresh Token"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	// 请求体可以为空
	var req dto.LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
	}

	err := h.logoutUseCase.Execute(c.Request.Context(), appuser.LogoutRequest{
		AccessToken:  middleware.GetAccessToken(c),
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, "Logged out", nil)
}

// Refresh 刷新Access Token
// @Summary      刷新Access Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshTokenResponse}
// @Failure      401 {object} response.Response "Token无效或已登出"
// @Router       /api/v1/users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), appuser.RefreshTokenRequest{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Me 当前用户资料
// @Summary      当前用户资料
// @Tags         用户
// @Produce      json
// @Security     Bearer
// @Success      200 {object} response.Response{data=appuser.UserInfo}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	result, err := h.profileUseCase.Execute(c.Request.Context(), appuser.GetProfileRequest{
		UserID: middleware.GetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UploadAvatar 上传头像
// @Summary      上传头像
// @Description  multipart/form-data，文件字段名avatar；保存到avatars/{userId}.{ext}并覆盖旧文件
// @Tags         用户
// @Accept       mpfd
// @Produce      json
// @Security     Bearer
// @Param        avatar formData file true "头像图片"
// @Success      200 {object} response.Response{data=appuser.UploadAvatarResponse}
// @Failure      400 {object} response.Response "图片格式错误/文件过大"
// @Failure      502 {object} response.Response "上传失败"
// @Router       /api/v1/users/me/avatar [post]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	img, err := readImage(c, "avatar", h.maxImageBytes)
	if err != nil {
		response.Error(c, err)
		return
	}
	if img == nil {
		response.Error(c, apperrors.ErrInvalidParams.WithMessage("Avatar file is required"))
		return
	}

	result, err := h.avatarUseCase.Execute(c.Request.Context(), appuser.UploadAvatarRequest{
		UserID: middleware.GetUserID(c),
		Image:  img,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
