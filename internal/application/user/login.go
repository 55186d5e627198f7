package user

import (
	"context"
	"time"

	"github.com/xiebiao/coursebook/internal/domain/user"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码（邮箱不存在与密码错误返回同一个错误）
// 2. 生成JWT Token对
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	log         *logger.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, log *logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		jwtManager:  jwtManager,
		log:         log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.DisplayName)
	if err != nil {
		return nil, err
	}

	uc.log.Info("用户登录", "user_id", u.ID)

	// 3. 返回登录响应
	return &LoginResponse{
		User:         toUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
// Token加入黑名单，黑名单TTL取Token剩余有效期
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	blacklist  redis.TokenBlacklist
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, blacklist redis.TokenBlacklist) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, blacklist: blacklist}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	now := time.Now()

	// 1. Access Token（已经过认证中间件，一定有效）
	if err := uc.revoke(ctx, req.AccessToken, now); err != nil {
		return err
	}

	// 2. Refresh Token可选；无效的直接忽略
	if req.RefreshToken == "" {
		return nil
	}
	if _, err := uc.jwtManager.ParseToken(req.RefreshToken); err != nil {
		return nil
	}
	return uc.revoke(ctx, req.RefreshToken, now)
}

func (uc *LogoutUseCase) revoke(ctx context.Context, token string, now time.Time) error {
	claims, err := uc.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}
	if err := uc.blacklist.Revoke(ctx, token, claims.TTL(now)); err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	return nil
}

// RefreshTokenUseCase 用Refresh Token换取新的Access Token
type RefreshTokenUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	blacklist   redis.TokenBlacklist
}

// NewRefreshTokenUseCase 创建刷新Token用例
func NewRefreshTokenUseCase(userService user.Service, jwtManager *jwt.Manager, blacklist redis.TokenBlacklist) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{userService: userService, jwtManager: jwtManager, blacklist: blacklist}
}

// Execute 执行刷新
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, req RefreshTokenRequest) (*RefreshTokenResponse, error) {
	// 1. 已登出的Refresh Token不能再用
	revoked, err := uc.blacklist.IsRevoked(ctx, req.RefreshToken)
	if err != nil {
		return nil, apperrors.ErrCacheError.WithCause(err)
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	// 2. 解析出用户，读取最新的展示名
	claims, err := uc.jwtManager.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	u, err := uc.userService.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	// 3. 签发新的Access Token
	token, _, err := uc.jwtManager.RefreshAccessToken(req.RefreshToken, u.Email, u.DisplayName)
	if err != nil {
		return nil, err
	}
	return &RefreshTokenResponse{AccessToken: token}, nil
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // Access Token过期时间（秒）
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	AccessToken  string
	RefreshToken string
}

// RefreshTokenRequest 刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string
}

// RefreshTokenResponse 刷新Token响应
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
}
