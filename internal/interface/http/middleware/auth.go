package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/coursebook/pkg/errors"
	"github.com/xiebiao/coursebook/pkg/jwt"
	"github.com/xiebiao/coursebook/pkg/response"
)

// Context中的键
const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxDisplayName = "display_name"
	ctxAccessToken = "access_token"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单（已登出）
// 3. 验证Token有效性
// 4. 将用户信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  redis.TokenBlacklist
	admin      config.AdminConfig
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(cfg *config.Config, jwtManager *jwt.Manager, blacklist redis.TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
		admin:      cfg.Admin,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Abort(c, apperrors.ErrUnauthorized)
			return
		}
		if err := m.authenticate(c, token); err != nil {
			response.Abort(c, err)
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选登录
// 有合法Token则注入用户信息，否则按匿名用户继续（评价列表等公开接口）
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			_ = m.authenticate(c, token)
		}
		c.Next()
	}
}

// RequireAdmin 要求管理员，必须放在RequireAuth之后
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.admin.IsAdmin(GetEmail(c)) {
			response.Abort(c, apperrors.ErrForbidden.WithMessage("Admin only"))
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context, token string) error {
	// 1. 已登出的Token
	revoked, err := m.blacklist.IsRevoked(c.Request.Context(), token)
	if err != nil {
		return apperrors.ErrCacheError.WithCause(err)
	}
	if revoked {
		return apperrors.ErrInvalidToken.WithMessage("token revoked, please log in again")
	}

	// 2. 验证签名与有效期
	claims, err := m.jwtManager.ParseToken(token)
	if err != nil {
		return err
	}

	// 3. 注入Context
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxDisplayName, claims.DisplayName)
	c.Set(ctxAccessToken, token)
	return nil
}

// bearerToken 格式：Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if uid, ok := v.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetEmail 当前登录用户邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetAccessToken 当前请求携带的Access Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
