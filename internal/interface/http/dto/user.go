package dto

// RegisterRequest HTTP注册请求
// 密码强度、展示名长度由领域层校验
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=100" example:"student@example.com"`
	Password    string `json:"password" binding:"required" example:"secret123"`
	DisplayName string `json:"display_name" binding:"required,notblank" example:"Student"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"student@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshTokenRequest HTTP刷新Token请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest HTTP登出请求，refresh_token可选
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
