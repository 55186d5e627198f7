package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
)

// CORS 跨域配置
// 未配置allow_origins时允许所有来源（不携带凭证）
func CORS(cfg *config.Config) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.Server.AllowOrigins; len(origins) > 0 {
		cc.AllowOrigins = origins
		cc.AllowCredentials = true
	} else {
		cc.AllowAllOrigins = true
	}
	return cors.New(cc)
}
