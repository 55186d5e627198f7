package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/coursebook/internal/infrastructure/config"
	"github.com/xiebiao/coursebook/internal/infrastructure/logger"
	"github.com/xiebiao/coursebook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/coursebook/pkg/jwt"
	"github.com/xiebiao/coursebook/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{Admin: config.AdminConfig{Emails: []string{"Admin@Example.com"}}}
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	blacklist := redis.NewLocalBlacklist()
	auth := NewAuthMiddleware(cfg, manager, blacklist)

	r := gin.New()
	r.GET("/me", auth.RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "token": GetAccessToken(c)})
	})
	r.GET("/admin", auth.RequireAuth(), auth.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/optional", auth.OptionalAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	student, err := manager.GenerateToken(7, "student@example.com", "Student")
	require.NoError(t, err)
	admin, err := manager.GenerateToken(1, "admin@example.com", "Admin")
	require.NoError(t, err)

	t.Run("缺少Token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token无效", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", bearer("not-a-jwt"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("有效Token", func(t *testing.T) {
		w := do(r, http.MethodGet, "/me", bearer(student.AccessToken))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("非管理员", func(t *testing.T) {
		w := do(r, http.MethodGet, "/admin", bearer(student.AccessToken))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("管理员邮箱忽略大小写", func(t *testing.T) {
		w := do(r, http.MethodGet, "/admin", bearer(admin.AccessToken))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("可选登录：无效Token按匿名处理", func(t *testing.T) {
		w := do(r, http.MethodGet, "/optional", bearer("garbage"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":0`)

		w = do(r, http.MethodGet, "/optional", bearer(student.AccessToken))
		assert.Contains(t, w.Body.String(), `"user_id":7`)
	})

	t.Run("已登出的Token", func(t *testing.T) {
		require.NoError(t, blacklist.Revoke(context.Background(), student.AccessToken, time.Hour))
		w := do(r, http.MethodGet, "/me", bearer(student.AccessToken))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "revoked")
	})
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(&config.Config{RateLimit: config.RateLimitConfig{RPS: 1, Burst: 2}})
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	r := gin.New()
	r.POST("/write", l.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/write", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/write", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/write", nil).Code)

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/write", nil).Code)

	t.Run("rps为0时不限流", func(t *testing.T) {
		off := NewRateLimiter(&config.Config{})
		r := gin.New()
		r.POST("/write", off.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "/write", nil).Code)
		}
	})
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(RequestLogger(logger.NewNop()), Metrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/items/1", map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))

	w = do(r, http.MethodGet, "/items/2", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36, "未传入时生成UUID")

	do(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInProgress))
}
